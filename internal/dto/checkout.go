package dto

import (
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/models"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/service"
)

type SelectionRequest struct {
	AddressID      string `json:"address_id" binding:"required,uuid"`
	DeliveryOption string `json:"delivery_option" binding:"omitempty,delivery_option"`
	PaymentMethod  string `json:"payment_method" binding:"required,payment_method"`
}

type SelectionResponse struct {
	AddressID      *string  `json:"address_id"`
	DeliveryOption string   `json:"delivery_option"`
	PaymentMethod  string   `json:"payment_method"`
	Subtotal       *float64 `json:"subtotal,omitempty"`
	ShippingFee    *float64 `json:"shipping_fee,omitempty"`
	Total          *float64 `json:"total,omitempty"`
}

type TotalsResponse struct {
	Subtotal    float64 `json:"subtotal"`
	ShippingFee float64 `json:"shipping_fee"`
	Total       float64 `json:"total"`
}

func NewSelectionResponse(s *models.CheckoutSelection) SelectionResponse {
	r := SelectionResponse{
		DeliveryOption: s.DeliveryOption,
		PaymentMethod:  s.PaymentMethod,
		Subtotal:       s.Subtotal,
		ShippingFee:    s.ShippingFee,
		Total:          s.Total,
	}
	if s.AddressID != nil {
		id := s.AddressID.String()
		r.AddressID = &id
	}
	return r
}

func NewTotalsResponse(t service.Totals) TotalsResponse {
	return TotalsResponse{Subtotal: t.Subtotal, ShippingFee: t.ShippingFee, Total: t.Total}
}
