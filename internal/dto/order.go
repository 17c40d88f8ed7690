package dto

import (
	"time"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/models"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/repository"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/service"
)

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

type ListOrdersQuery struct {
	Status string `form:"status"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

type ShippingAddressResponse struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
	Landmark    string `json:"landmark,omitempty"`
	AddressType string `json:"address_type,omitempty"`
}

type OrderItemResponse struct {
	ProductID   string  `json:"product_id"`
	VariantID   *string `json:"variant_id,omitempty"`
	VariantName string  `json:"variant_name,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	LineTotal   float64 `json:"line_total"`
}

type OrderResponse struct {
	ID                string                  `json:"id"`
	UserID            string                  `json:"user_id"`
	Status            string                  `json:"status"`
	PaymentStatus     *string                 `json:"payment_status,omitempty"`
	DeliveryOption    string                  `json:"delivery_option"`
	PaymentMethod     string                  `json:"payment_method"`
	Subtotal          float64                 `json:"subtotal"`
	ShippingFee       float64                 `json:"shipping_fee"`
	Total             float64                 `json:"total"`
	Shipping          ShippingAddressResponse `json:"shipping"`
	RazorpayOrderID   *string                 `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID *string                 `json:"razorpay_payment_id,omitempty"`
	Items             []OrderItemResponse     `json:"items"`
	CreatedAt         string                  `json:"created_at"`
	UpdatedAt         string                  `json:"updated_at"`
}

type ListOrdersResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
}

type OrderStatsResponse struct {
	TotalOrders     int64   `json:"total_orders"`
	CreatedOrders   int64   `json:"created_orders"`
	ShippedOrders   int64   `json:"shipped_orders"`
	DeliveredOrders int64   `json:"delivered_orders"`
	PendingOrders   int64   `json:"pending_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
}

type CreatePaymentOrderResponse struct {
	KeyID           string         `json:"key_id"`
	RazorpayOrderID string         `json:"razorpay_order_id"`
	Amount          int64          `json:"amount"`
	Currency        string         `json:"currency"`
	Receipt         string         `json:"receipt"`
	Totals          TotalsResponse `json:"totals"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

func NewOrderResponse(o *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for i := range o.Items {
		it := &o.Items[i]
		r := OrderItemResponse{
			ProductID:   it.ProductID.String(),
			VariantName: it.VariantName,
			Quantity:    it.Quantity,
			Price:       it.Price,
			LineTotal:   it.LineTotal(),
		}
		if it.VariantID != nil {
			s := it.VariantID.String()
			r.VariantID = &s
		}
		items = append(items, r)
	}
	return OrderResponse{
		ID:             o.ID.String(),
		UserID:         o.UserID.String(),
		Status:         string(o.Status),
		PaymentStatus:  o.PaymentStatus,
		DeliveryOption: o.DeliveryOption,
		PaymentMethod:  o.PaymentMethod,
		Subtotal:       o.Subtotal,
		ShippingFee:    o.ShippingFee,
		Total:          o.Total,
		Shipping: ShippingAddressResponse{
			Name:        o.Shipping.Name,
			Phone:       o.Shipping.Phone,
			Street:      o.Shipping.Street,
			City:        o.Shipping.City,
			State:       o.Shipping.State,
			Pincode:     o.Shipping.Pincode,
			Landmark:    o.Shipping.Landmark,
			AddressType: o.Shipping.AddressType,
		},
		RazorpayOrderID:   o.RazorpayOrderID,
		RazorpayPaymentID: o.RazorpayPaymentID,
		Items:             items,
		CreatedAt:         o.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         o.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func NewListOrdersResponse(orders []models.Order, total int64) ListOrdersResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderResponse(&orders[i]))
	}
	return ListOrdersResponse{Orders: out, Total: total}
}

func NewOrderStatsResponse(s repository.OrderStats) OrderStatsResponse {
	return OrderStatsResponse{
		TotalOrders:     s.TotalOrders,
		CreatedOrders:   s.CreatedOrders,
		ShippedOrders:   s.ShippedOrders,
		DeliveredOrders: s.DeliveredOrders,
		PendingOrders:   s.PendingOrders,
		TotalRevenue:    s.TotalRevenue,
	}
}

func NewCreatePaymentOrderResponse(p *service.PaymentOrder) CreatePaymentOrderResponse {
	return CreatePaymentOrderResponse{
		KeyID:           p.KeyID,
		RazorpayOrderID: p.RazorpayOrderID,
		Amount:          p.AmountPaise,
		Currency:        p.Currency,
		Receipt:         p.Receipt,
		Totals:          NewTotalsResponse(p.Totals),
	}
}
