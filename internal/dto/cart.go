package dto

import (
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/models"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/service"
)

type AddToCartRequest struct {
	ProductID    string   `json:"product_id" binding:"required,uuid"`
	VariantID    *string  `json:"variant_id" binding:"omitempty,uuid"`
	Quantity     int      `json:"quantity" binding:"required,min=1"`
	Price        *float64 `json:"price" binding:"omitempty,gte=0"`
	VariantName  string   `json:"variant_name"`
	VariantImage string   `json:"variant_image"`
	VariantColor string   `json:"variant_color"`
	WeightValue  *float64 `json:"weight_value" binding:"omitempty,gte=0"`
	WeightUnit   string   `json:"weight_unit"`
}

type UpdateCartRequest struct {
	ProductID    string  `json:"product_id" binding:"required,uuid"`
	VariantID    *string `json:"variant_id" binding:"omitempty,uuid"`
	VariantName  string  `json:"variant_name"`
	VariantColor string  `json:"variant_color"`
	Quantity     int     `json:"quantity" binding:"required,min=1"`
}

// RemoveCartQuery: параметры DELETE /cart
type RemoveCartQuery struct {
	ProductID    string `form:"product_id" binding:"required,uuid"`
	VariantID    string `form:"variant_id" binding:"omitempty,uuid"`
	VariantName  string `form:"variant_name"`
	VariantColor string `form:"variant_color"`
}

type CartItemResponse struct {
	ID           string   `json:"id"`
	ProductID    string   `json:"product_id"`
	ProductName  string   `json:"product_name"`
	VariantID    *string  `json:"variant_id,omitempty"`
	VariantName  string   `json:"variant_name,omitempty"`
	VariantImage string   `json:"variant_image,omitempty"`
	VariantColor string   `json:"variant_color,omitempty"`
	WeightValue  *float64 `json:"weight_value,omitempty"`
	WeightUnit   string   `json:"weight_unit,omitempty"`
	Quantity     int      `json:"quantity"`
	PriceAtAdd   float64  `json:"price_at_add"`
	LineTotal    float64  `json:"line_total"`
	MainImage    string   `json:"main_image,omitempty"`
	InStock      bool     `json:"in_stock"`
}

type CartResponse struct {
	Items     []CartItemResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Subtotal  float64            `json:"subtotal"`
}

func NewCartItemResponse(it *models.CartItem) CartItemResponse {
	r := CartItemResponse{
		ID:           it.ID.String(),
		ProductID:    it.ProductID.String(),
		ProductName:  it.Product.Name,
		VariantName:  it.VariantName,
		VariantImage: it.VariantImage,
		VariantColor: it.VariantColor,
		WeightValue:  it.WeightValue,
		WeightUnit:   it.WeightUnit,
		Quantity:     it.Quantity,
		PriceAtAdd:   it.UnitPrice(),
		LineTotal:    it.LineTotal(),
		MainImage:    it.Product.MainImage(),
		InStock:      it.Product.InStock(),
	}
	if it.VariantID != nil {
		s := it.VariantID.String()
		r.VariantID = &s
		if v := it.Product.Variant(*it.VariantID); v != nil {
			r.InStock = v.InStock
			if r.VariantImage == "" {
				r.VariantImage = v.MainImage
			}
		}
	}
	return r
}

func NewCartResponse(c *service.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(c.Items))
	for i := range c.Items {
		items = append(items, NewCartItemResponse(&c.Items[i]))
	}
	return CartResponse{Items: items, ItemCount: c.ItemCount, Subtotal: c.Subtotal}
}
