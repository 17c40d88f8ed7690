package service

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type OrderItemEvent struct {
	ProductID   uuid.UUID  `json:"product_id"`
	VariantID   *uuid.UUID `json:"variant_id,omitempty"`
	VariantName string     `json:"variant_name,omitempty"`
	Quantity    int        `json:"quantity"`
	Price       float64    `json:"price"`
	LineTotal   float64    `json:"line_total"`
}

type OrderCreatedEvent struct {
	OrderID        uuid.UUID        `json:"order_id"`
	UserID         uuid.UUID        `json:"user_id"`
	UserEmail      string           `json:"user_email,omitempty"`
	UserName       string           `json:"user_name,omitempty"`
	Items          []OrderItemEvent `json:"items"`
	Subtotal       float64          `json:"subtotal"`
	ShippingFee    float64          `json:"shipping_fee"`
	Total          float64          `json:"total"`
	DeliveryOption string           `json:"delivery_option"`
	PaymentMethod  string           `json:"payment_method"`
	Status         string           `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
}

type OrderStatusChangedEvent struct {
	OrderID   uuid.UUID `json:"order_id"`
	UserID    uuid.UUID `json:"user_id"`
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}

type EventBus interface {
	PublishOrderCreated(ctx context.Context, e OrderCreatedEvent) error
	PublishOrderStatusChanged(ctx context.Context, e OrderStatusChangedEvent) error
}
