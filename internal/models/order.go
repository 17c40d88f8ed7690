package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusCreated        OrderStatus = "created"
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// ShippingSnapshot: копия адреса на момент заказа; последующие правки адреса заказ не меняют.
type ShippingSnapshot struct {
	Name        string `gorm:"type:text"`
	Phone       string `gorm:"type:text"`
	Street      string `gorm:"type:text"`
	City        string `gorm:"type:text"`
	State       string `gorm:"type:text"`
	Pincode     string `gorm:"type:text"`
	Landmark    string `gorm:"type:text"`
	AddressType string `gorm:"type:text"`
}

func SnapshotOf(a *Address) ShippingSnapshot {
	return ShippingSnapshot{
		Name:        a.Name,
		Phone:       a.Phone,
		Street:      a.Street,
		City:        a.City,
		State:       a.State,
		Pincode:     a.Pincode,
		Landmark:    a.Landmark,
		AddressType: a.AddressType,
	}
}

type Order struct {
	ID             uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID        `gorm:"type:uuid;not null;index"`
	DeliveryOption string           `gorm:"type:text;not null"`
	PaymentMethod  string           `gorm:"type:text;not null"`
	Shipping       ShippingSnapshot `gorm:"embedded;embeddedPrefix:ship_"`

	Subtotal    float64 `gorm:"type:numeric(12,2);not null;default:0"`
	ShippingFee float64 `gorm:"type:numeric(12,2);not null;default:0"`
	Total       float64 `gorm:"type:numeric(12,2);not null;default:0"`

	Status            OrderStatus `gorm:"type:text;not null;default:'created';index"`
	PaymentStatus     *string     `gorm:"type:text"`
	RazorpayOrderID   *string     `gorm:"type:text"`
	RazorpayPaymentID *string     `gorm:"type:text"` // уникален, см. миграцию

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	VariantID   *uuid.UUID `gorm:"type:uuid"`
	VariantName string     `gorm:"type:text"`
	Quantity    int        `gorm:"type:int;not null"`
	// цена за единицу на момент заказа
	Price float64 `gorm:"type:numeric(12,2);not null;default:0"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
}

func (OrderItem) TableName() string { return "order_items" }

func (i *OrderItem) LineTotal() float64 { return i.Price * float64(i.Quantity) }
