package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email       string    `gorm:"type:text;not null;uniqueIndex"`
	Name        string    `gorm:"type:text"`
	TotalOrders int       `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (User) TableName() string { return "users" }

type Address struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:text;not null"`
	Phone       string    `gorm:"type:text;not null"`
	Street      string    `gorm:"type:text;not null"`
	City        string    `gorm:"type:text;not null"`
	State       string    `gorm:"type:text;not null"`
	Pincode     string    `gorm:"type:text;not null"`
	Landmark    string    `gorm:"type:text"`
	AddressType string    `gorm:"type:text"` // home / work / other
	IsDefault   bool      `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (Address) TableName() string { return "addresses" }

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"type:text;not null"`
	Description string    `gorm:"type:text"`
	Category    string    `gorm:"type:text;index"`
	IsActive    bool      `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now();index"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	// порядок важен: первый вариант задаёт «основную» цену/остаток товара
	Variants []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (Product) TableName() string { return "products" }

// PrimaryVariant returns the first variant, or nil when the product has none.
func (p *Product) PrimaryVariant() *ProductVariant {
	if len(p.Variants) == 0 {
		return nil
	}
	return &p.Variants[0]
}

func (p *Product) Variant(id uuid.UUID) *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

func (p *Product) Price() *float64 {
	if v := p.PrimaryVariant(); v != nil {
		return v.Price
	}
	return nil
}

func (p *Product) OriginalPrice() *float64 {
	if v := p.PrimaryVariant(); v != nil {
		return v.OriginalPrice
	}
	return nil
}

func (p *Product) StockQuantity() int {
	if v := p.PrimaryVariant(); v != nil {
		return v.StockQuantity
	}
	return 0
}

func (p *Product) InStock() bool {
	if v := p.PrimaryVariant(); v != nil {
		return v.InStock
	}
	return false
}

func (p *Product) MainImage() string {
	if v := p.PrimaryVariant(); v != nil {
		return v.MainImage
	}
	return ""
}

type ProductVariant struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Position      int       `gorm:"not null;default:0"`
	Price         *float64  `gorm:"type:numeric(12,2)"`
	OriginalPrice *float64  `gorm:"type:numeric(12,2)"`
	StockQuantity int       `gorm:"not null;default:0"` // CHECK >= 0 в миграции
	InStock       bool      `gorm:"not null;default:false"`
	Color         string    `gorm:"type:varchar(50)"`
	WeightValue   *float64  `gorm:"type:numeric(10,3)"`
	WeightUnit    string    `gorm:"type:varchar(50)"`
	MainImage     string    `gorm:"type:varchar(500)"`
	SubImage1     string    `gorm:"type:varchar(500)"`
	SubImage2     string    `gorm:"type:varchar(500)"`
	SubImage3     string    `gorm:"type:varchar(500)"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (ProductVariant) TableName() string { return "product_variants" }

// Name is the display label of a variant: its color, else its weight.
func (v *ProductVariant) Name() string {
	if c := strings.TrimSpace(v.Color); c != "" {
		return c
	}
	if v.WeightValue != nil {
		return strings.TrimSpace(strconv.FormatFloat(*v.WeightValue, 'f', -1, 64) + " " + v.WeightUnit)
	}
	return ""
}

type CartItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Product   Product    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	VariantID *uuid.UUID `gorm:"type:uuid"`
	Quantity  int        `gorm:"not null"`
	// цена на момент добавления в корзину
	PriceAtAdd *float64 `gorm:"type:numeric(12,2)"`

	VariantName  string   `gorm:"type:text"`
	VariantImage string   `gorm:"type:text"`
	VariantColor string   `gorm:"type:text"`
	WeightValue  *float64 `gorm:"type:numeric(10,3)"`
	WeightUnit   string   `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (CartItem) TableName() string { return "cart_items" }

func (c *CartItem) UnitPrice() float64 {
	if c.PriceAtAdd == nil {
		return 0
	}
	return *c.PriceAtAdd
}

func (c *CartItem) LineTotal() float64 { return c.UnitPrice() * float64(c.Quantity) }

// CartIdentity selects the cart line a product/variant combination maps to.
// Precedence: VariantID, then VariantName, then VariantColor, then "no variant".
type CartIdentity struct {
	VariantID    *uuid.UUID
	VariantName  string
	VariantColor string
}

type DeliveryOption string

const (
	DeliveryStandard DeliveryOption = "standard"
	DeliveryExpress  DeliveryOption = "express"
)

type CheckoutSelection struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	AddressID      *uuid.UUID `gorm:"type:uuid"`
	DeliveryOption string     `gorm:"type:text;not null;default:'standard'"`
	PaymentMethod  string     `gorm:"type:text;not null"` // cod, card, upi, wallet, razorpay

	// заполняются перед онлайн-оплатой, чтобы сумма заказа совпала с суммой платежа
	Subtotal    *float64 `gorm:"type:numeric(12,2)"`
	ShippingFee *float64 `gorm:"type:numeric(12,2)"`
	Total       *float64 `gorm:"type:numeric(12,2)"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`
}

func (CheckoutSelection) TableName() string { return "checkout_selections" }

func (s *CheckoutSelection) HasTotals() bool {
	return s.Subtotal != nil && s.ShippingFee != nil && s.Total != nil
}
