package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidQuantity     = errors.New("quantity must be > 0")
	ErrVariantNotFound     = errors.New("variant not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrNoCheckoutSelection = errors.New("no checkout selection found")
	ErrAddressNotFound     = errors.New("selected address not found")
	ErrMissingTotals       = errors.New("order totals not found in checkout selection")

	ErrUserNotFound          = errors.New("user not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrOutOfStock            = errors.New("product is out of stock")
	ErrCartItemNotFound      = errors.New("cart item not found")
	ErrOrderNotFound         = errors.New("order not found")
	ErrInvalidStatus         = errors.New("status must not be empty")
	ErrInvalidDeliveryOption = errors.New("delivery option must be standard or express")
	ErrInvalidPaymentMethod  = errors.New("unsupported payment method")

	ErrInvalidSignature  = errors.New("payment signature verification failed")
	ErrPaymentInProgress = errors.New("payment is already being processed")
	ErrGatewayDisabled   = errors.New("payment gateway is not configured")
)

// StockError reports which line ran out of stock. errors.Is(err, ErrInsufficientStock) holds.
type StockError struct {
	ProductName string
	VariantName string
	Available   int
	Requested   int
}

func (e *StockError) Error() string {
	if e.VariantName != "" {
		return fmt.Sprintf("insufficient stock for variant %s of %s: available %d, requested %d",
			e.VariantName, e.ProductName, e.Available, e.Requested)
	}
	return fmt.Sprintf("insufficient stock for product %s: available %d, requested %d",
		e.ProductName, e.Available, e.Requested)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }
