package service

import (
	"math"
	"strings"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/models"
)

const (
	StandardShippingFee = 50.0
	ExpressShippingFee  = 100.0
)

// ShippingFee: единственное место, где считается стоимость доставки.
func ShippingFee(deliveryOption string) float64 {
	if strings.EqualFold(deliveryOption, string(models.DeliveryExpress)) {
		return ExpressShippingFee
	}
	return StandardShippingFee
}

type Totals struct {
	Subtotal    float64
	ShippingFee float64
	Total       float64
}

// ComputeTotals считает сумму по priceAtAdd строк корзины (nil = 0).
func ComputeTotals(lines []models.CartItem, deliveryOption string) Totals {
	var subtotal float64
	for i := range lines {
		subtotal += lines[i].LineTotal()
	}
	fee := ShippingFee(deliveryOption)
	return Totals{Subtotal: subtotal, ShippingFee: fee, Total: subtotal + fee}
}

// ToPaise переводит сумму в рупиях (INR) в пайсы, 1 ₹ = 100 paise.
func ToPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func normalizeDeliveryOption(s string) (string, error) {
	opt := strings.ToLower(strings.TrimSpace(s))
	if opt == "" {
		return string(models.DeliveryStandard), nil
	}
	switch models.DeliveryOption(opt) {
	case models.DeliveryStandard, models.DeliveryExpress:
		return opt, nil
	}
	return "", ErrInvalidDeliveryOption
}

var paymentMethods = map[string]struct{}{
	"cod": {}, "card": {}, "upi": {}, "wallet": {}, "razorpay": {},
}

func normalizePaymentMethod(s string) (string, error) {
	m := strings.ToLower(strings.TrimSpace(s))
	if _, ok := paymentMethods[m]; !ok {
		return "", ErrInvalidPaymentMethod
	}
	return m, nil
}

// IsPaymentMethod reports whether s names a supported payment method.
func IsPaymentMethod(s string) bool {
	_, err := normalizePaymentMethod(s)
	return err == nil
}

// IsDeliveryOption reports whether s is a known delivery option (empty is not).
func IsDeliveryOption(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	_, err := normalizeDeliveryOption(s)
	return err == nil
}
