package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/service"

	"github.com/go-playground/validator/v10"
)

// RegisterValidators добавляет теги delivery_option и payment_method в движок gin binding.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("delivery_option", func(fl validator.FieldLevel) bool {
		return service.IsDeliveryOption(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("payment_method", func(fl validator.FieldLevel) bool {
		return service.IsPaymentMethod(fl.Field().String())
	})
}

// FieldErrors переводит ошибки validator в список полей; прочие ошибки биндинга дают пустой список.
func FieldErrors(err error) []FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{}
	}
	out := make([]FieldError, 0, len(ve))
	for _, fe := range ve {
		out = append(out, FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: fieldMessage(fe),
			Tag:     fe.Tag(),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return "must be a valid uuid"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "delivery_option":
		return "must be standard or express"
	case "payment_method":
		return "must be one of cod, card, upi, wallet, razorpay"
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
