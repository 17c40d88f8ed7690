package handlers

import (
	"errors"
	"net/http"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/dto"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// errorResponse переводит доменную ошибку в HTTP-статус и BaseError.
func errorResponse(err error) (int, dto.BaseError) {
	var stockErr *service.StockError
	switch {
	case errors.As(err, &stockErr):
		be := dto.NewError("insufficient_stock", "insufficient stock")
		be.Details = stockErr.Error()
		return http.StatusConflict, be
	case errors.Is(err, service.ErrOutOfStock):
		return http.StatusConflict, dto.NewError("out_of_stock", err.Error())
	case errors.Is(err, service.ErrPaymentInProgress):
		return http.StatusConflict, dto.NewError("payment_in_progress", err.Error())

	case errors.Is(err, service.ErrEmptyCart):
		return http.StatusBadRequest, dto.NewError("empty_cart", err.Error())
	case errors.Is(err, service.ErrInvalidQuantity):
		return http.StatusBadRequest, dto.NewError("invalid_quantity", err.Error())
	case errors.Is(err, service.ErrVariantNotFound):
		return http.StatusBadRequest, dto.NewError("variant_not_found", err.Error())
	case errors.Is(err, service.ErrNoCheckoutSelection):
		return http.StatusBadRequest, dto.NewError("no_checkout_selection", err.Error())
	case errors.Is(err, service.ErrMissingTotals):
		return http.StatusBadRequest, dto.NewError("missing_totals", err.Error())
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidDeliveryOption),
		errors.Is(err, service.ErrInvalidPaymentMethod):
		return http.StatusBadRequest, dto.NewValidationError(err.Error(), []dto.FieldError{})
	case errors.Is(err, service.ErrInvalidSignature):
		return http.StatusBadRequest, dto.NewError("payment_verification_failed", err.Error())

	case errors.Is(err, service.ErrAddressNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCartItemNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, dto.NewNotFoundError(err.Error())

	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, dto.NewUnauthorizedError(err.Error())
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, dto.NewForbiddenError(err.Error())
	case errors.Is(err, service.ErrGatewayDisabled):
		return http.StatusServiceUnavailable, dto.NewError("payment_unavailable", err.Error())
	}
	return http.StatusInternalServerError, dto.NewInternalError("")
}

func writeError(c *gin.Context, log *zap.Logger, op string, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		log.Error(op+" failed", zap.Error(err))
	} else {
		log.Warn(op+" rejected", zap.Int("status", status), zap.Error(err))
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, log *zap.Logger, op string, err error) {
	log.Warn("invalid "+op+" request", zap.Error(err))
	c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid request", dto.FieldErrors(err)))
}

// currentUser: пользователь из контекста запроса, положенный AuthRequired.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	uid, _, err := service.RequireUser(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("unauthorized"))
		return uuid.Nil, false
	}
	return uid, true
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationError("invalid "+name, []dto.FieldError{
			{Field: name, Message: "must be a valid uuid", Tag: "uuid"},
		}))
		return uuid.Nil, false
	}
	return id, true
}

func optionalUUID(s *string) *uuid.UUID {
	if s == nil || *s == "" {
		return nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil
	}
	return &id
}
