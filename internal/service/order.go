package service

import (
	"context"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/models"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/repository"

	"github.com/google/uuid"
)

// PaymentRef: данные подтверждённого онлайн-платежа. Пустой RazorpayPaymentID означает «без платежа».
type PaymentRef struct {
	RazorpayOrderID   string
	RazorpayPaymentID string
}

type ListFilter struct {
	UserID *uuid.UUID
	Status *models.OrderStatus
	Limit  int
	Offset int
}

type OrderService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID) (*models.Order, error)
	PlaceOrderForOnlinePayment(ctx context.Context, userID uuid.UUID, ref PaymentRef) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, error)
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, paymentStatus string) (*models.Order, error)

	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	GetOrderForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	ListUserOrders(ctx context.Context, userID uuid.UUID, status *models.OrderStatus) ([]models.Order, error)
	ListOrders(ctx context.Context, f ListFilter) ([]models.Order, int64, error)
	Statistics(ctx context.Context) (repository.OrderStats, error)
}
