package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/models"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/payment"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const paymentLockTTL = 30 * time.Second

type PaymentOrder struct {
	KeyID           string
	RazorpayOrderID string
	AmountPaise     int64
	Currency        string
	Receipt         string
	Totals          Totals
}

type VerifyPaymentInput struct {
	RazorpayOrderID   string
	RazorpayPaymentID string
	Signature         string
}

type PaymentService interface {
	CreatePaymentOrder(ctx context.Context, userID uuid.UUID) (*PaymentOrder, error)
	// VerifyAndPlace повторно для того же платежа возвращает уже созданный заказ.
	VerifyAndPlace(ctx context.Context, userID uuid.UUID, in VerifyPaymentInput) (*models.Order, error)
}

type paymentService struct {
	store   Store
	gateway PaymentGateway
	orders  OrderService
	locker  Locker
	metrics Metrics
	log     *zap.Logger
	now     func() time.Time
}

func NewPaymentService(store Store, gateway PaymentGateway, orders OrderService, locker Locker, metrics Metrics, log *zap.Logger) PaymentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &paymentService{
		store:   store,
		gateway: gateway,
		orders:  orders,
		locker:  locker,
		metrics: metricsOrNoop(metrics),
		log:     log,
		now:     time.Now,
	}
}

func (s *paymentService) CreatePaymentOrder(ctx context.Context, userID uuid.UUID) (*PaymentOrder, error) {
	if s.gateway == nil {
		return nil, ErrGatewayDisabled
	}

	var totals Totals
	err := s.store.WithTx(ctx, func(tx *repository.Repository) error {
		if _, _, err := loadCheckout(ctx, tx, userID); err != nil {
			return err
		}
		var err error
		totals, err = quoteTotals(ctx, tx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	receipt := fmt.Sprintf("receipt_%d_%s", s.now().UnixMilli(), userID)
	amount := ToPaise(totals.Total)
	remote, err := s.gateway.CreateOrder(ctx, amount, payment.CurrencyINR, receipt)
	if err != nil {
		return nil, err
	}

	s.log.Info("payment order created",
		zap.String("user_id", userID.String()),
		zap.String("razorpay_order_id", remote.ID),
		zap.Int64("amount_paise", remote.Amount))

	return &PaymentOrder{
		KeyID:           s.gateway.KeyID(),
		RazorpayOrderID: remote.ID,
		AmountPaise:     remote.Amount,
		Currency:        remote.Currency,
		Receipt:         remote.Receipt,
		Totals:          totals,
	}, nil
}

func (s *paymentService) VerifyAndPlace(ctx context.Context, userID uuid.UUID, in VerifyPaymentInput) (*models.Order, error) {
	if s.gateway == nil {
		return nil, ErrGatewayDisabled
	}
	if err := s.gateway.VerifySignature(in.RazorpayOrderID, in.RazorpayPaymentID, in.Signature); err != nil {
		s.metrics.PaymentVerified(false)
		s.log.Warn("payment signature rejected",
			zap.String("user_id", userID.String()),
			zap.String("razorpay_order_id", in.RazorpayOrderID),
			zap.Error(err))
		if errors.Is(err, payment.ErrSignatureMismatch) {
			return nil, ErrInvalidSignature
		}
		return nil, err
	}
	s.metrics.PaymentVerified(true)

	if s.locker != nil {
		key := "payment:" + in.RazorpayPaymentID
		acquired, err := s.locker.Acquire(ctx, key, paymentLockTTL)
		if err != nil {
			return nil, err
		}
		if !acquired {
			return nil, ErrPaymentInProgress
		}
		defer func() {
			if err := s.locker.Release(context.WithoutCancel(ctx), key); err != nil {
				s.log.Warn("release payment lock failed", zap.String("key", key), zap.Error(err))
			}
		}()
	}

	return s.orders.PlaceOrderForOnlinePayment(ctx, userID, PaymentRef{
		RazorpayOrderID:   in.RazorpayOrderID,
		RazorpayPaymentID: in.RazorpayPaymentID,
	})
}
