package service

import (
	"context"
	"time"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/payment"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/repository"
)

// Store: набор репозиториев и транзакция поверх них. *repository.Repository удовлетворяет интерфейсу.
type Store interface {
	Repos() *repository.Repository
	WithTx(ctx context.Context, fn func(tx *repository.Repository) error) error
}

type PaymentGateway interface {
	KeyID() string
	CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*payment.RemoteOrder, error)
	VerifySignature(orderID, paymentID, signature string) error
}

// Locker: короткоживущие блокировки для идемпотентности (redis SET NX).
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Metrics: бизнес-метрики; nil отключает запись.
type Metrics interface {
	OrderPlaced(flow string, total float64, items int)
	OrderRejected(flow string, reason string)
	CartUpdated(action string)
	PaymentVerified(ok bool)
}

type noopMetrics struct{}

func (noopMetrics) OrderPlaced(string, float64, int) {}
func (noopMetrics) OrderRejected(string, string)     {}
func (noopMetrics) CartUpdated(string)               {}
func (noopMetrics) PaymentVerified(bool)             {}

func metricsOrNoop(m Metrics) Metrics {
	if m == nil {
		return noopMetrics{}
	}
	return m
}
