package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/payment"
	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/service"
)

// MockEventBus
type MockEventBus struct {
	mu            sync.Mutex
	Created       []service.OrderCreatedEvent
	StatusChanged []service.OrderStatusChangedEvent
	Err           error
}

func (m *MockEventBus) PublishOrderCreated(ctx context.Context, e service.OrderCreatedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Created = append(m.Created, e)
	return m.Err
}

func (m *MockEventBus) PublishOrderStatusChanged(ctx context.Context, e service.OrderStatusChangedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatusChanged = append(m.StatusChanged, e)
	return m.Err
}

// MockMetrics
type MockMetrics struct {
	mu       sync.Mutex
	Placed   map[string]int
	Rejected map[string]int
	Cart     map[string]int
	Verified map[bool]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{Placed: map[string]int{}, Rejected: map[string]int{}, Cart: map[string]int{}, Verified: map[bool]int{}}
}

func (m *MockMetrics) OrderPlaced(flow string, total float64, items int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Placed[flow]++
}

func (m *MockMetrics) OrderRejected(flow, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rejected[flow+":"+reason]++
}

func (m *MockMetrics) CartUpdated(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Cart[action]++
}

func (m *MockMetrics) PaymentVerified(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Verified[ok]++
}

// MockGateway
type MockGateway struct {
	CreateOrderFunc     func(ctx context.Context, amountPaise int64, currency, receipt string) (*payment.RemoteOrder, error)
	VerifySignatureFunc func(orderID, paymentID, signature string) error
}

func (m *MockGateway) KeyID() string { return "rzp_test_key" }

func (m *MockGateway) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (*payment.RemoteOrder, error) {
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, amountPaise, currency, receipt)
	}
	return &payment.RemoteOrder{ID: "order_test", Amount: amountPaise, Currency: currency, Receipt: receipt, Status: "created"}, nil
}

func (m *MockGateway) VerifySignature(orderID, paymentID, signature string) error {
	if m.VerifySignatureFunc != nil {
		return m.VerifySignatureFunc(orderID, paymentID, signature)
	}
	return nil
}

// MockLocker
type MockLocker struct {
	mu         sync.Mutex
	held       map[string]bool
	AcquireErr error
	Released   []string
}

func (m *MockLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AcquireErr != nil {
		return false, m.AcquireErr
	}
	if m.held == nil {
		m.held = map[string]bool{}
	}
	if m.held[key] {
		return false, nil
	}
	m.held[key] = true
	return true, nil
}

func (m *MockLocker) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.held, key)
	m.Released = append(m.Released, key)
	return nil
}
