package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/service"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// messageWriter: то, что нужно от *kafka.Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
	}
}

func writeJSON(ctx context.Context, w messageWriter, key string, eventType string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.WriteMessages(ctx, kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(eventType)}},
	})
}

// OrderEventProducer публикует события заказов и ставит письма-подтверждения в очередь.
type OrderEventProducer struct {
	events messageWriter
	email  *EmailProducer
	log    *zap.Logger
}

var _ service.EventBus = (*OrderEventProducer)(nil)

func NewOrderEventProducer(brokers []string, topic string, email *EmailProducer, log *zap.Logger) *OrderEventProducer {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderEventProducer{events: newWriter(brokers, topic), email: email, log: log}
}

func (p *OrderEventProducer) PublishOrderCreated(ctx context.Context, e service.OrderCreatedEvent) error {
	if err := writeJSON(ctx, p.events, e.OrderID.String(), EventOrderCreated, e); err != nil {
		return fmt.Errorf("publish %s: %w", EventOrderCreated, err)
	}
	if p.email == nil || e.UserEmail == "" {
		return nil
	}
	err := p.email.SendEmail(ctx, e.OrderID.String(), EmailMessage{
		To:       e.UserEmail,
		Subject:  "Order confirmation",
		Template: "order_confirmation",
		Data: map[string]any{
			"name":            e.UserName,
			"order_id":        e.OrderID.String(),
			"total":           e.Total,
			"items":           len(e.Items),
			"delivery_option": e.DeliveryOption,
		},
	})
	if err != nil {
		// событие уже ушло; письмо не критично
		p.log.Warn("enqueue order confirmation email failed", zap.String("order_id", e.OrderID.String()), zap.Error(err))
	}
	return nil
}

func (p *OrderEventProducer) PublishOrderStatusChanged(ctx context.Context, e service.OrderStatusChangedEvent) error {
	if err := writeJSON(ctx, p.events, e.OrderID.String(), EventOrderStatusChanged, e); err != nil {
		return fmt.Errorf("publish %s: %w", EventOrderStatusChanged, err)
	}
	return nil
}

func (p *OrderEventProducer) Close() error {
	return p.events.Close()
}
