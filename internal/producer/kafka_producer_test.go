package producer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/nithishdpnpjnthech-cmyk/avira-udupu/internal/service"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func header(m kafka.Message, key string) string {
	for _, h := range m.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func TestPublishOrderCreated_SendsEventAndEmail(t *testing.T) {
	events, mail := &fakeWriter{}, &fakeWriter{}
	p := &OrderEventProducer{events: events, email: &EmailProducer{writer: mail}, log: zap.NewNop()}

	ev := service.OrderCreatedEvent{
		OrderID: uuid.New(), UserID: uuid.New(), UserEmail: "asha@example.com", UserName: "Asha",
		DeliveryOption: "standard", Total: 550,
		Items: []service.OrderItemEvent{{ProductID: uuid.New(), Quantity: 2, Price: 250}},
	}
	require.NoError(t, p.PublishOrderCreated(context.Background(), ev))

	require.Len(t, events.msgs, 1)
	msg := events.msgs[0]
	assert.Equal(t, ev.OrderID.String(), string(msg.Key))
	assert.Equal(t, EventOrderCreated, header(msg, "event_type"))
	var decoded service.OrderCreatedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, ev.OrderID, decoded.OrderID)
	assert.Equal(t, 550.0, decoded.Total)

	require.Len(t, mail.msgs, 1)
	var email EmailMessage
	require.NoError(t, json.Unmarshal(mail.msgs[0].Value, &email))
	assert.Equal(t, "asha@example.com", email.To)
	assert.Equal(t, "order_confirmation", email.Template)
}

func TestPublishOrderCreated_EmailFailureIsNotFatal(t *testing.T) {
	events := &fakeWriter{}
	p := &OrderEventProducer{events: events, email: &EmailProducer{writer: &fakeWriter{err: errors.New("broker down")}}, log: zap.NewNop()}

	err := p.PublishOrderCreated(context.Background(), service.OrderCreatedEvent{OrderID: uuid.New(), UserEmail: "x@example.com"})
	require.NoError(t, err)
	assert.Len(t, events.msgs, 1)
}

func TestPublishOrderCreated_NoEmailWithoutAddress(t *testing.T) {
	events, mail := &fakeWriter{}, &fakeWriter{}
	p := &OrderEventProducer{events: events, email: &EmailProducer{writer: mail}, log: zap.NewNop()}

	require.NoError(t, p.PublishOrderCreated(context.Background(), service.OrderCreatedEvent{OrderID: uuid.New()}))
	assert.Empty(t, mail.msgs)
}

func TestPublishOrderStatusChanged(t *testing.T) {
	boom := errors.New("broker down")
	events := &fakeWriter{}
	p := &OrderEventProducer{events: events, log: zap.NewNop()}

	ev := service.OrderStatusChangedEvent{OrderID: uuid.New(), Status: "shipped"}
	require.NoError(t, p.PublishOrderStatusChanged(context.Background(), ev))
	require.Len(t, events.msgs, 1)
	assert.Equal(t, EventOrderStatusChanged, header(events.msgs[0], "event_type"))

	events.err = boom
	assert.ErrorIs(t, p.PublishOrderStatusChanged(context.Background(), ev), boom)

	require.NoError(t, p.Close())
	assert.True(t, events.closed)
}
