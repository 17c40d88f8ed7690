package producer

import (
	"context"
)

type EmailProducer struct {
	writer messageWriter
}

func NewEmailProducer(brokers []string, topic string) *EmailProducer {
	return &EmailProducer{writer: newWriter(brokers, topic)}
}

type EmailMessage struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}

func (p *EmailProducer) SendEmail(ctx context.Context, key string, msg EmailMessage) error {
	return writeJSON(ctx, p.writer, key, "email", msg)
}

func (p *EmailProducer) Close() error {
	return p.writer.Close()
}
