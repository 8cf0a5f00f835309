// Package kafka publishes audit events for order lifecycle and pickup
// redemption. Events are advisory: publishing failures are logged, never
// propagated, so the audit trail can never block a state change that has
// already committed.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Event is the audit record written to the topic. Subject identifies the
// entity the event is about and doubles as the partition key so events for
// one order stay ordered.
type Event struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Subject string         `json:"subject"`
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload,omitempty"`
}

// Publisher emits audit events.
type Publisher interface {
	Publish(ctx context.Context, eventType, subject string, payload map[string]any) error
	Close() error
}

// WriterPublisher publishes events to a Kafka topic.
type WriterPublisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriterPublisher builds a publisher for the given brokers and topic.
func NewWriterPublisher(brokers []string, topic string, logger *slog.Logger) *WriterPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &WriterPublisher{
		writer: &kafkago.Writer{
			Addr:                   kafkago.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafkago.Hash{},
			AllowAutoTopicCreation: true,
		},
		logger: logger,
	}
}

func (p *WriterPublisher) Publish(ctx context.Context, eventType, subject string, payload map[string]any) error {
	event := Event{
		ID:      uuid.NewString(),
		Type:    eventType,
		Subject: subject,
		At:      time.Now().UTC(),
		Payload: payload,
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(subject),
		Value: body,
	})
	if err != nil {
		p.logger.Error("audit publish failed", "type", eventType, "subject", subject, "error", err)
		return err
	}
	return nil
}

func (p *WriterPublisher) Close() error { return p.writer.Close() }

// NopPublisher discards events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, map[string]any) error { return nil }

func (NopPublisher) Close() error { return nil }
