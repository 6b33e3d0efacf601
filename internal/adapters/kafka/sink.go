package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/ports/outbound"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// DefaultTopic carries every dispatched notification
const DefaultTopic = "marketplace.notifications"

// messageWriter is the slice of *kafka.Writer the sink needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Sink publishes outbox notifications to a Kafka topic keyed by recipient,
// so one user's notifications stay ordered within a partition.
type Sink struct {
	writer messageWriter
	topic  string
	logger zerolog.Logger
}

type SinkParams struct {
	Brokers []string
	Topic   string
	Logger  zerolog.Logger
}

var _ outbound.NotificationSink = (*Sink)(nil)

// NewSink creates a sink backed by a kafka-go writer
func NewSink(params SinkParams) *Sink {
	topic := params.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(params.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	return newSink(writer, topic, params.Logger)
}

func newSink(writer messageWriter, topic string, logger zerolog.Logger) *Sink {
	return &Sink{
		writer: writer,
		topic:  topic,
		logger: logger.With().Str("component", "kafka_sink").Str("topic", topic).Logger(),
	}
}

// Enqueue writes one notification message
func (s *Sink) Enqueue(ctx context.Context, n *notification.Notification) error {
	payload, err := json.Marshal(outbound.Event{
		Type:      outbound.EventTypeNotification,
		UserID:    n.UserID,
		Data:      n,
		Timestamp: n.CreatedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(n.UserID.String()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "notification_type", Value: []byte(n.Type)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		s.logger.Error().Err(err).Str("notification_id", n.ID.String()).Msg("Failed to publish notification")
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	s.logger.Debug().
		Str("notification_id", n.ID.String()).
		Str("user_id", n.UserID.String()).
		Str("type", string(n.Type)).
		Msg("Notification published")
	return nil
}

// Close flushes pending writes
func (s *Sink) Close() error {
	return s.writer.Close()
}
