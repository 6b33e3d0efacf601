package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestSink_EnqueueKeysByRecipient(t *testing.T) {
	w := &recordingWriter{}
	sink := newSink(w, DefaultTopic, zerolog.Nop())

	userID := uuid.New()
	n := notification.New(userID, notification.TypeFlashDeal, "2x1 empanadas", "Near you", map[string]any{"deal_id": "d1"}, time.Now())
	require.NoError(t, sink.Enqueue(context.Background(), n))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, userID.String(), string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "flash_deal", string(msg.Headers[0].Value))

	var ev outbound.Event
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.Equal(t, outbound.EventTypeNotification, ev.Type)
	require.NotNil(t, ev.Data)
	assert.Equal(t, n.ID, ev.Data.ID)
	assert.Equal(t, "d1", ev.Data.Data["deal_id"])
}

func TestSink_WriteFailure(t *testing.T) {
	w := &recordingWriter{err: errors.New("broker unavailable")}
	sink := newSink(w, DefaultTopic, zerolog.Nop())

	err := sink.Enqueue(context.Background(), notification.New(uuid.New(), notification.TypeSystem, "t", "m", nil, time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")

	require.NoError(t, sink.Close())
	assert.True(t, w.closed)
}
