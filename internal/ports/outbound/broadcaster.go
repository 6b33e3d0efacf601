package outbound

import (
	"context"

	"marketplace-engine/internal/domain/notification"

	"github.com/google/uuid"
)

// EventType represents the type of event pushed to live connections
type EventType string

const (
	EventTypeNotification EventType = "notification.created"
	EventTypeError        EventType = "error"
)

// Event is the live-feed envelope for a dispatched notification
type Event struct {
	Type      EventType                  `json:"type"`
	UserID    uuid.UUID                  `json:"user_id"`
	Data      *notification.Notification `json:"data"`
	Timestamp int64                      `json:"timestamp"`
}

// NotificationSink receives outbox notifications. Delivery is fire-and-forget
// from the engine's point of view; a returned error only delays the record.
type NotificationSink interface {
	Enqueue(ctx context.Context, n *notification.Notification) error
}

// Broadcaster fans dispatched notifications out to live connections of a user
type Broadcaster interface {
	// Subscribe registers a client connection for a user's events.
	// All events for the client are delivered to eventChan.
	Subscribe(ctx context.Context, userID uuid.UUID, clientID string, eventChan chan Event) error

	// Unsubscribe removes a client connection
	Unsubscribe(ctx context.Context, userID uuid.UUID, clientID string) error

	// Publish publishes an event to every connection of a user
	Publish(ctx context.Context, userID uuid.UUID, event Event) error

	// IsSubscribed checks if a client connection is registered for a user
	IsSubscribed(ctx context.Context, userID uuid.UUID, clientID string) bool
}
