package broadcaster

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisBroadcaster implements the broadcaster interface using Redis pub/sub.
// Every user has one channel; each live connection holds its own subscription.
type RedisBroadcaster struct {
	client        *redis.Client
	subscribers   map[string]chan outbound.Event // clientID -> local channel
	pubsubs       map[string]*redis.PubSub       // clientID -> pubsub instance
	clientsToUser map[string]uuid.UUID           // clientID -> userID
	mu            sync.RWMutex
	ctx           context.Context
	cancel        context.CancelFunc
	logger        zerolog.Logger
}
type RedisBroadcasterParams struct {
	RedisClient *redis.Client
	Logger      zerolog.Logger
}

var (
	_ outbound.Broadcaster      = (*RedisBroadcaster)(nil)
	_ outbound.NotificationSink = (*RedisBroadcaster)(nil)
)

func NewBroadcaster(params RedisBroadcasterParams) *RedisBroadcaster {
	ctx, cancel := context.WithCancel(context.Background())

	broadcaster := &RedisBroadcaster{
		client:        params.RedisClient,
		subscribers:   make(map[string]chan outbound.Event),
		pubsubs:       make(map[string]*redis.PubSub),
		clientsToUser: make(map[string]uuid.UUID),
		ctx:           ctx,
		cancel:        cancel,
		logger:        params.Logger.With().Str("component", "redis_broadcaster").Logger(),
	}

	return broadcaster
}

func channelName(userID uuid.UUID) string {
	return fmt.Sprintf("notifications:%s", userID.String())
}

// Subscribe subscribes a client connection to a user's notifications.
// The event channel stays owned by the caller and is never closed here.
func (r *RedisBroadcaster) Subscribe(ctx context.Context, userID uuid.UUID, clientID string, eventChan chan outbound.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, exists := r.clientsToUser[clientID]; exists {
		if current == userID {
			r.logger.Info().
				Str("client_id", clientID).
				Str("user_id", userID.String()).
				Msg("Client already subscribed to user")
			return nil
		}
		return fmt.Errorf("client %s is already bound to another user", clientID)
	}

	pubsub := r.client.Subscribe(ctx, channelName(userID))
	// wait for the subscription confirmation so no publish is missed afterwards
	if _, err := pubsub.Receive(ctx); err != nil {
		r.logger.Error().Err(err).Str("client_id", clientID).Str("user_id", userID.String()).Msg("Failed to subscribe to Redis channel")
		pubsub.Close()
		return err
	}

	r.subscribers[clientID] = eventChan
	r.pubsubs[clientID] = pubsub
	r.clientsToUser[clientID] = userID

	// Start goroutine to listen for Redis messages and forward to local channel
	go r.listenForRedisMessages(pubsub, clientID, eventChan)

	r.logger.Info().
		Str("client_id", clientID).
		Str("user_id", userID.String()).
		Msg("Client subscribed to user via Redis")
	return nil
}

// Unsubscribe drops a client connection's subscription
func (r *RedisBroadcaster) Unsubscribe(ctx context.Context, userID uuid.UUID, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, exists := r.clientsToUser[clientID]; !exists || current != userID {
		return nil
	}

	delete(r.clientsToUser, clientID)
	delete(r.subscribers, clientID)

	if pubsub, exists := r.pubsubs[clientID]; exists {
		if err := pubsub.Close(); err != nil {
			r.logger.Error().Err(err).Str("client_id", clientID).Msg("Error closing Redis pubsub for client")
		}
		delete(r.pubsubs, clientID)
	}

	r.logger.Info().
		Str("client_id", clientID).
		Str("user_id", userID.String()).
		Msg("Client unsubscribed from user")
	return nil
}

// Publish publishes an event to every connection of a user via Redis
func (r *RedisBroadcaster) Publish(ctx context.Context, userID uuid.UUID, event outbound.Event) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}
	event.UserID = userID

	eventJSON, err := json.Marshal(event)
	if err != nil {
		r.logger.Error().Err(err).Msg("Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	result := r.client.Publish(ctx, channelName(userID), eventJSON)
	if err := result.Err(); err != nil {
		r.logger.Error().Err(err).Msg("Failed to publish to Redis")
		return fmt.Errorf("failed to publish to Redis: %w", err)
	}

	r.logger.Debug().
		Str("event_type", string(event.Type)).
		Str("user_id", userID.String()).
		Int64("subscriber_count", result.Val()).
		Msg("Published event to user")

	return nil
}

// Enqueue delivers an outbox notification to the addressee's live connections.
// Users with no open connection simply miss the push and read their inbox later.
func (r *RedisBroadcaster) Enqueue(ctx context.Context, n *notification.Notification) error {
	return r.Publish(ctx, n.UserID, outbound.Event{
		Type:      outbound.EventTypeNotification,
		UserID:    n.UserID,
		Data:      n,
		Timestamp: n.CreatedAt.Unix(),
	})
}

// listenForRedisMessages listens for Redis messages and forwards them to the local channel
func (r *RedisBroadcaster) listenForRedisMessages(pubsub *redis.PubSub, clientID string, localChan chan outbound.Event) {
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error().Interface("panic", err).Str("client_id", clientID).Msg("Redis message listener panic for client")
		}
	}()

	ch := pubsub.Channel()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				r.logger.Debug().Str("client_id", clientID).Msg("Redis channel closed for client")
				return
			}

			var event outbound.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				r.logger.Error().Err(err).Str("client_id", clientID).Msg("Failed to unmarshal Redis message for client")
				continue
			}

			select {
			case localChan <- event:
			default:
				r.logger.Warn().Str("client_id", clientID).Msg("Local channel full for client, dropping event")
			}

		case <-r.ctx.Done():
			return
		}
	}
}

// Close drops every subscription. The Redis client is owned by the caller.
func (r *RedisBroadcaster) Close() error {
	r.cancel()

	r.mu.Lock()
	defer r.mu.Unlock()

	for clientID, pubsub := range r.pubsubs {
		if err := pubsub.Close(); err != nil {
			r.logger.Error().Err(err).Str("client_id", clientID).Msg("Error closing Redis pubsub for client")
		}
		delete(r.pubsubs, clientID)
		delete(r.subscribers, clientID)
		delete(r.clientsToUser, clientID)
	}

	return nil
}

func (r *RedisBroadcaster) IsSubscribed(ctx context.Context, userID uuid.UUID, clientID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	current, exists := r.clientsToUser[clientID]
	return exists && current == userID
}
