package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/domain/shared"

	"github.com/google/uuid"
)

// NotificationRepository implements outbound.NotificationRepository
type NotificationRepository struct {
	t *table[notification.Notification]
}

func (r *NotificationRepository) Append(ctx context.Context, notifications ...*notification.Notification) error {
	for _, n := range notifications {
		if !r.t.insert(n.ID, n) {
			return fmt.Errorf("%w: notification %s already exists", shared.ErrConflict, n.ID)
		}
	}
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	n, ok := r.t.get(id)
	if !ok {
		return nil, shared.ErrNotificationNotFound
	}
	return n, nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*notification.Notification, error) {
	out := r.t.filter(func(n *notification.Notification) bool {
		return n.UserID == userID && (!unreadOnly || !n.IsRead)
	})
	slices.Reverse(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	if !r.t.mutate(id, func(n *notification.Notification) { n.IsRead = true }) {
		return shared.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) ListUndispatched(ctx context.Context, limit int) ([]*notification.Notification, error) {
	out := r.t.filter(func(n *notification.Notification) bool { return n.DispatchedAt == nil })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *NotificationRepository) MarkDispatched(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	for _, id := range ids {
		r.t.mutate(id, func(n *notification.Notification) {
			if n.DispatchedAt == nil {
				stamp := at
				n.DispatchedAt = &stamp
			}
		})
	}
	return nil
}

// BroadcastRepository implements outbound.BroadcastRepository
type BroadcastRepository struct {
	t *table[notification.Broadcast]
}

func (r *BroadcastRepository) Create(ctx context.Context, b *notification.Broadcast) error {
	if !r.t.insert(b.ID, b) {
		return fmt.Errorf("%w: broadcast %s already exists", shared.ErrConflict, b.ID)
	}
	return nil
}

// List returns every recorded broadcast in insertion order
func (r *BroadcastRepository) List(ctx context.Context) ([]*notification.Broadcast, error) {
	return r.t.filter(nil), nil
}
