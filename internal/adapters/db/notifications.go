package db

import (
	"context"
	"database/sql"
	"time"

	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// NotificationRepository implements outbound.NotificationRepository
type NotificationRepository struct {
	docs *collection[notification.Notification]
}

// NewNotificationRepository creates a new notification outbox repository
func NewNotificationRepository(conn *Connection) *NotificationRepository {
	return &NotificationRepository{docs: newCollection[notification.Notification](conn, "notifications", "notification", shared.ErrNotificationNotFound)}
}

// Append stores every notification or none of them
func (r *NotificationRepository) Append(ctx context.Context, notifications ...*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.docs.conn.ExecuteTransaction(ctx, func(tx *sql.Tx) error {
		for _, n := range notifications {
			if err := r.docs.insert(ctx, tx, n.ID, 1, n); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	return r.docs.get(ctx, id)
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit int) ([]*notification.Notification, error) {
	clause := `WHERE doc->>'user_id' = $1`
	if unreadOnly {
		clause += ` AND NOT COALESCE((doc->>'is_read')::boolean, false)`
	}
	clause += ` ORDER BY seq DESC`
	if limit > 0 {
		return r.docs.find(ctx, clause+` LIMIT $2`, userID.String(), limit)
	}
	return r.docs.find(ctx, clause, userID.String())
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	affected, err := r.docs.exec(ctx, `UPDATE %s SET doc = jsonb_set(doc, '{is_read}', 'true') WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return shared.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) ListUndispatched(ctx context.Context, limit int) ([]*notification.Notification, error) {
	clause := `WHERE doc->>'dispatched_at' IS NULL ORDER BY seq`
	if limit > 0 {
		return r.docs.find(ctx, clause+` LIMIT $1`, limit)
	}
	return r.docs.find(ctx, clause)
}

// MarkDispatched stamps the notifications that were not stamped before
func (r *NotificationRepository) MarkDispatched(ctx context.Context, ids []uuid.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}
	_, err := r.docs.exec(ctx,
		`UPDATE %s SET doc = jsonb_set(doc, '{dispatched_at}', to_jsonb($2::text))
		 WHERE id = ANY($1::uuid[]) AND doc->>'dispatched_at' IS NULL`,
		pq.Array(keys), at.UTC().Format(time.RFC3339Nano))
	return err
}

// BroadcastRepository implements outbound.BroadcastRepository
type BroadcastRepository struct {
	docs *collection[notification.Broadcast]
}

// NewBroadcastRepository creates a new broadcast repository
func NewBroadcastRepository(conn *Connection) *BroadcastRepository {
	return &BroadcastRepository{docs: newCollection[notification.Broadcast](conn, "broadcasts", "broadcast", shared.ErrNotFound)}
}

func (r *BroadcastRepository) Create(ctx context.Context, b *notification.Broadcast) error {
	return r.docs.insert(ctx, r.docs.conn.GetDB(), b.ID, 1, b)
}

// List returns every recorded broadcast in insertion order
func (r *BroadcastRepository) List(ctx context.Context) ([]*notification.Broadcast, error) {
	return r.docs.find(ctx, `ORDER BY seq`)
}
