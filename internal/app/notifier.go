package app

import (
	"context"

	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// notifier appends records to the notification outbox. Appends are
// best-effort: a failure is logged and never undoes the mutation that caused it.
type notifier struct {
	repo   outbound.NotificationRepository
	clock  outbound.Clock
	logger zerolog.Logger
}

func (n notifier) build(userID uuid.UUID, typ notification.Type, title, message string, data map[string]any) *notification.Notification {
	return notification.New(userID, typ, title, message, data, n.clock.Now())
}

// queue appends a batch and reports failure to the caller
func (n notifier) queue(ctx context.Context, batch ...*notification.Notification) error {
	if len(batch) == 0 {
		return nil
	}
	if err := n.repo.Append(ctx, batch...); err != nil {
		return err
	}
	n.logger.Debug().Int("count", len(batch)).Str("type", string(batch[0].Type)).Msg("Notifications queued")
	return nil
}

func (n notifier) send(ctx context.Context, batch ...*notification.Notification) {
	if err := n.queue(ctx, batch...); err != nil {
		n.logger.Error().Err(err).Int("count", len(batch)).Msg("Failed to append notifications to outbox")
	}
}

func (n notifier) notify(ctx context.Context, userID uuid.UUID, typ notification.Type, title, message string, data map[string]any) {
	n.send(ctx, n.build(userID, typ, title, message, data))
}
