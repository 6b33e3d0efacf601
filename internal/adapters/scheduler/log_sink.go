package scheduler

import (
	"context"

	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/ports/outbound"

	"github.com/rs/zerolog"
)

// LogSink writes dispatched notifications to the log. Used when no push
// transport is configured.
type LogSink struct {
	logger zerolog.Logger
}

var _ outbound.NotificationSink = (*LogSink)(nil)

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger.With().Str("component", "log_sink").Logger()}
}

func (s *LogSink) Enqueue(ctx context.Context, n *notification.Notification) error {
	s.logger.Info().
		Str("notification_id", n.ID.String()).
		Str("user_id", n.UserID.String()).
		Str("type", string(n.Type)).
		Str("title", n.Title).
		Msg("Notification dispatched")
	return nil
}
