package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace-engine/internal/domain/shared"
	"marketplace-engine/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const conflictBackoff = 25 * time.Millisecond

func auctionKey(id uuid.UUID) string     { return "auction:" + id.String() }
func dealKey(id uuid.UUID) string        { return "deal:" + id.String() }
func paymentUserKey(id uuid.UUID) string { return "payment-user:" + id.String() }
func transactionKey(id uuid.UUID) string { return "transaction:" + id.String() }

// serializer runs the mutations of one entity one at a time. Inside the
// lock a mutation may still lose a version race to a writer that bypassed
// the lock (e.g. an expired distributed lease); such attempts are retried.
type serializer struct {
	locker   outbound.Locker
	attempts int
	logger   zerolog.Logger
}

func newSerializer(locker outbound.Locker, attempts int, logger zerolog.Logger) serializer {
	if attempts < 1 {
		attempts = 1
	}
	return serializer{locker: locker, attempts: attempts, logger: logger}
}

func (s serializer) run(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	unlock, err := s.locker.Lock(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to lock %s: %w", key, err)
	}
	defer unlock()

	return retryOnConflict(ctx, s.attempts, s.logger.With().Str("key", key).Logger(), fn)
}

// retryOnConflict reruns fn while it fails with shared.ErrConflict, backing off linearly
func retryOnConflict(ctx context.Context, attempts int, logger zerolog.Logger, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		err = fn(ctx)
		if !errors.Is(err, shared.ErrConflict) {
			return err
		}

		logger.Warn().Err(err).Int("attempt", attempt+1).Msg("Version conflict, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * conflictBackoff):
		}
	}
	return err
}
