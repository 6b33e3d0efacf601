package app

import (
	"context"
	"errors"

	"marketplace-engine/internal/domain/shared"
	"marketplace-engine/internal/ports/outbound"

	"github.com/google/uuid"
)

// errSkip aborts a serialized sweep step whose precondition no longer holds
var errSkip = errors.New("skip")

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}

// userCache memoizes user lookups for one query-time join. Missing users resolve to nil.
type userCache struct {
	repo  outbound.UserRepository
	users map[uuid.UUID]*shared.User
}

func newUserCache(repo outbound.UserRepository) *userCache {
	return &userCache{repo: repo, users: make(map[uuid.UUID]*shared.User)}
}

func (c *userCache) get(ctx context.Context, id uuid.UUID) *shared.User {
	if u, ok := c.users[id]; ok {
		return u
	}
	u, err := c.repo.GetByID(ctx, id)
	if err != nil {
		u = nil
	}
	c.users[id] = u
	return u
}

func isSkip(err error) bool {
	return errors.Is(err, errSkip)
}
