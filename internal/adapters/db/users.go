package db

import (
	"context"

	"marketplace-engine/internal/domain/shared"

	"github.com/google/uuid"
)

// UserRepository implements outbound.UserRepository
type UserRepository struct {
	docs *collection[shared.User]
}

// NewUserRepository creates a new user repository
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{docs: newCollection[shared.User](conn, "users", "user", shared.ErrUserRecordAbsent)}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	return r.docs.get(ctx, id)
}

func (r *UserRepository) GetByExternalID(ctx context.Context, externalID string) (*shared.User, error) {
	u, err := r.docs.findOne(ctx, `WHERE doc->>'external_id' = $1 ORDER BY seq`, externalID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, shared.ErrUserRecordAbsent
	}
	return u, nil
}

func (r *UserRepository) Save(ctx context.Context, u *shared.User) error {
	return r.docs.upsert(ctx, u.ID, u)
}

func (r *UserRepository) ListByRole(ctx context.Context, role shared.Role) ([]*shared.User, error) {
	return r.docs.find(ctx, `WHERE doc->>'role' = $1 ORDER BY seq`, string(role))
}

func (r *UserRepository) ListReachable(ctx context.Context) ([]*shared.User, error) {
	return r.docs.find(ctx, `WHERE COALESCE(doc->>'push_token', '') <> '' ORDER BY seq`)
}
