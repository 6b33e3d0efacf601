package memory

import (
	"context"

	"marketplace-engine/internal/domain/shared"

	"github.com/google/uuid"
)

// UserRepository implements outbound.UserRepository
type UserRepository struct {
	t *table[shared.User]
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	u, ok := r.t.get(id)
	if !ok {
		return nil, shared.ErrUserRecordAbsent
	}
	return u, nil
}

func (r *UserRepository) GetByExternalID(ctx context.Context, externalID string) (*shared.User, error) {
	users := r.t.filter(func(u *shared.User) bool { return u.ExternalID == externalID })
	if len(users) == 0 {
		return nil, shared.ErrUserRecordAbsent
	}
	return users[0], nil
}

func (r *UserRepository) Save(ctx context.Context, u *shared.User) error {
	if found, _ := r.t.replace(u.ID, u, nil); !found {
		r.t.insert(u.ID, u)
	}
	return nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role shared.Role) ([]*shared.User, error) {
	return r.t.filter(func(u *shared.User) bool { return u.Role == role }), nil
}

func (r *UserRepository) ListReachable(ctx context.Context) ([]*shared.User, error) {
	return r.t.filter(func(u *shared.User) bool { return u.HasPushEndpoint() }), nil
}
