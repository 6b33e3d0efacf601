package memory

import (
	"context"
	"fmt"

	"marketplace-engine/internal/domain/flashdeal"
	"marketplace-engine/internal/domain/shared"

	"github.com/google/uuid"
)

// FlashDealRepository implements outbound.FlashDealRepository
type FlashDealRepository struct {
	t *table[flashdeal.Deal]
}

func (r *FlashDealRepository) Create(ctx context.Context, d *flashdeal.Deal) error {
	if d.Version == 0 {
		d.Version = 1
	}
	if !r.t.insert(d.ID, d) {
		return fmt.Errorf("%w: flash deal %s already exists", shared.ErrConflict, d.ID)
	}
	return nil
}

func (r *FlashDealRepository) GetByID(ctx context.Context, id uuid.UUID) (*flashdeal.Deal, error) {
	d, ok := r.t.get(id)
	if !ok {
		return nil, shared.ErrDealNotFound
	}
	return d, nil
}

func (r *FlashDealRepository) Update(ctx context.Context, d *flashdeal.Deal) error {
	expected := d.Version
	next := *d
	next.Version = expected + 1

	found, err := r.t.replace(d.ID, &next, func(stored *flashdeal.Deal) error {
		if stored.Version != expected {
			return fmt.Errorf("%w: flash deal %s is at version %d, not %d", shared.ErrConflict, d.ID, stored.Version, expected)
		}
		return nil
	})
	if !found {
		return shared.ErrDealNotFound
	}
	if err != nil {
		return err
	}
	d.Version = next.Version
	return nil
}

func (r *FlashDealRepository) ListByStatus(ctx context.Context, status flashdeal.Status) ([]*flashdeal.Deal, error) {
	return r.t.filter(func(d *flashdeal.Deal) bool { return d.Status == status }), nil
}

func (r *FlashDealRepository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*flashdeal.Deal, error) {
	return r.t.filter(func(d *flashdeal.Deal) bool { return d.RestaurantID == restaurantID }), nil
}

// ClaimRepository implements outbound.ClaimRepository
type ClaimRepository struct {
	t *table[flashdeal.Claim]
}

func (r *ClaimRepository) Create(ctx context.Context, c *flashdeal.Claim) error {
	if !r.t.insert(c.ID, c) {
		return fmt.Errorf("%w: claim %s already exists", shared.ErrConflict, c.ID)
	}
	return nil
}

func (r *ClaimRepository) GetByID(ctx context.Context, id uuid.UUID) (*flashdeal.Claim, error) {
	c, ok := r.t.get(id)
	if !ok {
		return nil, shared.ErrClaimNotFound
	}
	return c, nil
}

func (r *ClaimRepository) Update(ctx context.Context, c *flashdeal.Claim) error {
	if found, _ := r.t.replace(c.ID, c, nil); !found {
		return shared.ErrClaimNotFound
	}
	return nil
}

func (r *ClaimRepository) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]*flashdeal.Claim, error) {
	return r.t.filter(func(c *flashdeal.Claim) bool { return c.DealID == dealID }), nil
}

func (r *ClaimRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*flashdeal.Claim, error) {
	return r.t.filter(func(c *flashdeal.Claim) bool { return c.UserID == userID }), nil
}
