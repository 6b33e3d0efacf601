package db

import (
	"context"

	"marketplace-engine/internal/domain/flashdeal"
	"marketplace-engine/internal/domain/shared"

	"github.com/google/uuid"
)

// FlashDealRepository implements outbound.FlashDealRepository
type FlashDealRepository struct {
	docs *collection[flashdeal.Deal]
}

// NewFlashDealRepository creates a new flash deal repository
func NewFlashDealRepository(conn *Connection) *FlashDealRepository {
	return &FlashDealRepository{docs: newCollection[flashdeal.Deal](conn, "flash_deals", "flash deal", shared.ErrDealNotFound)}
}

func (r *FlashDealRepository) Create(ctx context.Context, d *flashdeal.Deal) error {
	if d.Version == 0 {
		d.Version = 1
	}
	return r.docs.insert(ctx, r.docs.conn.GetDB(), d.ID, d.Version, d)
}

func (r *FlashDealRepository) GetByID(ctx context.Context, id uuid.UUID) (*flashdeal.Deal, error) {
	return r.docs.get(ctx, id)
}

func (r *FlashDealRepository) Update(ctx context.Context, d *flashdeal.Deal) error {
	expected := d.Version
	next := *d
	next.Version = expected + 1

	if err := r.docs.swap(ctx, d.ID, expected, &next); err != nil {
		return err
	}
	d.Version = next.Version
	return nil
}

func (r *FlashDealRepository) ListByStatus(ctx context.Context, status flashdeal.Status) ([]*flashdeal.Deal, error) {
	return r.docs.find(ctx, `WHERE doc->>'status' = $1 ORDER BY seq`, string(status))
}

func (r *FlashDealRepository) ListByRestaurant(ctx context.Context, restaurantID uuid.UUID) ([]*flashdeal.Deal, error) {
	return r.docs.find(ctx, `WHERE doc->>'restaurant_id' = $1 ORDER BY seq`, restaurantID.String())
}

// ClaimRepository implements outbound.ClaimRepository
type ClaimRepository struct {
	docs *collection[flashdeal.Claim]
}

// NewClaimRepository creates a new claim repository
func NewClaimRepository(conn *Connection) *ClaimRepository {
	return &ClaimRepository{docs: newCollection[flashdeal.Claim](conn, "claims", "claim", shared.ErrClaimNotFound)}
}

func (r *ClaimRepository) Create(ctx context.Context, c *flashdeal.Claim) error {
	return r.docs.insert(ctx, r.docs.conn.GetDB(), c.ID, 1, c)
}

func (r *ClaimRepository) GetByID(ctx context.Context, id uuid.UUID) (*flashdeal.Claim, error) {
	return r.docs.get(ctx, id)
}

func (r *ClaimRepository) Update(ctx context.Context, c *flashdeal.Claim) error {
	return r.docs.replace(ctx, c.ID, c)
}

func (r *ClaimRepository) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]*flashdeal.Claim, error) {
	return r.docs.find(ctx, `WHERE doc->>'deal_id' = $1 ORDER BY seq`, dealID.String())
}

func (r *ClaimRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*flashdeal.Claim, error) {
	return r.docs.find(ctx, `WHERE doc->>'user_id' = $1 ORDER BY seq`, userID.String())
}
