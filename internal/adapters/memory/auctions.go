package memory

import (
	"context"
	"fmt"

	"marketplace-engine/internal/domain/auction"
	"marketplace-engine/internal/domain/bid"
	"marketplace-engine/internal/domain/job"
	"marketplace-engine/internal/domain/shared"

	"github.com/google/uuid"
)

// AuctionRepository implements outbound.AuctionRepository
type AuctionRepository struct {
	t *table[auction.Auction]
}

func (r *AuctionRepository) Create(ctx context.Context, a *auction.Auction) error {
	if a.Version == 0 {
		a.Version = 1
	}
	if !r.t.insert(a.ID, a) {
		return fmt.Errorf("%w: auction %s already exists", shared.ErrConflict, a.ID)
	}
	return nil
}

func (r *AuctionRepository) GetByID(ctx context.Context, id uuid.UUID) (*auction.Auction, error) {
	a, ok := r.t.get(id)
	if !ok {
		return nil, shared.ErrAuctionNotFound
	}
	return a, nil
}

func (r *AuctionRepository) Update(ctx context.Context, a *auction.Auction) error {
	expected := a.Version
	next := *a
	next.Version = expected + 1

	found, err := r.t.replace(a.ID, &next, func(stored *auction.Auction) error {
		if stored.Version != expected {
			return fmt.Errorf("%w: auction %s is at version %d, not %d", shared.ErrConflict, a.ID, stored.Version, expected)
		}
		return nil
	})
	if !found {
		return shared.ErrAuctionNotFound
	}
	if err != nil {
		return err
	}
	a.Version = next.Version
	return nil
}

func (r *AuctionRepository) ListByStatus(ctx context.Context, status auction.Status) ([]*auction.Auction, error) {
	return r.t.filter(func(a *auction.Auction) bool { return a.Status == status }), nil
}

func (r *AuctionRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*auction.Auction, error) {
	return r.t.filter(func(a *auction.Auction) bool { return a.ClientID == clientID }), nil
}

// BidRepository implements outbound.BidRepository
type BidRepository struct {
	t *table[bid.Bid]
}

func (r *BidRepository) Create(ctx context.Context, b *bid.Bid) error {
	if !r.t.insert(b.ID, b) {
		return fmt.Errorf("%w: bid %s already exists", shared.ErrConflict, b.ID)
	}
	return nil
}

func (r *BidRepository) Update(ctx context.Context, b *bid.Bid) error {
	if found, _ := r.t.replace(b.ID, b, nil); !found {
		return fmt.Errorf("bid %s: %w", b.ID, shared.ErrNotFound)
	}
	return nil
}

func (r *BidRepository) FindActive(ctx context.Context, auctionID, bidderID uuid.UUID) (*bid.Bid, error) {
	bids := r.t.filter(func(b *bid.Bid) bool {
		return b.AuctionID == auctionID && b.BidderID == bidderID && b.IsActive()
	})
	if len(bids) == 0 {
		return nil, nil
	}
	return bids[0], nil
}

func (r *BidRepository) ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*bid.Bid, error) {
	return r.t.filter(func(b *bid.Bid) bool { return b.AuctionID == auctionID }), nil
}

func (r *BidRepository) ListByBidder(ctx context.Context, bidderID uuid.UUID) ([]*bid.Bid, error) {
	return r.t.filter(func(b *bid.Bid) bool { return b.BidderID == bidderID }), nil
}

// JobRepository implements outbound.JobRepository
type JobRepository struct {
	t *table[job.Job]
}

func (r *JobRepository) Create(ctx context.Context, j *job.Job) error {
	if !r.t.insert(j.ID, j) {
		return fmt.Errorf("%w: job %s already exists", shared.ErrConflict, j.ID)
	}
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	j, ok := r.t.get(id)
	if !ok {
		return nil, shared.ErrJobNotFound
	}
	return j, nil
}

func (r *JobRepository) Update(ctx context.Context, j *job.Job) error {
	if found, _ := r.t.replace(j.ID, j, nil); !found {
		return shared.ErrJobNotFound
	}
	return nil
}
