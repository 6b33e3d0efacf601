package db

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
	docs *collection[auction.Auction]
}

// NewAuctionRepository creates a new auction repository
func NewAuctionRepository(conn *Connection) *AuctionRepository {
	return &AuctionRepository{docs: newCollection[auction.Auction](conn, "auctions", "auction", shared.ErrAuctionNotFound)}
}

func (r *AuctionRepository) Create(ctx context.Context, a *auction.Auction) error {
	if a.Version == 0 {
		a.Version = 1
	}
	return r.docs.insert(ctx, r.docs.conn.GetDB(), a.ID, a.Version, a)
}

func (r *AuctionRepository) GetByID(ctx context.Context, id uuid.UUID) (*auction.Auction, error) {
	return r.docs.get(ctx, id)
}

func (r *AuctionRepository) Update(ctx context.Context, a *auction.Auction) error {
	expected := a.Version
	next := *a
	next.Version = expected + 1

	if err := r.docs.swap(ctx, a.ID, expected, &next); err != nil {
		return err
	}
	a.Version = next.Version
	return nil
}

func (r *AuctionRepository) ListByStatus(ctx context.Context, status auction.Status) ([]*auction.Auction, error) {
	return r.docs.find(ctx, `WHERE doc->>'status' = $1 ORDER BY seq`, string(status))
}

func (r *AuctionRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*auction.Auction, error) {
	return r.docs.find(ctx, `WHERE doc->>'client_id' = $1 ORDER BY seq`, clientID.String())
}

// BidRepository implements outbound.BidRepository
type BidRepository struct {
	docs *collection[bid.Bid]
}

// NewBidRepository creates a new bid repository
func NewBidRepository(conn *Connection) *BidRepository {
	return &BidRepository{docs: newCollection[bid.Bid](conn, "bids", "bid", fmt.Errorf("bid %w", shared.ErrNotFound))}
}

func (r *BidRepository) Create(ctx context.Context, b *bid.Bid) error {
	return r.docs.insert(ctx, r.docs.conn.GetDB(), b.ID, 1, b)
}

func (r *BidRepository) Update(ctx context.Context, b *bid.Bid) error {
	return r.docs.replace(ctx, b.ID, b)
}

func (r *BidRepository) FindActive(ctx context.Context, auctionID, bidderID uuid.UUID) (*bid.Bid, error) {
	return r.docs.findOne(ctx,
		`WHERE doc->>'auction_id' = $1 AND doc->>'bidder_id' = $2 AND doc->>'status' = $3 ORDER BY seq`,
		auctionID.String(), bidderID.String(), string(bid.StatusActive))
}

func (r *BidRepository) ListByAuction(ctx context.Context, auctionID uuid.UUID) ([]*bid.Bid, error) {
	return r.docs.find(ctx, `WHERE doc->>'auction_id' = $1 ORDER BY seq`, auctionID.String())
}

func (r *BidRepository) ListByBidder(ctx context.Context, bidderID uuid.UUID) ([]*bid.Bid, error) {
	return r.docs.find(ctx, `WHERE doc->>'bidder_id' = $1 ORDER BY seq`, bidderID.String())
}

// JobRepository implements outbound.JobRepository
type JobRepository struct {
	docs *collection[job.Job]
}

// NewJobRepository creates a new job repository
func NewJobRepository(conn *Connection) *JobRepository {
	return &JobRepository{docs: newCollection[job.Job](conn, "jobs", "job", shared.ErrJobNotFound)}
}

func (r *JobRepository) Create(ctx context.Context, j *job.Job) error {
	return r.docs.insert(ctx, r.docs.conn.GetDB(), j.ID, 1, j)
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	return r.docs.get(ctx, id)
}

func (r *JobRepository) Update(ctx context.Context, j *job.Job) error {
	return r.docs.replace(ctx, j.ID, j)
}
