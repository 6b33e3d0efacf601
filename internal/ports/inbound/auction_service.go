package inbound

import (
	"context"
	"time"

	"marketplace-engine/internal/domain/auction"
	"marketplace-engine/internal/domain/bid"
	"marketplace-engine/internal/domain/shared"

	"github.com/google/uuid"
)

// AuctionService defines the interface for auction operations
type AuctionService interface {
	// CreateAuction opens a new auction owned by the caller
	CreateAuction(ctx context.Context, caller *shared.Principal, req CreateAuctionRequest) (uuid.UUID, error)

	// PlaceBid submits or revises the caller's offer on an auction
	PlaceBid(ctx context.Context, caller *shared.Principal, req PlaceBidRequest) (*bid.Bid, error)

	// SelectWinner closes the auction in favour of one bidder and creates the job
	SelectWinner(ctx context.Context, caller *shared.Principal, req SelectWinnerRequest) (uuid.UUID, error)

	// CancelAuction withdraws an active auction
	CancelAuction(ctx context.Context, caller *shared.Principal, auctionID uuid.UUID) error

	// IncrementViews counts a view of the auction
	IncrementViews(ctx context.Context, auctionID uuid.UUID) error

	// GetActiveAuctions lists open auctions, soonest deadline first
	GetActiveAuctions(ctx context.Context, req ListAuctionsRequest) ([]*AuctionListing, error)

	// GetAuction returns an auction with its ranked bids
	GetAuction(ctx context.Context, auctionID uuid.UUID) (*AuctionDetail, error)

	// GetNearbyAuctions lists open auctions within a radius, nearest first
	GetNearbyAuctions(ctx context.Context, req NearbyRequest) ([]*NearbyAuction, error)

	// GetMyAuctions lists the caller's auctions, newest first
	GetMyAuctions(ctx context.Context, caller *shared.Principal) ([]*auction.Auction, error)

	// GetMyBids lists the caller's bids, newest first
	GetMyBids(ctx context.Context, caller *shared.Principal) ([]*MyBid, error)
}

// request to create an auction
type CreateAuctionRequest struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	InitialOffer  shared.Money    `json:"initial_offer"`
	Location      shared.Location `json:"location"`
	DurationHours *float64        `json:"duration_hours,omitempty"`
	Type          auction.Type    `json:"auction_type,omitempty"`
	Images        []string        `json:"images,omitempty"`
	IsUrgent      bool            `json:"is_urgent"`
}

// request to place a bid
type PlaceBidRequest struct {
	AuctionID     uuid.UUID `json:"auction_id"`
	Amount        float64   `json:"amount"`
	Message       string    `json:"message,omitempty"`
	EstimatedTime string    `json:"estimated_time,omitempty"`
}

// request to pick an auction winner
type SelectWinnerRequest struct {
	AuctionID uuid.UUID `json:"auction_id"`
	WinnerID  uuid.UUID `json:"winner_id"`
}

// request to list auctions
type ListAuctionsRequest struct {
	Category string `json:"category,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// request for a radius search
type NearbyRequest struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	RadiusKm float64 `json:"radius_km,omitempty"`
}

// AuctionListing is an active auction joined with its owner
type AuctionListing struct {
	*auction.Auction
	Client          *shared.UserSummary `json:"client,omitempty"`
	BidCount        int                 `json:"bid_count"`
	TimeRemainingMs int64               `json:"time_remaining_ms"`
}

// BidView is a bid joined with its bidder
type BidView struct {
	*bid.Bid
	Bidder *shared.UserSummary `json:"bidder,omitempty"`
}

// AuctionDetail is an auction with its bids ranked best first
type AuctionDetail struct {
	*auction.Auction
	Client          *shared.UserSummary `json:"client,omitempty"`
	Bids            []*BidView          `json:"bids"`
	TimeRemainingMs int64               `json:"time_remaining_ms"`
}

// NearbyAuction is an auction annotated with its distance from the search origin
type NearbyAuction struct {
	*auction.Auction
	DistanceKm float64 `json:"distance"`
}

// AuctionSummary is the slice of an auction shown next to a bid
type AuctionSummary struct {
	Title          string           `json:"title"`
	Status         auction.Status   `json:"status"`
	EndTime        time.Time        `json:"end_time"`
	CurrentBestBid *auction.BestBid `json:"current_best_bid,omitempty"`
}

// MyBid is one of the caller's bids with its auction
type MyBid struct {
	*bid.Bid
	Auction *AuctionSummary `json:"auction,omitempty"`
}
