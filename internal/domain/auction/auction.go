package auction

import (
	"time"

	"marketplace-engine/internal/domain/shared"

	"github.com/google/uuid"
)

// Status represents the current status of an auction
type Status string

const (
	StatusActive    Status = "active"
	StatusClosed    Status = "closed"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Type selects the bid ordering of an auction
type Type string

const (
	// TypeReverse auctions are won by the lowest offer
	TypeReverse Type = "reverse"
	// TypeStandard auctions are won by the highest offer
	TypeStandard Type = "standard"
)

// Valid reports whether t is a known auction type
func (t Type) Valid() bool {
	return t == TypeReverse || t == TypeStandard
}

// BestBid is the leading offer of an auction
type BestBid struct {
	Amount   float64   `json:"amount"`
	BidderID uuid.UUID `json:"bidder_id"`
	BidTime  time.Time `json:"bid_time"`
}

// Config holds the bidding rules fixed at creation
type Config struct {
	EndTime           time.Time `json:"end_time"`
	Type              Type      `json:"type"`
	MinBidStep        float64   `json:"min_bid_step,omitempty"`
	AutoExtendMinutes int       `json:"auto_extend_minutes,omitempty"`
}

// Auction represents a job put out for competitive offers
type Auction struct {
	ID             uuid.UUID       `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	InitialOffer   shared.Money    `json:"initial_offer"`
	CurrentBestBid *BestBid        `json:"current_best_bid,omitempty"`
	ClientID       uuid.UUID       `json:"client_id"`
	WinnerID       *uuid.UUID      `json:"winner_id,omitempty"`
	Status         Status          `json:"status"`
	Location       shared.Location `json:"location"`
	Images         []string        `json:"images,omitempty"`
	IsUrgent       bool            `json:"is_urgent"`
	Config         Config          `json:"auction_config"`
	TotalBids      int             `json:"total_bids"`
	ViewCount      int             `json:"view_count"`
	Version        int64           `json:"version"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// IsActive returns true if the auction accepts lifecycle transitions
func (a *Auction) IsActive() bool {
	return a.Status == StatusActive
}

// HasEnded reports whether the deadline has passed at now
func (a *Auction) HasEnded(now time.Time) bool {
	return now.After(a.Config.EndTime)
}

// Ordering returns the comparison strategy fixed by the auction type
func (a *Auction) Ordering() Ordering {
	return OrderingFor(a.Config.Type)
}

// CurrentAmount is the amount a new bid must beat
func (a *Auction) CurrentAmount() float64 {
	if a.CurrentBestBid != nil {
		return a.CurrentBestBid.Amount
	}
	return a.InitialOffer.Amount
}

// TimeRemaining is the time left until the deadline, never negative
func (a *Auction) TimeRemaining(now time.Time) time.Duration {
	if left := a.Config.EndTime.Sub(now); left > 0 {
		return left
	}
	return 0
}

// MaybeExtend pushes the deadline back when activity lands inside the
// auto-extension window. It reports whether the deadline moved.
func (a *Auction) MaybeExtend(now time.Time) bool {
	if a.Config.AutoExtendMinutes <= 0 {
		return false
	}
	window := time.Duration(a.Config.AutoExtendMinutes) * time.Minute
	if a.Config.EndTime.Sub(now) < window {
		a.Config.EndTime = a.Config.EndTime.Add(window)
		return true
	}
	return false
}

// Close marks the auction as won by winnerID
func (a *Auction) Close(winnerID uuid.UUID, now time.Time) {
	a.Status = StatusClosed
	a.WinnerID = &winnerID
	a.UpdatedAt = now
}

// Cancel marks the auction as cancelled by its owner
func (a *Auction) Cancel(now time.Time) {
	a.Status = StatusCancelled
	a.UpdatedAt = now
}

// Expire marks an unanswered auction as expired
func (a *Auction) Expire(now time.Time) {
	a.Status = StatusExpired
	a.UpdatedAt = now
}
