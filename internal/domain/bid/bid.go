package bid

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the status of a bid
type Status string

const (
	StatusActive    Status = "active"
	StatusWon       Status = "won"
	StatusLost      Status = "lost"
	StatusWithdrawn Status = "withdrawn"
)

// Bid represents a handyman's offer on an auction. A bidder holds at most
// one active bid per auction; re-bidding rewrites it in place.
type Bid struct {
	ID            uuid.UUID `json:"id"`
	AuctionID     uuid.UUID `json:"auction_id"`
	BidderID      uuid.UUID `json:"bidder_id"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	Message       string    `json:"message,omitempty"`
	EstimatedTime string    `json:"estimated_time,omitempty"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsActive returns true if the bid still competes
func (b *Bid) IsActive() bool {
	return b.Status == StatusActive
}

// Revise overwrites the offer of an existing active bid
func (b *Bid) Revise(amount float64, message, estimatedTime string, now time.Time) {
	b.Amount = amount
	b.Message = message
	b.EstimatedTime = estimatedTime
	b.CreatedAt = now
	b.UpdatedAt = now
}

// Settle marks the bid won or lost once a winner is picked
func (b *Bid) Settle(winnerID uuid.UUID, now time.Time) {
	if b.BidderID == winnerID {
		b.Status = StatusWon
	} else {
		b.Status = StatusLost
	}
	b.UpdatedAt = now
}

// Withdraw marks the bid withdrawn
func (b *Bid) Withdraw(now time.Time) {
	b.Status = StatusWithdrawn
	b.UpdatedAt = now
}
