package job

import (
	"time"

	"marketplace-engine/internal/domain/shared"

	"github.com/google/uuid"
)

// Status represents the status of a job
type Status string

const (
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Budget is the agreed price range of a job
type Budget struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

// Job is the work order created when an auction winner is selected
type Job struct {
	ID          uuid.UUID       `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Budget      Budget          `json:"budget"`
	ClientID    uuid.UUID       `json:"client_id"`
	HandymanID  uuid.UUID       `json:"handyman_id"`
	Status      Status          `json:"status"`
	Location    shared.Location `json:"location"`
	AuctionID   *uuid.UUID      `json:"auction_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
