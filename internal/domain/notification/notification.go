package notification

import (
	"time"

	"marketplace-engine/internal/domain/shared"

	"github.com/google/uuid"
)

// Type classifies a notification for client-side routing
type Type string

const (
	TypeJobMatch         Type = "job_match"
	TypeSystem           Type = "system"
	TypeAuctionNewBid    Type = "auction_new_bid"
	TypeAuctionOutbid    Type = "auction_outbid"
	TypeAuctionWon       Type = "auction_won"
	TypeAuctionLost      Type = "auction_lost"
	TypeFlashDeal        Type = "flash_deal"
	TypeFlashDealClaimed Type = "flash_deal_claimed"
)

// Notification is an append-only outbox record addressed to one user.
// Only IsRead and DispatchedAt change after creation.
type Notification struct {
	ID           uuid.UUID      `json:"id"`
	UserID       uuid.UUID      `json:"user_id"`
	Type         Type           `json:"type"`
	Title        string         `json:"title"`
	Message      string         `json:"message"`
	Data         map[string]any `json:"data,omitempty"`
	IsRead       bool           `json:"is_read"`
	CreatedAt    time.Time      `json:"created_at"`
	DispatchedAt *time.Time     `json:"dispatched_at,omitempty"`
}

// New builds an unread notification
func New(userID uuid.UUID, typ Type, title, message string, data map[string]any, now time.Time) *Notification {
	return &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Data:      data,
		CreatedAt: now,
	}
}

// TargetArea is the circle a broadcast was aimed at
type TargetArea struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	RadiusKm float64 `json:"radius_km"`
}

// Broadcast is the aggregate record of one radius fan-out
type Broadcast struct {
	ID             uuid.UUID      `json:"id"`
	TargetType     string         `json:"target_type"`
	TargetLocation TargetArea     `json:"target_location"`
	Title          string         `json:"title"`
	Body           string         `json:"body"`
	Data           map[string]any `json:"data,omitempty"`
	Status         string         `json:"status"`
	SentCount      int            `json:"sent_count"`
	SentAt         time.Time      `json:"sent_at"`
	CreatedAt      time.Time      `json:"created_at"`
}

// NewRadiusBroadcast records a fan-out around center
func NewRadiusBroadcast(center shared.Location, radiusKm float64, title, body string, data map[string]any, sent int, now time.Time) *Broadcast {
	return &Broadcast{
		ID:             uuid.New(),
		TargetType:     "radius",
		TargetLocation: TargetArea{Lat: center.Lat, Lng: center.Lng, RadiusKm: radiusKm},
		Title:          title,
		Body:           body,
		Data:           data,
		Status:         "sent",
		SentCount:      sent,
		SentAt:         now,
		CreatedAt:      now,
	}
}
