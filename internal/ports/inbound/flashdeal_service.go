package inbound

import (
	"context"
	"time"

	"marketplace-engine/internal/domain/flashdeal"
	"marketplace-engine/internal/domain/shared"

	"github.com/google/uuid"
)

// FlashDealService defines the interface for flash deal operations
type FlashDealService interface {
	// CreateFlashDeal publishes a deal for the calling restaurant
	CreateFlashDeal(ctx context.Context, caller *shared.Principal, req CreateFlashDealRequest) (uuid.UUID, error)

	// ClaimDeal reserves units of one or more deal items
	ClaimDeal(ctx context.Context, caller *shared.Principal, req ClaimDealRequest) (*ClaimReceipt, error)

	// ConfirmClaim acknowledges a pending claim
	ConfirmClaim(ctx context.Context, caller *shared.Principal, claimID uuid.UUID) error

	// MarkAsPickedUp redeems a claim against its pickup code
	MarkAsPickedUp(ctx context.Context, caller *shared.Principal, req PickupRequest) error

	// CancelDeal withdraws a deal and cancels its open claims
	CancelDeal(ctx context.Context, caller *shared.Principal, dealID uuid.UUID) error

	// IncrementViews counts a view of the deal
	IncrementViews(ctx context.Context, dealID uuid.UUID) error

	GetActiveDeals(ctx context.Context, limit int) ([]*DealListing, error)
	GetNearbyDeals(ctx context.Context, req NearbyRequest) ([]*NearbyDeal, error)
	GetDeal(ctx context.Context, dealID uuid.UUID) (*DealDetail, error)
	GetMyDeals(ctx context.Context, caller *shared.Principal) ([]*MyDeal, error)
	GetMyClaims(ctx context.Context, caller *shared.Principal) ([]*MyClaim, error)
}

// SweepService runs the periodic batch transitions
type SweepService interface {
	ActivateScheduledDeals(ctx context.Context) (SweepResult, error)
	ExpireDeals(ctx context.Context) (SweepResult, error)
	ExpireAuctions(ctx context.Context) (SweepResult, error)
}

// SweepResult counts what one sweep did
type SweepResult struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// request to publish a flash deal
type CreateFlashDealRequest struct {
	Title              string           `json:"title"`
	Description        string           `json:"description"`
	Items              []flashdeal.Item `json:"items"`
	DiscountPercentage float64          `json:"discount_percentage"`
	EndTime            time.Time        `json:"end_time"`
	NotificationRadius *float64         `json:"notification_radius,omitempty"`
}

// ClaimLine asks for quantity units of the named item
type ClaimLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// request to claim a deal
type ClaimDealRequest struct {
	DealID uuid.UUID   `json:"deal_id"`
	Items  []ClaimLine `json:"items"`
}

// request to redeem a claim
type PickupRequest struct {
	ClaimID    uuid.UUID `json:"claim_id"`
	PickupCode string    `json:"pickup_code"`
}

// ClaimReceipt is returned to the claimant
type ClaimReceipt struct {
	ClaimID     uuid.UUID `json:"claim_id"`
	PickupCode  string    `json:"pickup_code"`
	TotalAmount float64   `json:"total_amount"`
}

// DealListing is an active deal joined with its restaurant
type DealListing struct {
	*flashdeal.Deal
	Restaurant      *shared.RestaurantSummary `json:"restaurant,omitempty"`
	TimeRemainingMs int64                     `json:"time_remaining_ms"`
}

// NearbyDeal is a listing annotated with its distance from the search origin
type NearbyDeal struct {
	*DealListing
	DistanceKm float64 `json:"distance"`
}

// DealDetail is a deal with its restaurant and redeemed-claim count
type DealDetail struct {
	*flashdeal.Deal
	Restaurant      *shared.RestaurantSummary `json:"restaurant,omitempty"`
	ConfirmedClaims int                       `json:"confirmed_claim_count"`
	TimeRemainingMs int64                     `json:"time_remaining_ms"`
}

// DealStats summarizes the claims of one deal
type DealStats struct {
	TotalClaims     int     `json:"total_claims"`
	ConfirmedClaims int     `json:"confirmed_claims"`
	PickedUpClaims  int     `json:"picked_up_claims"`
	Revenue         float64 `json:"revenue"`
}

// MyDeal is one of the calling restaurant's deals with its stats
type MyDeal struct {
	*flashdeal.Deal
	Stats DealStats `json:"stats"`
}

// DealSummary is the slice of a deal shown next to a claim
type DealSummary struct {
	Title   string    `json:"title"`
	EndTime time.Time `json:"end_time"`
}

// MyClaim is one of the caller's claims with its deal and restaurant
type MyClaim struct {
	*flashdeal.Claim
	Deal       *DealSummary              `json:"deal,omitempty"`
	Restaurant *shared.RestaurantSummary `json:"restaurant,omitempty"`
}
