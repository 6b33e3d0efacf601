package flashdeal

import (
	"time"

	"github.com/google/uuid"
)

// ClaimStatus represents the lifecycle of a claim
type ClaimStatus string

const (
	ClaimPending   ClaimStatus = "pending"
	ClaimConfirmed ClaimStatus = "confirmed"
	ClaimPickedUp  ClaimStatus = "picked_up"
	ClaimCancelled ClaimStatus = "cancelled"
	ClaimExpired   ClaimStatus = "expired"
)

// ClaimItem is a reserved quantity of one deal item, priced at claim time
type ClaimItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Claim is a reservation against a deal's inventory
type Claim struct {
	ID          uuid.UUID   `json:"id"`
	DealID      uuid.UUID   `json:"deal_id"`
	UserID      uuid.UUID   `json:"user_id"`
	Items       []ClaimItem `json:"items"`
	TotalAmount float64     `json:"total_amount"`
	Status      ClaimStatus `json:"status"`
	PickupCode  string      `json:"pickup_code"`
	ConfirmedAt *time.Time  `json:"confirmed_at,omitempty"`
	PickedUpAt  *time.Time  `json:"picked_up_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// HoldsInventory reports whether the claim counts against item quantities
func (c *Claim) HoldsInventory() bool {
	return c.Status != ClaimCancelled
}

// IsOpen reports whether the claim still awaits pickup
func (c *Claim) IsOpen() bool {
	return c.Status == ClaimPending || c.Status == ClaimConfirmed
}

// Quantity returns how many units of name this claim holds
func (c *Claim) Quantity(name string) int {
	total := 0
	for _, it := range c.Items {
		if it.Name == name {
			total += it.Quantity
		}
	}
	return total
}

// ClaimedQuantity sums the units of name held across claims
func ClaimedQuantity(claims []*Claim, name string) int {
	total := 0
	for _, c := range claims {
		if c.HoldsInventory() {
			total += c.Quantity(name)
		}
	}
	return total
}
