package flashdeal

import (
	"time"

	"marketplace-engine/internal/domain/shared"

	"github.com/google/uuid"
)

// Status represents the status of a flash deal
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusSoldOut   Status = "sold_out"
	StatusCancelled Status = "cancelled"
)

// Item is one discounted product of a deal. A nil Quantity means unbounded stock.
type Item struct {
	Name            string  `json:"name"`
	OriginalPrice   float64 `json:"original_price"`
	DiscountedPrice float64 `json:"discounted_price"`
	Quantity        *int    `json:"quantity,omitempty"`
	ImageURL        string  `json:"image_url,omitempty"`
}

// Deal is a time-boxed restaurant offer with limited inventory
type Deal struct {
	ID                     uuid.UUID       `json:"id"`
	RestaurantID           uuid.UUID       `json:"restaurant_id"`
	Title                  string          `json:"title"`
	Description            string          `json:"description"`
	Items                  []Item          `json:"items"`
	DiscountPercentage     float64         `json:"discount_percentage"`
	StartTime              time.Time       `json:"start_time"`
	EndTime                time.Time       `json:"end_time"`
	Status                 Status          `json:"status"`
	Location               shared.Location `json:"location"`
	NotificationRadius     float64         `json:"notification_radius"`
	ViewCount              int             `json:"view_count"`
	ClaimCount             int             `json:"claim_count"`
	PushNotificationSent   bool            `json:"push_notification_sent"`
	PushNotificationSentAt *time.Time      `json:"push_notification_sent_at,omitempty"`
	Version                int64           `json:"version"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// Item looks up an item by name
func (d *Deal) Item(name string) (*Item, bool) {
	for i := range d.Items {
		if d.Items[i].Name == name {
			return &d.Items[i], true
		}
	}
	return nil, false
}

// IsActive returns true if the deal accepts claims
func (d *Deal) IsActive() bool {
	return d.Status == StatusActive
}

// HasEnded reports whether the deal window closed at now
func (d *Deal) HasEnded(now time.Time) bool {
	return now.After(d.EndTime)
}

// IsTerminal reports whether the deal can no longer change status
func (d *Deal) IsTerminal() bool {
	return d.Status == StatusCancelled || d.Status == StatusExpired
}

// DueForActivation reports whether a scheduled deal's window is open at now
func (d *Deal) DueForActivation(now time.Time) bool {
	return d.Status == StatusScheduled && !d.StartTime.After(now) && now.Before(d.EndTime)
}

// AwaitingFanOut reports whether an active deal still owes its one-time fan-out at now
func (d *Deal) AwaitingFanOut(now time.Time) bool {
	return d.Status == StatusActive && !d.PushNotificationSent && now.Before(d.EndTime)
}

// DueForExpiry reports whether an active deal's window closed at now
func (d *Deal) DueForExpiry(now time.Time) bool {
	return d.Status == StatusActive && !d.EndTime.After(now)
}

// TimeRemaining is the time left until the deal ends, never negative
func (d *Deal) TimeRemaining(now time.Time) time.Duration {
	if left := d.EndTime.Sub(now); left > 0 {
		return left
	}
	return 0
}

// MarkNotified records the one-time fan-out
func (d *Deal) MarkNotified(now time.Time) {
	d.PushNotificationSent = true
	d.PushNotificationSentAt = &now
	d.UpdatedAt = now
}
