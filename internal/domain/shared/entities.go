package shared

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Role is the marketplace role of a registered user
type Role string

const (
	RoleClient     Role = "client"
	RoleHandyman   Role = "handyman"
	RoleBusiness   Role = "business"
	RoleRestaurant Role = "restaurant"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleHandyman, RoleBusiness, RoleRestaurant:
		return true
	}
	return false
}

// Location is a geographic point with an optional street address
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

// Money is an amount in a given currency
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Principal is the identity asserted by the identity provider
type Principal struct {
	Subject     string `json:"subject"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatar_url"`
}

// RestaurantInfo is the storefront profile of a restaurant user
type RestaurantInfo struct {
	BusinessName string   `json:"business_name"`
	LogoURL      string   `json:"logo_url,omitempty"`
	Cuisine      []string `json:"cuisine,omitempty"`
}

// User represents a registered marketplace user
type User struct {
	ID             uuid.UUID       `json:"id"`
	ExternalID     string          `json:"external_id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	AvatarURL      string          `json:"avatar_url,omitempty"`
	Role           Role            `json:"role"`
	Phone          string          `json:"phone,omitempty"`
	Location       *Location       `json:"location,omitempty"`
	Categories     []string        `json:"categories,omitempty"`
	Rating         *float64        `json:"rating,omitempty"`
	CompletedJobs  int             `json:"completed_jobs"`
	PushToken      string          `json:"push_token,omitempty"`
	RestaurantInfo *RestaurantInfo `json:"restaurant_info,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// HasPushEndpoint reports whether the user registered a device for push delivery
func (u *User) HasPushEndpoint() bool {
	return u.PushToken != ""
}

// WorksIn reports whether the user lists category among their trades
func (u *User) WorksIn(category string) bool {
	return slices.Contains(u.Categories, category)
}

// DisplayName prefers the storefront name for restaurants
func (u *User) DisplayName() string {
	if u.RestaurantInfo != nil && u.RestaurantInfo.BusinessName != "" {
		return u.RestaurantInfo.BusinessName
	}
	return u.Name
}
