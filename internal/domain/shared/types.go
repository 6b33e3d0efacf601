package shared

import "github.com/google/uuid"

// UserSummary is the public projection of a user joined into query results
type UserSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	Rating        *float64  `json:"rating,omitempty"`
	CompletedJobs *int      `json:"completed_jobs,omitempty"`
}

// RestaurantSummary is the public projection of a restaurant joined into deal results
type RestaurantSummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	LogoURL  string    `json:"logo_url,omitempty"`
	Cuisine  []string  `json:"cuisine,omitempty"`
	Rating   *float64  `json:"rating,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	Location *Location `json:"location,omitempty"`
}

// Summarize projects a user into its public summary
func Summarize(u *User) *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Name: u.Name, AvatarURL: u.AvatarURL}
}

// SummarizeRestaurant projects a restaurant user into its storefront summary
func SummarizeRestaurant(u *User) *RestaurantSummary {
	if u == nil {
		return nil
	}
	s := &RestaurantSummary{ID: u.ID, Name: u.DisplayName(), Rating: u.Rating}
	if u.RestaurantInfo != nil {
		s.LogoURL = u.RestaurantInfo.LogoURL
		s.Cuisine = u.RestaurantInfo.Cuisine
	}
	return s
}
