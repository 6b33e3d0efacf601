package inbound

import (
	"context"

	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/domain/shared"

	"github.com/google/uuid"
)

// UserService defines profile and inbox operations
type UserService interface {
	// SyncProfile creates or refreshes the user record bound to the caller's principal
	SyncProfile(ctx context.Context, caller *shared.Principal, req SyncProfileRequest) (*shared.User, error)

	// GetProfile returns the caller's user record
	GetProfile(ctx context.Context, caller *shared.Principal) (*shared.User, error)

	// ListNotifications returns the caller's inbox, newest first
	ListNotifications(ctx context.Context, caller *shared.Principal, unreadOnly bool, limit int) ([]*notification.Notification, error)

	// MarkNotificationRead flips the read flag of one of the caller's notifications
	MarkNotificationRead(ctx context.Context, caller *shared.Principal, notificationID uuid.UUID) error
}

// request to register or update a profile
type SyncProfileRequest struct {
	Role           shared.Role            `json:"role"`
	Name           string                 `json:"name,omitempty"`
	Phone          string                 `json:"phone,omitempty"`
	Location       *shared.Location       `json:"location,omitempty"`
	Categories     []string               `json:"categories,omitempty"`
	PushToken      string                 `json:"push_token,omitempty"`
	RestaurantInfo *shared.RestaurantInfo `json:"restaurant_info,omitempty"`
}
