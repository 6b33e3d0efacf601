package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/domain/shared"
	"marketplace-engine/internal/ports/inbound"
	"marketplace-engine/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// callerResolver maps a principal onto its registered user
type callerResolver struct {
	users outbound.UserRepository
}

func (r callerResolver) resolve(ctx context.Context, principal *shared.Principal) (*shared.User, error) {
	if principal == nil || principal.Subject == "" {
		return nil, shared.ErrMissingPrincipal
	}
	user, err := r.users.GetByExternalID(ctx, principal.Subject)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve caller: %w", err)
	}
	return user, nil
}

// UserService implements inbound.UserService
type UserService struct {
	userRepo         outbound.UserRepository
	notificationRepo outbound.NotificationRepository
	callers          callerResolver
	clock            outbound.Clock
	rules            Rules
	logger           zerolog.Logger
}

type UserServiceParams struct {
	UserRepo         outbound.UserRepository
	NotificationRepo outbound.NotificationRepository
	Clock            outbound.Clock
	Rules            Rules
	Logger           zerolog.Logger
}

// NewUserService creates a new user service
func NewUserService(params UserServiceParams) *UserService {
	return &UserService{
		userRepo:         params.UserRepo,
		notificationRepo: params.NotificationRepo,
		callers:          callerResolver{users: params.UserRepo},
		clock:            params.Clock,
		rules:            params.Rules,
		logger:           params.Logger.With().Str("component", "user_service").Logger(),
	}
}

// SyncProfile creates the caller's user on first contact and refreshes it afterwards
func (service *UserService) SyncProfile(ctx context.Context, caller *shared.Principal, req inbound.SyncProfileRequest) (*shared.User, error) {
	if caller == nil || caller.Subject == "" {
		return nil, shared.ErrMissingPrincipal
	}
	if req.Role != "" && !req.Role.Valid() {
		return nil, shared.ErrInvalidRole
	}

	now := service.clock.Now()
	user, err := service.userRepo.GetByExternalID(ctx, caller.Subject)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		role := req.Role
		if role == "" {
			role = shared.RoleClient
		}
		user = &shared.User{
			ID:         uuid.New(),
			ExternalID: caller.Subject,
			Role:       role,
			CreatedAt:  now,
		}
	case err != nil:
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	user.Email = caller.Email
	user.AvatarURL = caller.AvatarURL
	user.Name = firstNonEmpty(strings.TrimSpace(req.Name), caller.DisplayName, user.Name)
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Location != nil {
		user.Location = req.Location
	}
	if req.Categories != nil {
		user.Categories = req.Categories
	}
	if req.PushToken != "" {
		user.PushToken = req.PushToken
	}
	if req.RestaurantInfo != nil {
		user.RestaurantInfo = req.RestaurantInfo
	}
	user.UpdatedAt = now

	if err := service.userRepo.Save(ctx, user); err != nil {
		service.logger.Error().Err(err).Str("subject", caller.Subject).Msg("Failed to save profile")
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	service.logger.Info().Str("user_id", user.ID.String()).Str("role", string(user.Role)).Msg("Profile synced")
	return user, nil
}

// GetProfile returns the caller's user record
func (service *UserService) GetProfile(ctx context.Context, caller *shared.Principal) (*shared.User, error) {
	return service.callers.resolve(ctx, caller)
}

// ListNotifications returns the caller's inbox
func (service *UserService) ListNotifications(ctx context.Context, caller *shared.Principal, unreadOnly bool, limit int) ([]*notification.Notification, error) {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = service.rules.DefaultNotificationsLimit
	}
	return service.notificationRepo.ListByUser(ctx, user.ID, unreadOnly, limit)
}

// MarkNotificationRead flips the read flag of one of the caller's notifications
func (service *UserService) MarkNotificationRead(ctx context.Context, caller *shared.Principal, notificationID uuid.UUID) error {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return err
	}
	n, err := service.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != user.ID {
		return shared.ErrNotOwner
	}
	return service.notificationRepo.MarkRead(ctx, notificationID)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
