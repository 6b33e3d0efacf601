package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"marketplace-engine/internal/domain/flashdeal"
	"marketplace-engine/internal/domain/geo"
	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/domain/shared"
	"marketplace-engine/internal/ports/inbound"
	"marketplace-engine/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FlashDealService implements inbound.FlashDealService
type FlashDealService struct {
	dealRepo      outbound.FlashDealRepository
	claimRepo     outbound.ClaimRepository
	userRepo      outbound.UserRepository
	broadcastRepo outbound.BroadcastRepository
	callers       callerResolver
	notifier      notifier
	serial        serializer
	clock         outbound.Clock
	rules         Rules
	logger        zerolog.Logger
}

type FlashDealServiceParams struct {
	DealRepo         outbound.FlashDealRepository
	ClaimRepo        outbound.ClaimRepository
	UserRepo         outbound.UserRepository
	BroadcastRepo    outbound.BroadcastRepository
	NotificationRepo outbound.NotificationRepository
	Locker           outbound.Locker
	Clock            outbound.Clock
	Rules            Rules
	Logger           zerolog.Logger
}

// NewFlashDealService creates a new flash deal service
func NewFlashDealService(params FlashDealServiceParams) *FlashDealService {
	logger := params.Logger.With().Str("component", "flash_deal_service").Logger()
	return &FlashDealService{
		dealRepo:      params.DealRepo,
		claimRepo:     params.ClaimRepo,
		userRepo:      params.UserRepo,
		broadcastRepo: params.BroadcastRepo,
		callers:       callerResolver{users: params.UserRepo},
		notifier:      notifier{repo: params.NotificationRepo, clock: params.Clock, logger: logger},
		serial:        newSerializer(params.Locker, params.Rules.ConflictAttempts, logger),
		clock:         params.Clock,
		rules:         params.Rules,
		logger:        logger,
	}
}

// CreateFlashDeal publishes a deal at the calling restaurant's location
func (service *FlashDealService) CreateFlashDeal(ctx context.Context, caller *shared.Principal, req inbound.CreateFlashDealRequest) (uuid.UUID, error) {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return uuid.Nil, err
	}
	if user.Role != shared.RoleRestaurant {
		return uuid.Nil, shared.ErrRoleNotAllowed
	}
	if user.Location == nil {
		return uuid.Nil, shared.ErrLocationRequired
	}

	now := service.clock.Now()
	if !req.EndTime.After(now) {
		return uuid.Nil, shared.ErrEndTimeInPast
	}
	if err := validateItems(req.Items); err != nil {
		return uuid.Nil, err
	}

	radius := service.rules.DefaultDealRadiusKm
	if req.NotificationRadius != nil && *req.NotificationRadius > 0 {
		radius = *req.NotificationRadius
	}
	status := flashdeal.StatusActive
	if req.EndTime.Sub(now) > service.rules.ScheduleThreshold {
		status = flashdeal.StatusScheduled
	}

	deal := &flashdeal.Deal{
		ID:                 uuid.New(),
		RestaurantID:       user.ID,
		Title:              strings.TrimSpace(req.Title),
		Description:        req.Description,
		Items:              req.Items,
		DiscountPercentage: req.DiscountPercentage,
		StartTime:          now,
		EndTime:            req.EndTime.UTC(),
		Status:             status,
		Location:           *user.Location,
		NotificationRadius: radius,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := service.dealRepo.Create(ctx, deal); err != nil {
		service.logger.Error().Err(err).Str("deal_id", deal.ID.String()).Msg("Failed to create flash deal")
		return uuid.Nil, fmt.Errorf("failed to create flash deal: %w", err)
	}

	service.logger.Info().
		Str("deal_id", deal.ID.String()).
		Str("restaurant_id", user.ID.String()).
		Str("status", string(status)).
		Time("end_time", deal.EndTime).
		Msg("Flash deal created")

	// a failed fan-out is retried by the activation sweep
	if status == flashdeal.StatusActive {
		if err := service.notifyNearby(ctx, deal.ID); err != nil && !isSkip(err) {
			service.logger.Error().Err(err).Str("deal_id", deal.ID.String()).Msg("Flash deal fan-out failed")
		}
	}

	return deal.ID, nil
}

func validateItems(items []flashdeal.Item) error {
	if len(items) == 0 {
		return shared.ErrNoItems
	}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			return fmt.Errorf("%w: item name is required", shared.ErrInvalidArgument)
		}
		if _, dup := seen[it.Name]; dup {
			return fmt.Errorf("%w: duplicate item %q", shared.ErrInvalidArgument, it.Name)
		}
		seen[it.Name] = struct{}{}
		if it.DiscountedPrice < 0 || it.OriginalPrice < 0 {
			return fmt.Errorf("%w: prices must not be negative", shared.ErrInvalidArgument)
		}
		if it.Quantity != nil && *it.Quantity <= 0 {
			return shared.ErrInvalidQuantity
		}
	}
	return nil
}

// notifyNearby runs the fan-out of an active deal that has not notified yet
func (service *FlashDealService) notifyNearby(ctx context.Context, dealID uuid.UUID) error {
	return service.serial.run(ctx, dealKey(dealID), func(ctx context.Context) error {
		d, err := service.dealRepo.GetByID(ctx, dealID)
		if err != nil {
			return err
		}
		if !d.AwaitingFanOut(service.clock.Now()) {
			return errSkip
		}
		record, err := service.fanOut(ctx, d)
		if err != nil {
			return err
		}
		if err := service.dealRepo.Update(ctx, d); err != nil {
			return err
		}
		service.recordFanOut(ctx, d, record)
		return nil
	})
}

// fanOut queues the radius notifications of a deal and flags it as notified.
// The caller persists the deal and then records the returned broadcast. It
// must run inside the deal's serialization domain with a fresh copy.
func (service *FlashDealService) fanOut(ctx context.Context, deal *flashdeal.Deal) (*notification.Broadcast, error) {
	if deal.PushNotificationSent {
		return nil, nil
	}

	users, err := service.userRepo.ListReachable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reachable users: %w", err)
	}

	restaurantName := "A restaurant nearby"
	if r, err := service.userRepo.GetByID(ctx, deal.RestaurantID); err == nil {
		restaurantName = r.DisplayName()
	}
	title := fmt.Sprintf("%s: %s", restaurantName, deal.Title)
	body := fmt.Sprintf("%.0f%% off for a limited time", deal.DiscountPercentage)
	data := map[string]any{"type": string(notification.TypeFlashDeal), "reference_id": deal.ID.String()}

	var batch []*notification.Notification
	for _, u := range users {
		if u.ID == deal.RestaurantID || u.Location == nil {
			continue
		}
		distance := geo.Between(deal.Location, *u.Location)
		if distance > deal.NotificationRadius {
			continue
		}
		batch = append(batch, service.notifier.build(u.ID, notification.TypeFlashDeal, title, body, map[string]any{
			"deal_id":     deal.ID.String(),
			"distance_km": distance,
		}))
	}

	if err := service.notifier.queue(ctx, batch...); err != nil {
		return nil, fmt.Errorf("failed to queue flash deal notifications: %w", err)
	}

	now := service.clock.Now()
	deal.MarkNotified(now)
	return notification.NewRadiusBroadcast(deal.Location, deal.NotificationRadius, title, body, data, len(batch), now), nil
}

func (service *FlashDealService) recordFanOut(ctx context.Context, deal *flashdeal.Deal, record *notification.Broadcast) {
	if record == nil {
		return
	}
	if err := service.broadcastRepo.Create(ctx, record); err != nil {
		service.logger.Error().Err(err).Str("deal_id", deal.ID.String()).Msg("Failed to record broadcast")
	}

	service.logger.Info().
		Str("deal_id", deal.ID.String()).
		Int("recipients", record.SentCount).
		Float64("radius_km", deal.NotificationRadius).
		Msg("Flash deal fan-out sent")
}

// CancelDeal withdraws a deal and cancels its open claims
func (service *FlashDealService) CancelDeal(ctx context.Context, caller *shared.Principal, dealID uuid.UUID) error {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return err
	}

	var (
		cancelled *flashdeal.Deal
		affected  []*flashdeal.Claim
	)
	err = service.serial.run(ctx, dealKey(dealID), func(ctx context.Context) error {
		deal, err := service.dealRepo.GetByID(ctx, dealID)
		if err != nil {
			return err
		}
		if deal.RestaurantID != user.ID {
			return shared.ErrNotOwner
		}
		if deal.IsTerminal() {
			return shared.ErrDealClosed
		}

		now := service.clock.Now()
		deal.Status = flashdeal.StatusCancelled
		deal.UpdatedAt = now
		if err := service.dealRepo.Update(ctx, deal); err != nil {
			return err
		}

		claims, err := service.claimRepo.ListByDeal(ctx, dealID)
		if err != nil {
			return fmt.Errorf("failed to load claims: %w", err)
		}
		affected = affected[:0]
		for _, c := range claims {
			if !c.IsOpen() {
				continue
			}
			c.Status = flashdeal.ClaimCancelled
			if err := service.claimRepo.Update(ctx, c); err != nil {
				return fmt.Errorf("failed to cancel claim %s: %w", c.ID, err)
			}
			affected = append(affected, c)
		}
		cancelled = deal
		return nil
	})
	if err != nil {
		return err
	}

	batch := make([]*notification.Notification, 0, len(affected))
	for _, c := range affected {
		batch = append(batch, service.notifier.build(c.UserID, notification.TypeSystem,
			"Flash deal cancelled", fmt.Sprintf("%s was cancelled by the restaurant", cancelled.Title),
			map[string]any{"deal_id": cancelled.ID.String(), "claim_id": c.ID.String()}))
	}
	service.notifier.send(ctx, batch...)

	service.logger.Info().Str("deal_id", dealID.String()).Int("cancelled_claims", len(affected)).Msg("Flash deal cancelled")
	return nil
}

// IncrementViews counts a view; a missing deal is ignored
func (service *FlashDealService) IncrementViews(ctx context.Context, dealID uuid.UUID) error {
	return service.serial.run(ctx, dealKey(dealID), func(ctx context.Context) error {
		deal, err := service.dealRepo.GetByID(ctx, dealID)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		deal.ViewCount++
		return service.dealRepo.Update(ctx, deal)
	})
}

// GetActiveDeals lists running deals, soonest end first
func (service *FlashDealService) GetActiveDeals(ctx context.Context, limit int) ([]*inbound.DealListing, error) {
	deals, err := service.openDeals(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(deals, func(i, j int) bool { return deals[i].EndTime.Before(deals[j].EndTime) })
	if limit > 0 && len(deals) > limit {
		deals = deals[:limit]
	}

	users := newUserCache(service.userRepo)
	now := service.clock.Now()
	out := make([]*inbound.DealListing, 0, len(deals))
	for _, d := range deals {
		out = append(out, &inbound.DealListing{
			Deal:            d,
			Restaurant:      shared.SummarizeRestaurant(users.get(ctx, d.RestaurantID)),
			TimeRemainingMs: millis(d.TimeRemaining(now)),
		})
	}
	return out, nil
}

// GetNearbyDeals lists running deals within the radius, nearest first
func (service *FlashDealService) GetNearbyDeals(ctx context.Context, req inbound.NearbyRequest) ([]*inbound.NearbyDeal, error) {
	radius := req.RadiusKm
	if radius <= 0 {
		radius = service.rules.DealSearchRadiusKm
	}

	deals, err := service.openDeals(ctx)
	if err != nil {
		return nil, err
	}

	origin := shared.Location{Lat: req.Lat, Lng: req.Lng}
	users := newUserCache(service.userRepo)
	now := service.clock.Now()
	out := make([]*inbound.NearbyDeal, 0)
	for _, d := range deals {
		distance := geo.Between(origin, d.Location)
		if distance > radius {
			continue
		}
		out = append(out, &inbound.NearbyDeal{
			DealListing: &inbound.DealListing{
				Deal:            d,
				Restaurant:      shared.SummarizeRestaurant(users.get(ctx, d.RestaurantID)),
				TimeRemainingMs: millis(d.TimeRemaining(now)),
			},
			DistanceKm: distance,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	return out, nil
}

// openDeals returns active deals whose window has not closed yet
func (service *FlashDealService) openDeals(ctx context.Context) ([]*flashdeal.Deal, error) {
	deals, err := service.dealRepo.ListByStatus(ctx, flashdeal.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	now := service.clock.Now()
	open := deals[:0]
	for _, d := range deals {
		if !d.HasEnded(now) {
			open = append(open, d)
		}
	}
	return open, nil
}

// GetDeal returns a deal with its restaurant and redeemed-claim count
func (service *FlashDealService) GetDeal(ctx context.Context, dealID uuid.UUID) (*inbound.DealDetail, error) {
	deal, err := service.dealRepo.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}
	claims, err := service.claimRepo.ListByDeal(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("failed to load claims: %w", err)
	}
	confirmed := 0
	for _, c := range claims {
		if c.Status == flashdeal.ClaimConfirmed || c.Status == flashdeal.ClaimPickedUp {
			confirmed++
		}
	}

	var restaurant *shared.RestaurantSummary
	if r, err := service.userRepo.GetByID(ctx, deal.RestaurantID); err == nil {
		restaurant = shared.SummarizeRestaurant(r)
		restaurant.Phone = r.Phone
		restaurant.Location = r.Location
	}

	return &inbound.DealDetail{
		Deal:            deal,
		Restaurant:      restaurant,
		ConfirmedClaims: confirmed,
		TimeRemainingMs: millis(deal.TimeRemaining(service.clock.Now())),
	}, nil
}

// GetMyDeals lists the calling restaurant's deals with claim stats, newest first
func (service *FlashDealService) GetMyDeals(ctx context.Context, caller *shared.Principal) ([]*inbound.MyDeal, error) {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	if user.Role != shared.RoleRestaurant {
		return nil, shared.ErrRoleNotAllowed
	}

	deals, err := service.dealRepo.ListByRestaurant(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	sort.SliceStable(deals, func(i, j int) bool { return deals[i].CreatedAt.After(deals[j].CreatedAt) })

	out := make([]*inbound.MyDeal, 0, len(deals))
	for _, d := range deals {
		claims, err := service.claimRepo.ListByDeal(ctx, d.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load claims: %w", err)
		}
		out = append(out, &inbound.MyDeal{Deal: d, Stats: claimStats(claims)})
	}
	return out, nil
}

func claimStats(claims []*flashdeal.Claim) inbound.DealStats {
	stats := inbound.DealStats{TotalClaims: len(claims)}
	for _, c := range claims {
		switch c.Status {
		case flashdeal.ClaimConfirmed:
			stats.ConfirmedClaims++
		case flashdeal.ClaimPickedUp:
			stats.PickedUpClaims++
			stats.Revenue += c.TotalAmount
		}
	}
	return stats
}

// GetMyClaims lists the caller's claims with their deals, newest first
func (service *FlashDealService) GetMyClaims(ctx context.Context, caller *shared.Principal) ([]*inbound.MyClaim, error) {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	claims, err := service.claimRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	sort.SliceStable(claims, func(i, j int) bool { return claims[i].CreatedAt.After(claims[j].CreatedAt) })

	users := newUserCache(service.userRepo)
	out := make([]*inbound.MyClaim, 0, len(claims))
	for _, c := range claims {
		view := &inbound.MyClaim{Claim: c}
		if d, err := service.dealRepo.GetByID(ctx, c.DealID); err == nil {
			view.Deal = &inbound.DealSummary{Title: d.Title, EndTime: d.EndTime}
			if r := users.get(ctx, d.RestaurantID); r != nil {
				summary := shared.SummarizeRestaurant(r)
				summary.Phone = r.Phone
				summary.Location = r.Location
				view.Restaurant = summary
			}
		}
		out = append(out, view)
	}
	return out, nil
}
