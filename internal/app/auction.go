package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"marketplace-engine/internal/domain/auction"
	"marketplace-engine/internal/domain/bid"
	"marketplace-engine/internal/domain/geo"
	"marketplace-engine/internal/domain/job"
	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/domain/shared"
	"marketplace-engine/internal/ports/inbound"
	"marketplace-engine/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuctionService implements inbound.AuctionService
type AuctionService struct {
	auctionRepo outbound.AuctionRepository
	bidRepo     outbound.BidRepository
	jobRepo     outbound.JobRepository
	userRepo    outbound.UserRepository
	callers     callerResolver
	notifier    notifier
	serial      serializer
	clock       outbound.Clock
	rules       Rules
	logger      zerolog.Logger
}

type AuctionServiceParams struct {
	AuctionRepo      outbound.AuctionRepository
	BidRepo          outbound.BidRepository
	JobRepo          outbound.JobRepository
	UserRepo         outbound.UserRepository
	NotificationRepo outbound.NotificationRepository
	Locker           outbound.Locker
	Clock            outbound.Clock
	Rules            Rules
	Logger           zerolog.Logger
}

// NewAuctionService creates a new auction service
func NewAuctionService(params AuctionServiceParams) *AuctionService {
	logger := params.Logger.With().Str("component", "auction_service").Logger()
	return &AuctionService{
		auctionRepo: params.AuctionRepo,
		bidRepo:     params.BidRepo,
		jobRepo:     params.JobRepo,
		userRepo:    params.UserRepo,
		callers:     callerResolver{users: params.UserRepo},
		notifier:    notifier{repo: params.NotificationRepo, clock: params.Clock, logger: logger},
		serial:      newSerializer(params.Locker, params.Rules.ConflictAttempts, logger),
		clock:       params.Clock,
		rules:       params.Rules,
		logger:      logger,
	}
}

// CreateAuction opens a new auction owned by the caller
func (service *AuctionService) CreateAuction(ctx context.Context, caller *shared.Principal, req inbound.CreateAuctionRequest) (uuid.UUID, error) {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return uuid.Nil, err
	}

	service.logger.Info().
		Str("client_id", user.ID.String()).
		Str("category", req.Category).
		Float64("initial_offer", req.InitialOffer.Amount).
		Msg("Attempting to create auction")

	if strings.TrimSpace(req.Title) == "" {
		return uuid.Nil, fmt.Errorf("%w: title is required", shared.ErrInvalidArgument)
	}
	if strings.TrimSpace(req.Category) == "" {
		return uuid.Nil, fmt.Errorf("%w: category is required", shared.ErrInvalidArgument)
	}
	if req.InitialOffer.Amount <= 0 {
		return uuid.Nil, shared.ErrInvalidInitialOffer
	}
	if req.DurationHours != nil && *req.DurationHours < 0 {
		return uuid.Nil, shared.ErrInvalidDuration
	}
	if req.Type != "" && !req.Type.Valid() {
		return uuid.Nil, fmt.Errorf("%w: unknown auction type %q", shared.ErrInvalidArgument, req.Type)
	}

	hours := service.rules.DefaultDurationHours
	if req.DurationHours != nil && *req.DurationHours > 0 {
		hours = *req.DurationHours
	}
	typ := req.Type
	if typ == "" {
		typ = auction.TypeReverse
	}
	offer := req.InitialOffer
	if offer.Currency == "" {
		offer.Currency = service.rules.DefaultCurrency
	}

	now := service.clock.Now()
	newAuction := &auction.Auction{
		ID:           uuid.New(),
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Category:     req.Category,
		InitialOffer: offer,
		ClientID:     user.ID,
		Status:       auction.StatusActive,
		Location:     req.Location,
		Images:       req.Images,
		IsUrgent:     req.IsUrgent,
		Config: auction.Config{
			EndTime:           now.Add(time.Duration(hours * float64(time.Hour))),
			Type:              typ,
			MinBidStep:        offer.Amount * 0.01,
			AutoExtendMinutes: service.rules.AutoExtendMinutes,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.auctionRepo.Create(ctx, newAuction); err != nil {
		service.logger.Error().Err(err).Str("auction_id", newAuction.ID.String()).Msg("Failed to create auction")
		return uuid.Nil, fmt.Errorf("failed to create auction: %w", err)
	}

	service.notifyJobMatch(ctx, newAuction)

	service.logger.Info().
		Str("auction_id", newAuction.ID.String()).
		Str("type", string(typ)).
		Time("end_time", newAuction.Config.EndTime).
		Msg("Auction created successfully")

	return newAuction.ID, nil
}

// notifyJobMatch tells handymen working in the auction's category about it
func (service *AuctionService) notifyJobMatch(ctx context.Context, a *auction.Auction) {
	handymen, err := service.userRepo.ListByRole(ctx, shared.RoleHandyman)
	if err != nil {
		service.logger.Error().Err(err).Str("auction_id", a.ID.String()).Msg("Failed to list handymen for job match")
		return
	}

	var batch []*notification.Notification
	for _, h := range handymen {
		if h.ID == a.ClientID || !h.WorksIn(a.Category) || !h.HasPushEndpoint() {
			continue
		}
		batch = append(batch, service.notifier.build(h.ID, notification.TypeJobMatch,
			"New job in your category",
			fmt.Sprintf("%s (%s) is open for offers", a.Title, a.Category),
			map[string]any{"auction_id": a.ID.String(), "category": a.Category, "initial_offer": a.InitialOffer.Amount},
		))
	}
	service.notifier.send(ctx, batch...)
}

// SelectWinner closes the auction in favour of winnerID and creates the job
func (service *AuctionService) SelectWinner(ctx context.Context, caller *shared.Principal, req inbound.SelectWinnerRequest) (uuid.UUID, error) {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return uuid.Nil, err
	}

	var (
		closed  *auction.Auction
		settled []*bid.Bid
		newJob  *job.Job
	)
	err = service.serial.run(ctx, auctionKey(req.AuctionID), func(ctx context.Context) error {
		a, err := service.auctionRepo.GetByID(ctx, req.AuctionID)
		if err != nil {
			return err
		}
		if a.ClientID != user.ID {
			return shared.ErrNotOwner
		}
		if !a.IsActive() {
			return shared.ErrAuctionNotActive
		}

		bids, err := service.bidRepo.ListByAuction(ctx, a.ID)
		if err != nil {
			return fmt.Errorf("failed to load bids: %w", err)
		}
		var winning *bid.Bid
		for _, b := range bids {
			if b.BidderID == req.WinnerID && b.IsActive() {
				winning = b
				break
			}
		}
		if winning == nil {
			return shared.ErrWinnerHasNoBid
		}

		now := service.clock.Now()
		a.Close(req.WinnerID, now)
		if err := service.auctionRepo.Update(ctx, a); err != nil {
			return err
		}

		settled = settled[:0]
		for _, b := range bids {
			if !b.IsActive() {
				continue
			}
			b.Settle(req.WinnerID, now)
			if err := service.bidRepo.Update(ctx, b); err != nil {
				return fmt.Errorf("failed to settle bid %s: %w", b.ID, err)
			}
			settled = append(settled, b)
		}

		auctionID := a.ID
		newJob = &job.Job{
			ID:          uuid.New(),
			Title:       a.Title,
			Description: a.Description,
			Category:    a.Category,
			Budget:      job.Budget{Min: winning.Amount, Max: winning.Amount, Currency: a.InitialOffer.Currency},
			ClientID:    a.ClientID,
			HandymanID:  req.WinnerID,
			Status:      job.StatusAssigned,
			Location:    a.Location,
			AuctionID:   &auctionID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := service.jobRepo.Create(ctx, newJob); err != nil {
			return fmt.Errorf("failed to create job: %w", err)
		}
		closed = a
		return nil
	})
	if err != nil {
		service.logger.Warn().Err(err).Str("auction_id", req.AuctionID.String()).Msg("Failed to select winner")
		return uuid.Nil, err
	}

	batch := make([]*notification.Notification, 0, len(settled))
	for _, b := range settled {
		data := map[string]any{"auction_id": closed.ID.String(), "job_id": newJob.ID.String()}
		if b.Status == bid.StatusWon {
			batch = append(batch, service.notifier.build(b.BidderID, notification.TypeAuctionWon,
				"You won the auction", fmt.Sprintf("Your offer for %s was selected", closed.Title), data))
		} else {
			batch = append(batch, service.notifier.build(b.BidderID, notification.TypeAuctionLost,
				"Auction closed", fmt.Sprintf("Another offer was selected for %s", closed.Title), data))
		}
	}
	service.notifier.send(ctx, batch...)

	service.logger.Info().
		Str("auction_id", closed.ID.String()).
		Str("winner_id", req.WinnerID.String()).
		Str("job_id", newJob.ID.String()).
		Float64("final_price", newJob.Budget.Max).
		Msg("Auction closed with winner")

	return newJob.ID, nil
}

// CancelAuction withdraws an active auction and every bid on it
func (service *AuctionService) CancelAuction(ctx context.Context, caller *shared.Principal, auctionID uuid.UUID) error {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return err
	}

	var (
		cancelled *auction.Auction
		withdrawn []*bid.Bid
	)
	err = service.serial.run(ctx, auctionKey(auctionID), func(ctx context.Context) error {
		a, err := service.auctionRepo.GetByID(ctx, auctionID)
		if err != nil {
			return err
		}
		if a.ClientID != user.ID {
			return shared.ErrNotOwner
		}
		if !a.IsActive() {
			return shared.ErrAuctionNotActive
		}

		now := service.clock.Now()
		a.Cancel(now)
		if err := service.auctionRepo.Update(ctx, a); err != nil {
			return err
		}

		bids, err := service.bidRepo.ListByAuction(ctx, a.ID)
		if err != nil {
			return fmt.Errorf("failed to load bids: %w", err)
		}
		withdrawn = withdrawn[:0]
		for _, b := range bids {
			if !b.IsActive() {
				continue
			}
			b.Withdraw(now)
			if err := service.bidRepo.Update(ctx, b); err != nil {
				return fmt.Errorf("failed to withdraw bid %s: %w", b.ID, err)
			}
			withdrawn = append(withdrawn, b)
		}
		cancelled = a
		return nil
	})
	if err != nil {
		return err
	}

	batch := make([]*notification.Notification, 0, len(withdrawn))
	for _, b := range withdrawn {
		batch = append(batch, service.notifier.build(b.BidderID, notification.TypeSystem,
			"Auction cancelled", fmt.Sprintf("%s was cancelled by the client", cancelled.Title),
			map[string]any{"auction_id": cancelled.ID.String()}))
	}
	service.notifier.send(ctx, batch...)

	service.logger.Info().Str("auction_id", auctionID.String()).Int("withdrawn_bids", len(withdrawn)).Msg("Auction cancelled")
	return nil
}

// IncrementViews counts a view; a missing auction is ignored
func (service *AuctionService) IncrementViews(ctx context.Context, auctionID uuid.UUID) error {
	return service.serial.run(ctx, auctionKey(auctionID), func(ctx context.Context) error {
		a, err := service.auctionRepo.GetByID(ctx, auctionID)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		a.ViewCount++
		return service.auctionRepo.Update(ctx, a)
	})
}

// ExpireAuctions closes active auctions whose deadline passed without a single bid
func (service *AuctionService) ExpireAuctions(ctx context.Context) (inbound.SweepResult, error) {
	var result inbound.SweepResult

	active, err := service.auctionRepo.ListByStatus(ctx, auction.StatusActive)
	if err != nil {
		return result, fmt.Errorf("failed to list active auctions: %w", err)
	}

	now := service.clock.Now()
	for _, candidate := range active {
		if !expirable(candidate, now) {
			continue
		}
		err := service.serial.run(ctx, auctionKey(candidate.ID), func(ctx context.Context) error {
			a, err := service.auctionRepo.GetByID(ctx, candidate.ID)
			if err != nil {
				return err
			}
			if !expirable(a, service.clock.Now()) {
				return errSkip
			}
			a.Expire(service.clock.Now())
			return service.auctionRepo.Update(ctx, a)
		})
		tally(&result, err, service.logger, "auction_id", candidate.ID, "Failed to expire auction")
	}

	if result.Processed > 0 || result.Failed > 0 {
		service.logger.Info().Int("expired", result.Processed).Int("failed", result.Failed).Msg("Auction expiry sweep finished")
	}
	return result, nil
}

func expirable(a *auction.Auction, now time.Time) bool {
	return a.IsActive() && !a.Config.EndTime.After(now) && a.TotalBids == 0
}

// GetActiveAuctions lists open auctions, soonest deadline first
func (service *AuctionService) GetActiveAuctions(ctx context.Context, req inbound.ListAuctionsRequest) ([]*inbound.AuctionListing, error) {
	auctions, err := service.auctionRepo.ListByStatus(ctx, auction.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list auctions: %w", err)
	}

	filtered := auctions[:0]
	for _, a := range auctions {
		if req.Category == "" || a.Category == req.Category {
			filtered = append(filtered, a)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Config.EndTime.Before(filtered[j].Config.EndTime)
	})
	if req.Limit > 0 && len(filtered) > req.Limit {
		filtered = filtered[:req.Limit]
	}

	now := service.clock.Now()
	users := newUserCache(service.userRepo)
	listings := make([]*inbound.AuctionListing, 0, len(filtered))
	for _, a := range filtered {
		listings = append(listings, &inbound.AuctionListing{
			Auction:         a,
			Client:          shared.Summarize(users.get(ctx, a.ClientID)),
			BidCount:        a.TotalBids,
			TimeRemainingMs: millis(a.TimeRemaining(now)),
		})
	}
	return listings, nil
}

// GetAuction returns an auction with its bids ranked best first
func (service *AuctionService) GetAuction(ctx context.Context, auctionID uuid.UUID) (*inbound.AuctionDetail, error) {
	a, err := service.auctionRepo.GetByID(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	bids, err := service.bidRepo.ListByAuction(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bids: %w", err)
	}

	ordering := a.Ordering()
	sort.SliceStable(bids, func(i, j int) bool {
		return auction.Better(ordering, bids[i].Amount, bids[j].Amount)
	})

	users := newUserCache(service.userRepo)
	views := make([]*inbound.BidView, 0, len(bids))
	for _, b := range bids {
		views = append(views, &inbound.BidView{Bid: b, Bidder: bidderSummary(users.get(ctx, b.BidderID))})
	}

	client := users.get(ctx, a.ClientID)
	summary := shared.Summarize(client)
	if summary != nil {
		summary.Rating = client.Rating
	}

	return &inbound.AuctionDetail{
		Auction:         a,
		Client:          summary,
		Bids:            views,
		TimeRemainingMs: millis(a.TimeRemaining(service.clock.Now())),
	}, nil
}

// GetNearbyAuctions lists active auctions within the radius, nearest first
func (service *AuctionService) GetNearbyAuctions(ctx context.Context, req inbound.NearbyRequest) ([]*inbound.NearbyAuction, error) {
	radius := req.RadiusKm
	if radius <= 0 {
		radius = service.rules.AuctionSearchRadiusKm
	}

	auctions, err := service.auctionRepo.ListByStatus(ctx, auction.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list auctions: %w", err)
	}

	origin := shared.Location{Lat: req.Lat, Lng: req.Lng}
	nearby := make([]*inbound.NearbyAuction, 0)
	for _, a := range auctions {
		d := geo.Between(origin, a.Location)
		if d <= radius {
			nearby = append(nearby, &inbound.NearbyAuction{Auction: a, DistanceKm: d})
		}
	}
	sort.SliceStable(nearby, func(i, j int) bool { return nearby[i].DistanceKm < nearby[j].DistanceKm })
	return nearby, nil
}

// GetMyAuctions lists the caller's auctions, newest first
func (service *AuctionService) GetMyAuctions(ctx context.Context, caller *shared.Principal) ([]*auction.Auction, error) {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	auctions, err := service.auctionRepo.ListByClient(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list auctions: %w", err)
	}
	sort.SliceStable(auctions, func(i, j int) bool { return auctions[i].CreatedAt.After(auctions[j].CreatedAt) })
	return auctions, nil
}

// GetMyBids lists the caller's bids with their auctions, newest first
func (service *AuctionService) GetMyBids(ctx context.Context, caller *shared.Principal) ([]*inbound.MyBid, error) {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	bids, err := service.bidRepo.ListByBidder(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	sort.SliceStable(bids, func(i, j int) bool { return bids[i].CreatedAt.After(bids[j].CreatedAt) })

	out := make([]*inbound.MyBid, 0, len(bids))
	for _, b := range bids {
		view := &inbound.MyBid{Bid: b}
		if a, err := service.auctionRepo.GetByID(ctx, b.AuctionID); err == nil {
			view.Auction = &inbound.AuctionSummary{
				Title:          a.Title,
				Status:         a.Status,
				EndTime:        a.Config.EndTime,
				CurrentBestBid: a.CurrentBestBid,
			}
		}
		out = append(out, view)
	}
	return out, nil
}

func bidderSummary(u *shared.User) *shared.UserSummary {
	s := shared.Summarize(u)
	if s == nil {
		return nil
	}
	completed := u.CompletedJobs
	s.Rating = u.Rating
	s.CompletedJobs = &completed
	return s
}
