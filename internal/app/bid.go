package app

import (
	"context"
	"fmt"

	"marketplace-engine/internal/domain/auction"
	"marketplace-engine/internal/domain/bid"
	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/domain/shared"
	"marketplace-engine/internal/ports/inbound"

	"github.com/google/uuid"
)

// PlaceBid submits the caller's offer, or revises their active one. The
// comparison, best-bid update and deadline extension all run against one
// snapshot of the auction inside its serialization domain.
func (service *AuctionService) PlaceBid(ctx context.Context, caller *shared.Principal, req inbound.PlaceBidRequest) (*bid.Bid, error) {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return nil, err
	}

	service.logger.Info().
		Str("auction_id", req.AuctionID.String()).
		Str("user_id", user.ID.String()).
		Float64("amount", req.Amount).
		Msg("Attempting to place bid")

	if req.Amount <= 0 {
		return nil, shared.ErrInvalidAmount
	}

	var (
		placed    *bid.Bid
		snapshot  *auction.Auction
		outbid    *uuid.UUID
		extended  bool
		createdID uuid.UUID
	)
	err = service.serial.run(ctx, auctionKey(req.AuctionID), func(ctx context.Context) error {
		outbid, extended = nil, false

		a, err := service.auctionRepo.GetByID(ctx, req.AuctionID)
		if err != nil {
			return err
		}

		now := service.clock.Now()
		if !a.IsActive() {
			return shared.ErrAuctionNotActive
		}
		if a.HasEnded(now) {
			return shared.ErrAuctionEnded
		}
		if a.ClientID == user.ID {
			return shared.ErrOwnerCannotBid
		}
		if user.Role != shared.RoleHandyman {
			return shared.ErrRoleNotAllowed
		}

		ordering := a.Ordering()
		current := a.CurrentAmount()
		if !ordering.Beats(req.Amount, current) {
			return &shared.BidError{Bound: current, Ascending: ordering.Ascending()}
		}

		existing, err := service.bidRepo.FindActive(ctx, a.ID, user.ID)
		if err != nil {
			return fmt.Errorf("failed to look up existing bid: %w", err)
		}
		// the bid row is written before the auction, so a failed attempt never
		// leaves a best bid without its record
		if existing == nil || existing.ID == createdID {
			a.TotalBids++
		}

		if existing != nil {
			existing.Revise(req.Amount, req.Message, req.EstimatedTime, now)
			if err := service.bidRepo.Update(ctx, existing); err != nil {
				return fmt.Errorf("failed to revise bid: %w", err)
			}
			placed = existing
		} else {
			placed = &bid.Bid{
				ID:            uuid.New(),
				AuctionID:     a.ID,
				BidderID:      user.ID,
				Amount:        req.Amount,
				Currency:      a.InitialOffer.Currency,
				Message:       req.Message,
				EstimatedTime: req.EstimatedTime,
				Status:        bid.StatusActive,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if err := service.bidRepo.Create(ctx, placed); err != nil {
				return fmt.Errorf("failed to create bid: %w", err)
			}
			createdID = placed.ID
		}

		if a.CurrentBestBid == nil || ordering.Beats(req.Amount, a.CurrentBestBid.Amount) {
			if a.CurrentBestBid != nil && a.CurrentBestBid.BidderID != user.ID {
				previous := a.CurrentBestBid.BidderID
				outbid = &previous
			}
			a.CurrentBestBid = &auction.BestBid{Amount: req.Amount, BidderID: user.ID, BidTime: now}
		}
		extended = a.MaybeExtend(now)
		a.UpdatedAt = now

		if err := service.auctionRepo.Update(ctx, a); err != nil {
			return err
		}
		snapshot = a
		return nil
	})
	if err != nil {
		service.logger.Warn().Err(err).Str("auction_id", req.AuctionID.String()).Str("user_id", user.ID.String()).Msg("Bid rejected")
		return nil, err
	}

	data := map[string]any{
		"auction_id": snapshot.ID.String(),
		"bid_id":     placed.ID.String(),
		"bid_amount": placed.Amount,
	}
	if outbid != nil {
		service.notifier.notify(ctx, *outbid, notification.TypeAuctionOutbid,
			"You have been outbid", fmt.Sprintf("A better offer was placed on %s", snapshot.Title), data)
	}
	service.notifier.notify(ctx, snapshot.ClientID, notification.TypeAuctionNewBid,
		"New offer on your auction", fmt.Sprintf("%s offered %.2f %s", user.Name, placed.Amount, placed.Currency), data)

	service.logger.Info().
		Str("bid_id", placed.ID.String()).
		Str("auction_id", snapshot.ID.String()).
		Str("user_id", user.ID.String()).
		Float64("amount", placed.Amount).
		Bool("extended", extended).
		Time("end_time", snapshot.Config.EndTime).
		Msg("Bid placed successfully")

	return placed, nil
}
