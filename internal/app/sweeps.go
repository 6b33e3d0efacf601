package app

import (
	"context"
	"fmt"

	"marketplace-engine/internal/domain/flashdeal"
	"marketplace-engine/internal/ports/inbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ActivateScheduledDeals opens scheduled deals whose window has started and
// runs their fan-out. A failed fan-out never holds back the activation; active
// deals still owing their fan-out are retried on every run. A deal already
// notified is not notified again.
func (service *FlashDealService) ActivateScheduledDeals(ctx context.Context) (inbound.SweepResult, error) {
	var result inbound.SweepResult

	scheduled, err := service.dealRepo.ListByStatus(ctx, flashdeal.StatusScheduled)
	if err != nil {
		return result, fmt.Errorf("failed to list scheduled deals: %w", err)
	}

	for _, candidate := range scheduled {
		if !candidate.DueForActivation(service.clock.Now()) {
			continue
		}
		err := service.serial.run(ctx, dealKey(candidate.ID), func(ctx context.Context) error {
			d, err := service.dealRepo.GetByID(ctx, candidate.ID)
			if err != nil {
				return err
			}
			now := service.clock.Now()
			if !d.DueForActivation(now) {
				return errSkip
			}
			d.Status = flashdeal.StatusActive
			d.UpdatedAt = now
			record, fanOutErr := service.fanOut(ctx, d)
			if err := service.dealRepo.Update(ctx, d); err != nil {
				return err
			}
			if fanOutErr != nil {
				// the deal stays unnotified and is picked up again below
				service.logger.Error().Err(fanOutErr).Str("deal_id", d.ID.String()).Msg("Fan-out after activation failed")
				return nil
			}
			service.recordFanOut(ctx, d, record)
			return nil
		})
		tally(&result, err, service.logger, "deal_id", candidate.ID, "Failed to activate flash deal")
	}

	active, err := service.dealRepo.ListByStatus(ctx, flashdeal.StatusActive)
	if err != nil {
		return result, fmt.Errorf("failed to list active deals: %w", err)
	}
	for _, candidate := range active {
		if !candidate.AwaitingFanOut(service.clock.Now()) {
			continue
		}
		err := service.notifyNearby(ctx, candidate.ID)
		tally(&result, err, service.logger, "deal_id", candidate.ID, "Failed to retry flash deal fan-out")
	}

	if result.Processed > 0 || result.Failed > 0 {
		service.logger.Info().Int("activated", result.Processed).Int("failed", result.Failed).Msg("Flash deal activation sweep finished")
	}
	return result, nil
}

// ExpireDeals closes active deals whose window has ended and expires their
// pending claims. Claims are expired before the deal so a failed step leaves
// the deal active for the next sweep.
func (service *FlashDealService) ExpireDeals(ctx context.Context) (inbound.SweepResult, error) {
	var result inbound.SweepResult

	active, err := service.dealRepo.ListByStatus(ctx, flashdeal.StatusActive)
	if err != nil {
		return result, fmt.Errorf("failed to list active deals: %w", err)
	}

	for _, candidate := range active {
		if !candidate.DueForExpiry(service.clock.Now()) {
			continue
		}
		expiredClaims := 0
		err := service.serial.run(ctx, dealKey(candidate.ID), func(ctx context.Context) error {
			d, err := service.dealRepo.GetByID(ctx, candidate.ID)
			if err != nil {
				return err
			}
			now := service.clock.Now()
			if !d.DueForExpiry(now) {
				return errSkip
			}

			claims, err := service.claimRepo.ListByDeal(ctx, d.ID)
			if err != nil {
				return fmt.Errorf("failed to load claims: %w", err)
			}
			for _, c := range claims {
				if c.Status != flashdeal.ClaimPending {
					continue
				}
				c.Status = flashdeal.ClaimExpired
				if err := service.claimRepo.Update(ctx, c); err != nil {
					return fmt.Errorf("failed to expire claim %s: %w", c.ID, err)
				}
				expiredClaims++
			}

			d.Status = flashdeal.StatusExpired
			d.UpdatedAt = now
			return service.dealRepo.Update(ctx, d)
		})
		if err == nil {
			service.logger.Debug().Str("deal_id", candidate.ID.String()).Int("expired_claims", expiredClaims).Msg("Flash deal expired")
		}
		tally(&result, err, service.logger, "deal_id", candidate.ID, "Failed to expire flash deal")
	}

	if result.Processed > 0 || result.Failed > 0 {
		service.logger.Info().Int("expired", result.Processed).Int("failed", result.Failed).Msg("Flash deal expiry sweep finished")
	}
	return result, nil
}

// tally counts one sweep step; skipped steps count as neither outcome
func tally(result *inbound.SweepResult, err error, logger zerolog.Logger, field string, id uuid.UUID, msg string) {
	switch {
	case err == nil:
		result.Processed++
	case isSkip(err):
	default:
		result.Failed++
		logger.Error().Err(err).Str(field, id.String()).Msg(msg)
	}
}

// Sweeps runs every periodic transition of the engine
type Sweeps struct {
	auctions *AuctionService
	deals    *FlashDealService
}

// NewSweeps combines the auction and flash deal sweeps
func NewSweeps(auctions *AuctionService, deals *FlashDealService) *Sweeps {
	return &Sweeps{auctions: auctions, deals: deals}
}

func (sweeps *Sweeps) ActivateScheduledDeals(ctx context.Context) (inbound.SweepResult, error) {
	return sweeps.deals.ActivateScheduledDeals(ctx)
}

func (sweeps *Sweeps) ExpireDeals(ctx context.Context) (inbound.SweepResult, error) {
	return sweeps.deals.ExpireDeals(ctx)
}

func (sweeps *Sweeps) ExpireAuctions(ctx context.Context) (inbound.SweepResult, error) {
	return sweeps.auctions.ExpireAuctions(ctx)
}

var _ inbound.SweepService = (*Sweeps)(nil)
