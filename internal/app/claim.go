package app

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"marketplace-engine/internal/domain/flashdeal"
	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/domain/shared"
	"marketplace-engine/internal/ports/inbound"

	"github.com/google/uuid"
)

// ClaimDeal reserves units of the requested items. The capacity check and the
// reservation happen against one snapshot of the deal and its claims.
func (service *FlashDealService) ClaimDeal(ctx context.Context, caller *shared.Principal, req inbound.ClaimDealRequest) (*inbound.ClaimReceipt, error) {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, shared.ErrNoItems
	}
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, shared.ErrInvalidQuantity
		}
	}

	service.logger.Info().
		Str("deal_id", req.DealID.String()).
		Str("user_id", user.ID.String()).
		Int("lines", len(req.Items)).
		Msg("Attempting to claim flash deal")

	var (
		claim *flashdeal.Claim
		deal  *flashdeal.Deal
	)
	err = service.serial.run(ctx, dealKey(req.DealID), func(ctx context.Context) error {
		d, err := service.dealRepo.GetByID(ctx, req.DealID)
		if err != nil {
			return err
		}

		now := service.clock.Now()
		if !d.IsActive() {
			return shared.ErrDealNotActive
		}
		if d.HasEnded(now) {
			return shared.ErrDealEnded
		}

		existing, err := service.claimRepo.ListByDeal(ctx, d.ID)
		if err != nil {
			return fmt.Errorf("failed to load claims: %w", err)
		}

		requested := make(map[string]int, len(req.Items))
		items := make([]flashdeal.ClaimItem, 0, len(req.Items))
		total := 0.0
		for _, line := range req.Items {
			item, ok := d.Item(line.Name)
			if !ok {
				return fmt.Errorf("%w: %q", shared.ErrDealItemNotFound, line.Name)
			}
			if item.Quantity != nil {
				held := flashdeal.ClaimedQuantity(existing, item.Name) + requested[item.Name]
				if held+line.Quantity > *item.Quantity {
					remaining := *item.Quantity - held
					if remaining < 0 {
						remaining = 0
					}
					return &shared.CapacityError{Item: item.Name, Remaining: remaining}
				}
			}
			requested[item.Name] += line.Quantity
			items = append(items, flashdeal.ClaimItem{Name: item.Name, Quantity: line.Quantity, Price: item.DiscountedPrice})
			total += item.DiscountedPrice * float64(line.Quantity)
		}

		code, err := uniquePickupCode(existing)
		if err != nil {
			return err
		}

		d.ClaimCount++
		d.UpdatedAt = now
		if err := service.dealRepo.Update(ctx, d); err != nil {
			return err
		}

		c := &flashdeal.Claim{
			ID:          uuid.New(),
			DealID:      d.ID,
			UserID:      user.ID,
			Items:       items,
			TotalAmount: total,
			Status:      flashdeal.ClaimPending,
			PickupCode:  code,
			CreatedAt:   now,
		}
		if err := service.claimRepo.Create(ctx, c); err != nil {
			return fmt.Errorf("failed to create claim: %w", err)
		}
		claim, deal = c, d
		return nil
	})
	if err != nil {
		service.logger.Warn().Err(err).Str("deal_id", req.DealID.String()).Str("user_id", user.ID.String()).Msg("Claim rejected")
		return nil, err
	}

	service.notifier.notify(ctx, deal.RestaurantID, notification.TypeFlashDealClaimed,
		"New flash deal claim", fmt.Sprintf("%s claimed %s", user.Name, deal.Title),
		map[string]any{"deal_id": deal.ID.String(), "claim_id": claim.ID.String(), "total_amount": claim.TotalAmount})

	service.logger.Info().
		Str("claim_id", claim.ID.String()).
		Str("deal_id", deal.ID.String()).
		Str("user_id", user.ID.String()).
		Float64("total_amount", claim.TotalAmount).
		Msg("Flash deal claimed successfully")

	return &inbound.ClaimReceipt{ClaimID: claim.ID, PickupCode: claim.PickupCode, TotalAmount: claim.TotalAmount}, nil
}

// uniquePickupCode draws codes until one differs from every code already issued for the deal
func uniquePickupCode(existing []*flashdeal.Claim) (string, error) {
	taken := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		taken[c.PickupCode] = struct{}{}
	}
	for {
		code, err := flashdeal.NewPickupCode()
		if err != nil {
			return "", err
		}
		if _, dup := taken[code]; !dup {
			return code, nil
		}
	}
}

// ConfirmClaim acknowledges a pending claim on behalf of the owning restaurant
func (service *FlashDealService) ConfirmClaim(ctx context.Context, caller *shared.Principal, claimID uuid.UUID) error {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return err
	}

	var confirmed *flashdeal.Claim
	err = service.withClaim(ctx, claimID, func(ctx context.Context, deal *flashdeal.Deal, c *flashdeal.Claim) error {
		if deal.RestaurantID != user.ID {
			return shared.ErrNotOwner
		}
		if c.Status != flashdeal.ClaimPending {
			return shared.ErrClaimNotPending
		}
		now := service.clock.Now()
		c.Status = flashdeal.ClaimConfirmed
		c.ConfirmedAt = &now
		if err := service.claimRepo.Update(ctx, c); err != nil {
			return fmt.Errorf("failed to confirm claim: %w", err)
		}
		confirmed = c
		return nil
	})
	if err != nil {
		return err
	}

	service.notifier.notify(ctx, confirmed.UserID, notification.TypeSystem,
		"Your claim is confirmed", fmt.Sprintf("Show pickup code %s at the counter", confirmed.PickupCode),
		map[string]any{"claim_id": confirmed.ID.String(), "deal_id": confirmed.DealID.String(), "pickup_code": confirmed.PickupCode})

	service.logger.Info().Str("claim_id", claimID.String()).Msg("Claim confirmed")
	return nil
}

// MarkAsPickedUp redeems a claim once the restaurant checks its pickup code
func (service *FlashDealService) MarkAsPickedUp(ctx context.Context, caller *shared.Principal, req inbound.PickupRequest) error {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return err
	}

	err = service.withClaim(ctx, req.ClaimID, func(ctx context.Context, deal *flashdeal.Deal, c *flashdeal.Claim) error {
		if deal.RestaurantID != user.ID {
			return shared.ErrNotOwner
		}
		code := strings.ToUpper(strings.TrimSpace(req.PickupCode))
		if subtle.ConstantTimeCompare([]byte(code), []byte(c.PickupCode)) != 1 {
			return shared.ErrPickupCodeMismatch
		}
		if !c.IsOpen() {
			return shared.ErrClaimNotRedeemable
		}
		now := service.clock.Now()
		c.Status = flashdeal.ClaimPickedUp
		c.PickedUpAt = &now
		if err := service.claimRepo.Update(ctx, c); err != nil {
			return fmt.Errorf("failed to mark claim picked up: %w", err)
		}
		return nil
	})
	if err != nil {
		service.logger.Warn().Err(err).Str("claim_id", req.ClaimID.String()).Msg("Pickup rejected")
		return err
	}

	service.logger.Info().Str("claim_id", req.ClaimID.String()).Msg("Claim picked up")
	return nil
}

// withClaim runs fn on a claim and its deal inside the deal's serialization domain
func (service *FlashDealService) withClaim(ctx context.Context, claimID uuid.UUID, fn func(ctx context.Context, deal *flashdeal.Deal, c *flashdeal.Claim) error) error {
	c, err := service.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return err
	}
	return service.serial.run(ctx, dealKey(c.DealID), func(ctx context.Context) error {
		c, err := service.claimRepo.GetByID(ctx, claimID)
		if err != nil {
			return err
		}
		deal, err := service.dealRepo.GetByID(ctx, c.DealID)
		if err != nil {
			return err
		}
		return fn(ctx, deal, c)
	})
}
