package shared

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the engine wraps exactly one of these.
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidState       = errors.New("invalid state")
	ErrInvalidBid         = errors.New("invalid bid")
	ErrCapacityExceeded   = errors.New("capacity exceeded")
	ErrExpired            = errors.New("expired")
	ErrInvalidCredential  = errors.New("invalid credential")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrConflict           = errors.New("concurrent modification")
)

// Domain-specific errors
var (
	// Identity errors
	ErrMissingPrincipal = fmt.Errorf("%w: no principal on request", ErrUnauthenticated)
	ErrUserNotFound     = fmt.Errorf("%w: no user registered for principal", ErrUnauthenticated)
	ErrRoleNotAllowed   = fmt.Errorf("%w: role not allowed for this operation", ErrForbidden)
	ErrNotOwner         = fmt.Errorf("%w: caller does not own this resource", ErrForbidden)
	ErrUserRecordAbsent = fmt.Errorf("user %w", ErrNotFound)
	ErrInvalidRole      = fmt.Errorf("%w: unknown role", ErrInvalidArgument)

	// Auction errors
	ErrAuctionNotFound     = fmt.Errorf("auction %w", ErrNotFound)
	ErrAuctionNotActive    = fmt.Errorf("%w: auction is not active", ErrInvalidState)
	ErrAuctionEnded        = fmt.Errorf("%w: auction has ended", ErrInvalidState)
	ErrOwnerCannotBid      = fmt.Errorf("%w: auction owner cannot bid", ErrForbidden)
	ErrWinnerHasNoBid      = fmt.Errorf("winner bid %w", ErrNotFound)
	ErrInvalidInitialOffer = fmt.Errorf("%w: initial offer must be greater than 0", ErrInvalidArgument)
	ErrInvalidDuration     = fmt.Errorf("%w: duration must not be negative", ErrInvalidArgument)

	// Flash deal errors
	ErrDealNotFound       = fmt.Errorf("flash deal %w", ErrNotFound)
	ErrDealNotActive      = fmt.Errorf("%w: flash deal is not active", ErrInvalidState)
	ErrDealEnded          = fmt.Errorf("%w: flash deal has ended", ErrExpired)
	ErrDealClosed         = fmt.Errorf("%w: flash deal is already closed", ErrInvalidState)
	ErrDealItemNotFound   = fmt.Errorf("flash deal item %w", ErrNotFound)
	ErrLocationRequired   = fmt.Errorf("%w: a location is required to publish flash deals", ErrPreconditionFailed)
	ErrEndTimeInPast      = fmt.Errorf("%w: end time must be in the future", ErrInvalidArgument)
	ErrNoItems            = fmt.Errorf("%w: at least one item is required", ErrInvalidArgument)
	ErrInvalidQuantity    = fmt.Errorf("%w: quantity must be greater than 0", ErrInvalidArgument)
	ErrClaimNotFound      = fmt.Errorf("claim %w", ErrNotFound)
	ErrClaimNotPending    = fmt.Errorf("%w: claim is not pending", ErrInvalidState)
	ErrClaimNotRedeemable = fmt.Errorf("%w: claim cannot be picked up", ErrInvalidState)
	ErrPickupCodeMismatch = fmt.Errorf("%w: pickup code does not match", ErrInvalidCredential)

	// Payment errors
	ErrPaymentMethodNotFound  = fmt.Errorf("payment method %w", ErrNotFound)
	ErrPaymentMethodInactive  = fmt.Errorf("%w: payment method is not active", ErrPreconditionFailed)
	ErrTransactionNotFound    = fmt.Errorf("transaction %w", ErrNotFound)
	ErrNotRefundable          = fmt.Errorf("%w: only completed payments can be refunded", ErrInvalidState)
	ErrAlreadyRefunded        = fmt.Errorf("%w: transaction already refunded", ErrInvalidState)
	ErrInvalidAmount          = fmt.Errorf("%w: amount must be greater than 0", ErrInvalidArgument)
	ErrRefundExceedsPayment   = fmt.Errorf("%w: refund exceeds the original amount", ErrInvalidArgument)
	ErrJobNotFound            = fmt.Errorf("job %w", ErrNotFound)
	ErrNotificationNotFound   = fmt.Errorf("notification %w", ErrNotFound)
	ErrInvalidRequest         = fmt.Errorf("%w: malformed request", ErrInvalidArgument)
	ErrUnsupportedProcessor   = errors.New("unsupported payment processor")
	ErrPaymentProcessorFailed = errors.New("payment processor declined the charge")
)

// BidError reports a rejected bid together with the bound it had to beat.
type BidError struct {
	Bound     float64
	Ascending bool
}

func (e *BidError) Error() string {
	if e.Ascending {
		return fmt.Sprintf("invalid bid: amount must be greater than %.2f", e.Bound)
	}
	return fmt.Sprintf("invalid bid: amount must be less than %.2f", e.Bound)
}

func (e *BidError) Unwrap() error { return ErrInvalidBid }

// CapacityError reports how many units of an item are still claimable.
type CapacityError struct {
	Item      string
	Remaining int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded: only %d units of %q left", e.Remaining, e.Item)
}

func (e *CapacityError) Unwrap() error { return ErrCapacityExceeded }
