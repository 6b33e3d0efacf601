package outbound

import (
	"context"
	"time"

	"marketplace-engine/internal/domain/payment"
	"marketplace-engine/internal/domain/shared"
)

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Locker serializes mutations of one entity across goroutines (and, for
// distributed implementations, across processes). Lock blocks until the key
// is held or ctx is done; the returned func releases it.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// IdentityProvider turns an opaque credential into a principal
type IdentityProvider interface {
	Resolve(ctx context.Context, credential string) (*shared.Principal, error)
}

// ChargeRequest describes one synchronous charge
type ChargeRequest struct {
	// TransactionID doubles as the processor idempotency key
	TransactionID string
	PayerID       string
	Amount        float64
	Currency      string
	Method        *payment.Method
}

// ChargeResult is the processor's verdict on a charge
type ChargeResult struct {
	Approved      bool
	Reference     string
	FailureReason string
}

// PaymentProcessor charges a stored payment method
type PaymentProcessor interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}
