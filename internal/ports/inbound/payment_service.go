package inbound

import (
	"context"

	"marketplace-engine/internal/domain/payment"
	"marketplace-engine/internal/domain/shared"

	"github.com/google/uuid"
)

// PaymentService defines the interface for ledger operations
type PaymentService interface {
	AddPaymentMethod(ctx context.Context, caller *shared.Principal, req AddPaymentMethodRequest) (uuid.UUID, error)
	SetDefaultPaymentMethod(ctx context.Context, caller *shared.Principal, methodID uuid.UUID) error
	DeletePaymentMethod(ctx context.Context, caller *shared.Principal, methodID uuid.UUID) error
	ListPaymentMethods(ctx context.Context, caller *shared.Principal) ([]*payment.Method, error)

	// ProcessPayment charges a stored method and records the outcome
	ProcessPayment(ctx context.Context, caller *shared.Principal, req ProcessPaymentRequest) (*payment.Transaction, error)

	// RequestRefund records the refund companion of a completed payment
	RequestRefund(ctx context.Context, caller *shared.Principal, req RefundRequest) (*payment.Transaction, error)

	ListTransactions(ctx context.Context, caller *shared.Principal, limit int) ([]*payment.Transaction, error)
	GetPaymentStats(ctx context.Context, caller *shared.Principal) (*payment.Stats, error)
}

// request to store a payment method
type AddPaymentMethodRequest struct {
	Type           payment.MethodType `json:"type"`
	Provider       string             `json:"provider"`
	LastFourDigits string             `json:"last_four_digits"`
	HolderName     string             `json:"holder_name"`
	ExpiryMonth    int                `json:"expiry_month,omitempty"`
	ExpiryYear     int                `json:"expiry_year,omitempty"`
	GatewayToken   string             `json:"gateway_token,omitempty"`
	IsDefault      bool               `json:"is_default"`
}

// request to charge a payment method
type ProcessPaymentRequest struct {
	ReceiverID       uuid.UUID  `json:"receiver_id"`
	Amount           float64    `json:"amount"`
	Currency         string     `json:"currency"`
	PaymentMethodID  uuid.UUID  `json:"payment_method_id"`
	JobID            *uuid.UUID `json:"job_id,omitempty"`
	AuctionID        *uuid.UUID `json:"auction_id,omitempty"`
	FlashDealClaimID *uuid.UUID `json:"flash_deal_claim_id,omitempty"`
}

// request to refund a payment. A nil Amount refunds it in full.
type RefundRequest struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Reason        string    `json:"reason"`
	Amount        *float64  `json:"amount,omitempty"`
}
