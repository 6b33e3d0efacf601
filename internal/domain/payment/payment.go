package payment

import (
	"time"

	"github.com/google/uuid"
)

// MethodType is the kind of stored payment instrument
type MethodType string

const (
	MethodCreditCard    MethodType = "credit_card"
	MethodDebitCard     MethodType = "debit_card"
	MethodBankAccount   MethodType = "bank_account"
	MethodDigitalWallet MethodType = "digital_wallet"
)

// Valid reports whether t is a known method type
func (t MethodType) Valid() bool {
	switch t {
	case MethodCreditCard, MethodDebitCard, MethodBankAccount, MethodDigitalWallet:
		return true
	}
	return false
}

// Method is a stored payment instrument of a user
type Method struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	Type           MethodType `json:"type"`
	Provider       string     `json:"provider"`
	LastFourDigits string     `json:"last_four_digits"`
	HolderName     string     `json:"holder_name"`
	ExpiryMonth    int        `json:"expiry_month,omitempty"`
	ExpiryYear     int        `json:"expiry_year,omitempty"`
	GatewayToken   string     `json:"-"`
	IsDefault      bool       `json:"is_default"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Kind separates charges from their refund companions
type Kind string

const (
	KindPayment Kind = "payment"
	KindRefund  Kind = "refund"
)

// Status represents the settlement status of a transaction
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

// Transaction is a ledger entry. Refunds are recorded as companion entries
// with payer and receiver reversed; the original is never mutated.
type Transaction struct {
	ID               uuid.UUID  `json:"id"`
	Kind             Kind       `json:"kind"`
	JobID            *uuid.UUID `json:"job_id,omitempty"`
	AuctionID        *uuid.UUID `json:"auction_id,omitempty"`
	FlashDealClaimID *uuid.UUID `json:"flash_deal_claim_id,omitempty"`
	RefundOf         *uuid.UUID `json:"refund_of,omitempty"`
	PayerID          uuid.UUID  `json:"payer_id"`
	ReceiverID       uuid.UUID  `json:"receiver_id"`
	Amount           float64    `json:"amount"`
	Currency         string     `json:"currency"`
	PaymentMethodID  uuid.UUID  `json:"payment_method_id"`
	Status           Status     `json:"status"`
	GatewayReference string     `json:"gateway_reference,omitempty"`
	FailureReason    string     `json:"failure_reason,omitempty"`
	Reason           string     `json:"reason,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Refundable reports whether the transaction can spawn a refund
func (t *Transaction) Refundable() bool {
	return t.Kind == KindPayment && t.Status == StatusCompleted
}

// Stats aggregates a user's ledger activity
type Stats struct {
	TotalTransactions int     `json:"total_transactions"`
	TotalSpent        float64 `json:"total_spent"`
	TotalEarned       float64 `json:"total_earned"`
	PendingPayments   int     `json:"pending_payments"`
	CompletedPayments int     `json:"completed_payments"`
	FailedPayments    int     `json:"failed_payments"`
	Refunds           float64 `json:"refunds"`
}
