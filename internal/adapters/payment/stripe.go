package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"marketplace-engine/internal/ports/outbound"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

var ErrStripeClientInitFailed = errors.New("failed to initialize Stripe client")

// zeroDecimal lists the currencies Stripe charges in whole units
var zeroDecimal = map[string]bool{
	"BIF": true, "CLP": true, "DJF": true, "GNF": true, "JPY": true, "KMF": true,
	"KRW": true, "MGA": true, "PYG": true, "RWF": true, "UGX": true, "VND": true,
	"VUV": true, "XAF": true, "XOF": true, "XPF": true,
}

// minorUnits converts a decimal amount into the smallest unit of currency
func minorUnits(amount float64, currency string) int64 {
	if zeroDecimal[strings.ToUpper(currency)] {
		return int64(math.Round(amount))
	}
	return int64(math.Round(amount * 100))
}

// intentCreator is the slice of the Stripe PaymentIntents client the processor needs
type intentCreator interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeProcessor charges stored payment methods through Stripe PaymentIntents,
// confirming each intent immediately with the method's gateway token.
type StripeProcessor struct {
	intents intentCreator
	logger  zerolog.Logger
}

type StripeProcessorParams struct {
	SecretKey string
	Logger    zerolog.Logger
}

var _ outbound.PaymentProcessor = (*StripeProcessor)(nil)

func NewStripeProcessor(params StripeProcessorParams) (*StripeProcessor, error) {
	if params.SecretKey == "" {
		return nil, fmt.Errorf("%w: secret key not set", ErrStripeClientInitFailed)
	}
	sc := client.New(params.SecretKey, nil)
	if sc == nil {
		return nil, ErrStripeClientInitFailed
	}
	return newStripeProcessor(sc.PaymentIntents, params.Logger), nil
}

func newStripeProcessor(intents intentCreator, logger zerolog.Logger) *StripeProcessor {
	return &StripeProcessor{
		intents: intents,
		logger:  logger.With().Str("component", "stripe_processor").Logger(),
	}
}

// Charge creates and confirms a payment intent. Card declines come back as a
// rejected result; transport and API failures come back as errors.
func (p *StripeProcessor) Charge(ctx context.Context, req outbound.ChargeRequest) (*outbound.ChargeResult, error) {
	if req.Method == nil || req.Method.GatewayToken == "" {
		return &outbound.ChargeResult{Approved: false, FailureReason: "payment method has no gateway token"}, nil
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(minorUnits(req.Amount, req.Currency)),
		Currency:           stripe.String(strings.ToLower(req.Currency)),
		PaymentMethod:      stripe.String(req.Method.GatewayToken),
		Confirm:            stripe.Bool(true),
		PaymentMethodTypes: []*string{stripe.String("card")},
		Metadata: map[string]string{
			"transaction_id": req.TransactionID,
			"payer_id":       req.PayerID,
		},
	}
	params.Context = ctx
	if req.TransactionID != "" {
		params.SetIdempotencyKey(req.TransactionID)
	}

	p.logger.Info().Str("transaction_id", req.TransactionID).Float64("amount", req.Amount).Str("currency", req.Currency).Msg("Creating payment intent")

	pi, err := p.intents.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
			p.logger.Warn().Str("transaction_id", req.TransactionID).Str("code", string(stripeErr.Code)).Msg("Card declined")
			reference := ""
			if stripeErr.PaymentIntent != nil {
				reference = stripeErr.PaymentIntent.ID
			}
			return &outbound.ChargeResult{Approved: false, Reference: reference, FailureReason: stripeErr.Msg}, nil
		}
		p.logger.Error().Err(err).Str("transaction_id", req.TransactionID).Msg("Failed to create payment intent")
		return nil, fmt.Errorf("stripe API error: %w", err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded, stripe.PaymentIntentStatusProcessing:
		p.logger.Info().Str("transaction_id", req.TransactionID).Str("intent_id", pi.ID).Str("status", string(pi.Status)).Msg("Payment intent accepted")
		return &outbound.ChargeResult{Approved: true, Reference: pi.ID}, nil
	case stripe.PaymentIntentStatusRequiresAction:
		return &outbound.ChargeResult{Approved: false, Reference: pi.ID, FailureReason: "payment requires customer action"}, nil
	default:
		p.logger.Warn().Str("transaction_id", req.TransactionID).Str("intent_id", pi.ID).Str("status", string(pi.Status)).Msg("Payment intent not completed")
		return &outbound.ChargeResult{Approved: false, Reference: pi.ID, FailureReason: fmt.Sprintf("payment intent status %s", pi.Status)}, nil
	}
}
