package payment

import (
	"context"

	"marketplace-engine/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DeclineToken makes the simulated processor reject a charge
const DeclineToken = "tok_chargeDeclined"

// SimulatedProcessor approves every charge. Used in development.
type SimulatedProcessor struct {
	logger zerolog.Logger
}

var _ outbound.PaymentProcessor = (*SimulatedProcessor)(nil)

func NewSimulatedProcessor(logger zerolog.Logger) *SimulatedProcessor {
	return &SimulatedProcessor{logger: logger.With().Str("component", "simulated_processor").Logger()}
}

func (p *SimulatedProcessor) Charge(ctx context.Context, req outbound.ChargeRequest) (*outbound.ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reference := "sim_" + uuid.NewString()
	if req.Method != nil && req.Method.GatewayToken == DeclineToken {
		p.logger.Info().Str("transaction_id", req.TransactionID).Msg("Simulated decline")
		return &outbound.ChargeResult{Approved: false, Reference: reference, FailureReason: "card declined"}, nil
	}

	p.logger.Info().Str("transaction_id", req.TransactionID).Float64("amount", req.Amount).Msg("Simulated charge approved")
	return &outbound.ChargeResult{Approved: true, Reference: reference}, nil
}
