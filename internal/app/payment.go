package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"marketplace-engine/internal/domain/job"
	"marketplace-engine/internal/domain/notification"
	"marketplace-engine/internal/domain/payment"
	"marketplace-engine/internal/domain/shared"
	"marketplace-engine/internal/ports/inbound"
	"marketplace-engine/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentService implements inbound.PaymentService
type PaymentService struct {
	methodRepo      outbound.PaymentMethodRepository
	transactionRepo outbound.TransactionRepository
	jobRepo         outbound.JobRepository
	userRepo        outbound.UserRepository
	processor       outbound.PaymentProcessor
	callers         callerResolver
	notifier        notifier
	serial          serializer
	clock           outbound.Clock
	rules           Rules
	logger          zerolog.Logger
}

type PaymentServiceParams struct {
	MethodRepo       outbound.PaymentMethodRepository
	TransactionRepo  outbound.TransactionRepository
	JobRepo          outbound.JobRepository
	UserRepo         outbound.UserRepository
	NotificationRepo outbound.NotificationRepository
	Processor        outbound.PaymentProcessor
	Locker           outbound.Locker
	Clock            outbound.Clock
	Rules            Rules
	Logger           zerolog.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(params PaymentServiceParams) *PaymentService {
	logger := params.Logger.With().Str("component", "payment_service").Logger()
	return &PaymentService{
		methodRepo:      params.MethodRepo,
		transactionRepo: params.TransactionRepo,
		jobRepo:         params.JobRepo,
		userRepo:        params.UserRepo,
		processor:       params.Processor,
		callers:         callerResolver{users: params.UserRepo},
		notifier:        notifier{repo: params.NotificationRepo, clock: params.Clock, logger: logger},
		serial:          newSerializer(params.Locker, params.Rules.ConflictAttempts, logger),
		clock:           params.Clock,
		rules:           params.Rules,
		logger:          logger,
	}
}

// AddPaymentMethod stores a payment instrument for the caller
func (service *PaymentService) AddPaymentMethod(ctx context.Context, caller *shared.Principal, req inbound.AddPaymentMethodRequest) (uuid.UUID, error) {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return uuid.Nil, err
	}
	if !req.Type.Valid() {
		return uuid.Nil, fmt.Errorf("%w: unknown payment method type %q", shared.ErrInvalidArgument, req.Type)
	}

	now := service.clock.Now()
	method := &payment.Method{
		ID:             uuid.New(),
		UserID:         user.ID,
		Type:           req.Type,
		Provider:       firstNonEmpty(req.Provider, "unknown"),
		LastFourDigits: firstNonEmpty(req.LastFourDigits, "0000"),
		HolderName:     firstNonEmpty(req.HolderName, "Unknown"),
		ExpiryMonth:    req.ExpiryMonth,
		ExpiryYear:     req.ExpiryYear,
		GatewayToken:   req.GatewayToken,
		IsDefault:      req.IsDefault,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = service.serial.run(ctx, paymentUserKey(user.ID), func(ctx context.Context) error {
		if method.IsDefault {
			if err := service.clearDefault(ctx, user.ID, uuid.Nil); err != nil {
				return err
			}
		}
		return service.methodRepo.Create(ctx, method)
	})
	if err != nil {
		service.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to add payment method")
		return uuid.Nil, err
	}

	service.logger.Info().
		Str("method_id", method.ID.String()).
		Str("user_id", user.ID.String()).
		Str("type", string(method.Type)).
		Bool("default", method.IsDefault).
		Msg("Payment method added")
	return method.ID, nil
}

// clearDefault drops the default flag from the user's methods other than keep
func (service *PaymentService) clearDefault(ctx context.Context, userID, keep uuid.UUID) error {
	methods, err := service.methodRepo.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list payment methods: %w", err)
	}
	for _, m := range methods {
		if !m.IsDefault || m.ID == keep {
			continue
		}
		m.IsDefault = false
		m.UpdatedAt = service.clock.Now()
		if err := service.methodRepo.Update(ctx, m); err != nil {
			return fmt.Errorf("failed to clear default payment method: %w", err)
		}
	}
	return nil
}

// SetDefaultPaymentMethod makes one of the caller's methods the default
func (service *PaymentService) SetDefaultPaymentMethod(ctx context.Context, caller *shared.Principal, methodID uuid.UUID) error {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return err
	}

	return service.serial.run(ctx, paymentUserKey(user.ID), func(ctx context.Context) error {
		m, err := service.ownedMethod(ctx, user.ID, methodID)
		if err != nil {
			return err
		}
		if !m.IsActive {
			return shared.ErrPaymentMethodInactive
		}
		if err := service.clearDefault(ctx, user.ID, m.ID); err != nil {
			return err
		}
		if m.IsDefault {
			return nil
		}
		m.IsDefault = true
		m.UpdatedAt = service.clock.Now()
		return service.methodRepo.Update(ctx, m)
	})
}

// DeletePaymentMethod removes one of the caller's methods. Deleting the
// default promotes the most recently added remaining method.
func (service *PaymentService) DeletePaymentMethod(ctx context.Context, caller *shared.Principal, methodID uuid.UUID) error {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return err
	}

	err = service.serial.run(ctx, paymentUserKey(user.ID), func(ctx context.Context) error {
		m, err := service.ownedMethod(ctx, user.ID, methodID)
		if err != nil {
			return err
		}
		if err := service.methodRepo.Delete(ctx, m.ID); err != nil {
			return err
		}
		if !m.IsDefault {
			return nil
		}

		remaining, err := service.methodRepo.ListByUser(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("failed to list payment methods: %w", err)
		}
		sortMethods(remaining)
		for _, next := range remaining {
			if !next.IsActive {
				continue
			}
			next.IsDefault = true
			next.UpdatedAt = service.clock.Now()
			return service.methodRepo.Update(ctx, next)
		}
		return nil
	})
	if err != nil {
		return err
	}

	service.logger.Info().Str("method_id", methodID.String()).Str("user_id", user.ID.String()).Msg("Payment method deleted")
	return nil
}

func (service *PaymentService) ownedMethod(ctx context.Context, userID, methodID uuid.UUID) (*payment.Method, error) {
	m, err := service.methodRepo.GetByID(ctx, methodID)
	if err != nil {
		return nil, err
	}
	if m.UserID != userID {
		return nil, shared.ErrNotOwner
	}
	return m, nil
}

// ListPaymentMethods lists the caller's methods, default first, then newest
func (service *PaymentService) ListPaymentMethods(ctx context.Context, caller *shared.Principal) ([]*payment.Method, error) {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	methods, err := service.methodRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	sortMethods(methods)
	return methods, nil
}

func sortMethods(methods []*payment.Method) {
	sort.SliceStable(methods, func(i, j int) bool {
		if methods[i].IsDefault != methods[j].IsDefault {
			return methods[i].IsDefault
		}
		return methods[i].CreatedAt.After(methods[j].CreatedAt)
	})
}

// ProcessPayment charges one of the caller's methods. The transaction is
// recorded as pending before the processor is called and settled afterwards,
// so a declined charge still leaves a failed entry in the ledger.
func (service *PaymentService) ProcessPayment(ctx context.Context, caller *shared.Principal, req inbound.ProcessPaymentRequest) (*payment.Transaction, error) {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	if req.Amount <= 0 {
		return nil, shared.ErrInvalidAmount
	}
	if req.ReceiverID == uuid.Nil {
		return nil, fmt.Errorf("%w: receiver is required", shared.ErrInvalidArgument)
	}
	if _, err := service.userRepo.GetByID(ctx, req.ReceiverID); err != nil {
		return nil, err
	}

	service.logger.Info().
		Str("payer_id", user.ID.String()).
		Str("receiver_id", req.ReceiverID.String()).
		Float64("amount", req.Amount).
		Msg("Processing payment")

	var tx *payment.Transaction
	err = service.serial.run(ctx, paymentUserKey(user.ID), func(ctx context.Context) error {
		method, err := service.ownedMethod(ctx, user.ID, req.PaymentMethodID)
		if err != nil {
			return err
		}
		if !method.IsActive {
			return shared.ErrPaymentMethodInactive
		}

		now := service.clock.Now()
		tx = &payment.Transaction{
			ID:               uuid.New(),
			Kind:             payment.KindPayment,
			JobID:            req.JobID,
			AuctionID:        req.AuctionID,
			FlashDealClaimID: req.FlashDealClaimID,
			PayerID:          user.ID,
			ReceiverID:       req.ReceiverID,
			Amount:           req.Amount,
			Currency:         firstNonEmpty(strings.ToUpper(req.Currency), service.rules.DefaultCurrency),
			PaymentMethodID:  method.ID,
			Status:           payment.StatusPending,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := service.transactionRepo.Create(ctx, tx); err != nil {
			return fmt.Errorf("failed to record transaction: %w", err)
		}

		result, chargeErr := service.processor.Charge(ctx, outbound.ChargeRequest{
			TransactionID: tx.ID.String(),
			PayerID:       user.ID.String(),
			Amount:        tx.Amount,
			Currency:      tx.Currency,
			Method:        method,
		})
		switch {
		case chargeErr != nil:
			tx.Status = payment.StatusFailed
			tx.FailureReason = chargeErr.Error()
		case !result.Approved:
			tx.Status = payment.StatusFailed
			tx.FailureReason = result.FailureReason
			tx.GatewayReference = result.Reference
		default:
			tx.Status = payment.StatusCompleted
			tx.GatewayReference = result.Reference
		}
		tx.UpdatedAt = service.clock.Now()
		if err := service.transactionRepo.Update(ctx, tx); err != nil {
			return fmt.Errorf("failed to settle transaction: %w", err)
		}
		if chargeErr != nil {
			return fmt.Errorf("%w: %v", shared.ErrPaymentProcessorFailed, chargeErr)
		}
		return nil
	})
	if err != nil {
		service.logger.Error().Err(err).Str("payer_id", user.ID.String()).Msg("Payment failed")
		return nil, err
	}

	if tx.Status == payment.StatusCompleted {
		if tx.JobID != nil {
			service.completeJob(ctx, *tx.JobID)
		}
		service.notifier.notify(ctx, tx.ReceiverID, notification.TypeSystem,
			"Payment received", fmt.Sprintf("%s sent you %.2f %s", user.Name, tx.Amount, tx.Currency),
			map[string]any{"transaction_id": tx.ID.String()})
	}

	service.logger.Info().
		Str("transaction_id", tx.ID.String()).
		Str("status", string(tx.Status)).
		Str("reference", tx.GatewayReference).
		Msg("Payment settled")
	return tx, nil
}

// completeJob marks a paid job as completed; a failure is logged, never returned
func (service *PaymentService) completeJob(ctx context.Context, jobID uuid.UUID) {
	j, err := service.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		service.logger.Warn().Err(err).Str("job_id", jobID.String()).Msg("Paid job not found")
		return
	}
	if j.Status == job.StatusCompleted {
		return
	}
	j.Status = job.StatusCompleted
	j.UpdatedAt = service.clock.Now()
	if err := service.jobRepo.Update(ctx, j); err != nil {
		service.logger.Error().Err(err).Str("job_id", jobID.String()).Msg("Failed to complete paid job")
	}
}

// RequestRefund records a refund companion for a completed payment of the caller
func (service *PaymentService) RequestRefund(ctx context.Context, caller *shared.Principal, req inbound.RefundRequest) (*payment.Transaction, error) {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return nil, err
	}

	var refund *payment.Transaction
	err = service.serial.run(ctx, transactionKey(req.TransactionID), func(ctx context.Context) error {
		original, err := service.transactionRepo.GetByID(ctx, req.TransactionID)
		if err != nil {
			return err
		}
		if original.PayerID != user.ID {
			return shared.ErrNotOwner
		}
		if !original.Refundable() {
			return shared.ErrNotRefundable
		}
		previous, err := service.transactionRepo.FindRefund(ctx, original.ID)
		if err != nil {
			return fmt.Errorf("failed to look up refunds: %w", err)
		}
		if previous != nil {
			return shared.ErrAlreadyRefunded
		}

		amount := original.Amount
		if req.Amount != nil {
			amount = *req.Amount
		}
		if amount <= 0 {
			return shared.ErrInvalidAmount
		}
		if amount > original.Amount {
			return shared.ErrRefundExceedsPayment
		}

		now := service.clock.Now()
		refundOf := original.ID
		refund = &payment.Transaction{
			ID:               uuid.New(),
			Kind:             payment.KindRefund,
			JobID:            original.JobID,
			AuctionID:        original.AuctionID,
			FlashDealClaimID: original.FlashDealClaimID,
			RefundOf:         &refundOf,
			PayerID:          original.ReceiverID,
			ReceiverID:       original.PayerID,
			Amount:           amount,
			Currency:         original.Currency,
			PaymentMethodID:  original.PaymentMethodID,
			Status:           payment.StatusRefunded,
			Reason:           req.Reason,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		return service.transactionRepo.Create(ctx, refund)
	})
	if err != nil {
		service.logger.Warn().Err(err).Str("transaction_id", req.TransactionID.String()).Msg("Refund rejected")
		return nil, err
	}

	service.notifier.notify(ctx, user.ID, notification.TypeSystem,
		"Refund processed", fmt.Sprintf("%.2f %s will be returned to your payment method", refund.Amount, refund.Currency),
		map[string]any{"transaction_id": refund.ID.String(), "refund_of": req.TransactionID.String()})

	service.logger.Info().
		Str("refund_id", refund.ID.String()).
		Str("transaction_id", req.TransactionID.String()).
		Float64("amount", refund.Amount).
		Msg("Refund recorded")
	return refund, nil
}

// ListTransactions lists the caller's ledger entries, newest first
func (service *PaymentService) ListTransactions(ctx context.Context, caller *shared.Principal, limit int) ([]*payment.Transaction, error) {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = service.rules.DefaultTransactionsLimit
	}

	txs, err := service.transactionRepo.ListByParty(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].CreatedAt.After(txs[j].CreatedAt) })
	if len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

// GetPaymentStats aggregates the caller's ledger activity
func (service *PaymentService) GetPaymentStats(ctx context.Context, caller *shared.Principal) (*payment.Stats, error) {
	user, err := service.callers.resolve(ctx, caller)
	if err != nil {
		return nil, err
	}
	txs, err := service.transactionRepo.ListByParty(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return ledgerStats(user.ID, txs), nil
}

func ledgerStats(userID uuid.UUID, txs []*payment.Transaction) *payment.Stats {
	stats := &payment.Stats{TotalTransactions: len(txs)}
	for _, tx := range txs {
		if tx.Kind == payment.KindRefund {
			if tx.ReceiverID == userID {
				stats.Refunds += tx.Amount
			}
			continue
		}
		switch tx.Status {
		case payment.StatusPending:
			stats.PendingPayments++
		case payment.StatusFailed:
			stats.FailedPayments++
		case payment.StatusCompleted:
			stats.CompletedPayments++
			if tx.PayerID == userID {
				stats.TotalSpent += tx.Amount
			}
			if tx.ReceiverID == userID {
				stats.TotalEarned += tx.Amount
			}
		}
	}
	return stats
}
