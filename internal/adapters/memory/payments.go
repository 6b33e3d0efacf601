package memory

import (
	"context"
	"fmt"

	"marketplace-engine/internal/domain/payment"
	"marketplace-engine/internal/domain/shared"

	"github.com/google/uuid"
)

// PaymentMethodRepository implements outbound.PaymentMethodRepository
type PaymentMethodRepository struct {
	t *table[payment.Method]
}

func (r *PaymentMethodRepository) Create(ctx context.Context, m *payment.Method) error {
	if !r.t.insert(m.ID, m) {
		return fmt.Errorf("%w: payment method %s already exists", shared.ErrConflict, m.ID)
	}
	return nil
}

func (r *PaymentMethodRepository) GetByID(ctx context.Context, id uuid.UUID) (*payment.Method, error) {
	m, ok := r.t.get(id)
	if !ok {
		return nil, shared.ErrPaymentMethodNotFound
	}
	return m, nil
}

func (r *PaymentMethodRepository) Update(ctx context.Context, m *payment.Method) error {
	if found, _ := r.t.replace(m.ID, m, nil); !found {
		return shared.ErrPaymentMethodNotFound
	}
	return nil
}

func (r *PaymentMethodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if !r.t.remove(id) {
		return shared.ErrPaymentMethodNotFound
	}
	return nil
}

func (r *PaymentMethodRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*payment.Method, error) {
	return r.t.filter(func(m *payment.Method) bool { return m.UserID == userID }), nil
}

// TransactionRepository implements outbound.TransactionRepository
type TransactionRepository struct {
	t *table[payment.Transaction]
}

func (r *TransactionRepository) Create(ctx context.Context, tx *payment.Transaction) error {
	if !r.t.insert(tx.ID, tx) {
		return fmt.Errorf("%w: transaction %s already exists", shared.ErrConflict, tx.ID)
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*payment.Transaction, error) {
	tx, ok := r.t.get(id)
	if !ok {
		return nil, shared.ErrTransactionNotFound
	}
	return tx, nil
}

func (r *TransactionRepository) Update(ctx context.Context, tx *payment.Transaction) error {
	if found, _ := r.t.replace(tx.ID, tx, nil); !found {
		return shared.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) ListByParty(ctx context.Context, userID uuid.UUID) ([]*payment.Transaction, error) {
	return r.t.filter(func(tx *payment.Transaction) bool {
		return tx.PayerID == userID || tx.ReceiverID == userID
	}), nil
}

func (r *TransactionRepository) FindRefund(ctx context.Context, originalID uuid.UUID) (*payment.Transaction, error) {
	refunds := r.t.filter(func(tx *payment.Transaction) bool {
		return tx.Kind == payment.KindRefund && tx.RefundOf != nil && *tx.RefundOf == originalID
	})
	if len(refunds) == 0 {
		return nil, nil
	}
	return refunds[0], nil
}
