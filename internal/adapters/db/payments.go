package db

import (
	"context"

	"marketplace-engine/internal/domain/payment"
	"marketplace-engine/internal/domain/shared"

	"github.com/google/uuid"
)

// storedMethod persists the gateway token that payment.Method keeps out of its JSON form
type storedMethod struct {
	payment.Method
	GatewayToken string `json:"gateway_token,omitempty"`
}

func toStoredMethod(m *payment.Method) *storedMethod {
	return &storedMethod{Method: *m, GatewayToken: m.GatewayToken}
}

func (s *storedMethod) method() *payment.Method {
	m := s.Method
	m.GatewayToken = s.GatewayToken
	return &m
}

// PaymentMethodRepository implements outbound.PaymentMethodRepository
type PaymentMethodRepository struct {
	docs *collection[storedMethod]
}

// NewPaymentMethodRepository creates a new payment method repository
func NewPaymentMethodRepository(conn *Connection) *PaymentMethodRepository {
	return &PaymentMethodRepository{docs: newCollection[storedMethod](conn, "payment_methods", "payment method", shared.ErrPaymentMethodNotFound)}
}

func (r *PaymentMethodRepository) Create(ctx context.Context, m *payment.Method) error {
	return r.docs.insert(ctx, r.docs.conn.GetDB(), m.ID, 1, toStoredMethod(m))
}

func (r *PaymentMethodRepository) GetByID(ctx context.Context, id uuid.UUID) (*payment.Method, error) {
	stored, err := r.docs.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return stored.method(), nil
}

func (r *PaymentMethodRepository) Update(ctx context.Context, m *payment.Method) error {
	return r.docs.replace(ctx, m.ID, toStoredMethod(m))
}

func (r *PaymentMethodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.docs.remove(ctx, id)
}

func (r *PaymentMethodRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*payment.Method, error) {
	stored, err := r.docs.find(ctx, `WHERE doc->>'user_id' = $1 ORDER BY seq`, userID.String())
	if err != nil {
		return nil, err
	}
	methods := make([]*payment.Method, 0, len(stored))
	for _, s := range stored {
		methods = append(methods, s.method())
	}
	return methods, nil
}

// TransactionRepository implements outbound.TransactionRepository
type TransactionRepository struct {
	docs *collection[payment.Transaction]
}

// NewTransactionRepository creates a new ledger repository
func NewTransactionRepository(conn *Connection) *TransactionRepository {
	return &TransactionRepository{docs: newCollection[payment.Transaction](conn, "transactions", "transaction", shared.ErrTransactionNotFound)}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *payment.Transaction) error {
	return r.docs.insert(ctx, r.docs.conn.GetDB(), tx.ID, 1, tx)
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*payment.Transaction, error) {
	return r.docs.get(ctx, id)
}

func (r *TransactionRepository) Update(ctx context.Context, tx *payment.Transaction) error {
	return r.docs.replace(ctx, tx.ID, tx)
}

func (r *TransactionRepository) ListByParty(ctx context.Context, userID uuid.UUID) ([]*payment.Transaction, error) {
	return r.docs.find(ctx, `WHERE doc->>'payer_id' = $1 OR doc->>'receiver_id' = $1 ORDER BY seq`, userID.String())
}

func (r *TransactionRepository) FindRefund(ctx context.Context, originalID uuid.UUID) (*payment.Transaction, error) {
	return r.docs.findOne(ctx, `WHERE doc->>'kind' = $1 AND doc->>'refund_of' = $2 ORDER BY seq`,
		string(payment.KindRefund), originalID.String())
}
