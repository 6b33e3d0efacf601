package httpapi

import (
	"net/http"

	"marketplace-engine/internal/ports/inbound"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	payments inbound.PaymentService
}

func NewPaymentHandler(payments inbound.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type refundBody struct {
	Reason string   `json:"reason"`
	Amount *float64 `json:"amount,omitempty"`
}

// AddMethod handles POST /payment-methods
func (h *PaymentHandler) AddMethod(c *gin.Context) {
	var req inbound.AddPaymentMethodRequest
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.payments.AddPaymentMethod(c.Request.Context(), principalFrom(c), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment_method_id": id})
}

// ListMethods handles GET /payment-methods
func (h *PaymentHandler) ListMethods(c *gin.Context) {
	methods, err := h.payments.ListPaymentMethods(c.Request.Context(), principalFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_methods": methods, "count": len(methods)})
}

// SetDefault handles POST /payment-methods/:id/default
func (h *PaymentHandler) SetDefault(c *gin.Context) {
	methodID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.payments.SetDefaultPaymentMethod(c.Request.Context(), principalFrom(c), methodID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteMethod handles DELETE /payment-methods/:id
func (h *PaymentHandler) DeleteMethod(c *gin.Context) {
	methodID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.payments.DeletePaymentMethod(c.Request.Context(), principalFrom(c), methodID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ProcessPayment handles POST /payments. A declined charge is still a
// recorded transaction and answers 201 with status failed.
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	var req inbound.ProcessPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	tx, err := h.payments.ProcessPayment(c.Request.Context(), principalFrom(c), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// RequestRefund handles POST /transactions/:id/refund
func (h *PaymentHandler) RequestRefund(c *gin.Context) {
	txID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body refundBody
	if !bindJSON(c, &body) {
		return
	}
	refund, err := h.payments.RequestRefund(c.Request.Context(), principalFrom(c), inbound.RefundRequest{
		TransactionID: txID,
		Reason:        body.Reason,
		Amount:        body.Amount,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, refund)
}

// ListTransactions handles GET /transactions
func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	txs, err := h.payments.ListTransactions(c.Request.Context(), principalFrom(c), queryInt(c, "limit"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs, "count": len(txs)})
}

// Stats handles GET /payments/stats
func (h *PaymentHandler) Stats(c *gin.Context) {
	stats, err := h.payments.GetPaymentStats(c.Request.Context(), principalFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
