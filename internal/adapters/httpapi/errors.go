package httpapi

import (
	"context"
	"errors"
	"net/http"

	"marketplace-engine/internal/domain/shared"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
		Kind    string `json:"kind,omitempty"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

var kindStatus = []struct {
	kind   error
	status int
	name   string
}{
	{shared.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated"},
	{shared.ErrForbidden, http.StatusForbidden, "forbidden"},
	{shared.ErrNotFound, http.StatusNotFound, "not_found"},
	{shared.ErrInvalidBid, http.StatusUnprocessableEntity, "invalid_bid"},
	{shared.ErrCapacityExceeded, http.StatusConflict, "capacity_exceeded"},
	{shared.ErrInvalidState, http.StatusConflict, "invalid_state"},
	{shared.ErrConflict, http.StatusConflict, "conflict"},
	{shared.ErrExpired, http.StatusGone, "expired"},
	{shared.ErrInvalidCredential, http.StatusUnprocessableEntity, "invalid_credential"},
	{shared.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"},
	{shared.ErrPreconditionFailed, http.StatusPreconditionFailed, "precondition_failed"},
	{shared.ErrPaymentProcessorFailed, http.StatusBadGateway, "payment_processor_failed"},
}

// MapErrorToHTTP translates an engine error into a response
func MapErrorToHTTP(err error) ErrorResponse {
	var resp ErrorResponse
	resp.Status = http.StatusInternalServerError
	resp.Error.Message = "Internal server error"

	for _, k := range kindStatus {
		if errors.Is(err, k.kind) {
			resp.Status = k.status
			resp.Error.Kind = k.name
			resp.Error.Message = err.Error()
			break
		}
	}
	if errors.Is(err, context.Canceled) {
		resp.Status = 499
		resp.Error.Message = "Request cancelled"
	}

	var bidErr *shared.BidError
	if errors.As(err, &bidErr) {
		resp.Detail = gin.H{"bound": bidErr.Bound, "ascending": bidErr.Ascending}
	}
	var capErr *shared.CapacityError
	if errors.As(err, &capErr) {
		resp.Detail = gin.H{"item": capErr.Item, "remaining": capErr.Remaining}
	}
	return resp
}

// abortWithError writes the mapped error and records it on the context for the access log
func abortWithError(c *gin.Context, err error) {
	resp := MapErrorToHTTP(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(resp.Status, resp)
}

// abortBadRequest rejects a request that could not be decoded
func abortBadRequest(c *gin.Context, msg string) {
	err := shared.ErrInvalidRequest
	resp := MapErrorToHTTP(err)
	resp.Error.Message = msg
	_ = c.Error(err)
	c.AbortWithStatusJSON(resp.Status, resp)
}
