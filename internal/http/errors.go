package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/menu"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/pricing"
	"github.com/andreasstove999/ecommerce-system/checkout-service-go/internal/session"
)

var conflicts = []struct {
	err  error
	code string
}{
	{checkout.ErrEmptyCart, "empty_cart"},
	{session.ErrCartLocked, "cart_locked"},
	{checkout.ErrSubmissionInProgress, "submission_in_progress"},
	{checkout.ErrWrongStep, "wrong_step"},
	{checkout.ErrPlaceOrderRequired, "place_order_required"},
	{checkout.ErrSessionClosed, "session_closed"},
}

var notFound = []error{menu.ErrNotFound, cart.ErrLineNotFound, session.ErrNoCheckout, order.ErrNotFound}

// statusFor maps a domain error onto a status code and response body.
func statusFor(err error) (int, errorResponse) {
	resp := errorResponse{Error: err.Error()}

	var (
		validation *checkout.ValidationError
		submission *checkout.SubmissionError
		required   *pricing.CustomizationRequiredError
	)
	switch {
	case errors.As(err, &validation):
		resp.Code = "validation"
		resp.Missing = validation.Missing
		return http.StatusUnprocessableEntity, resp
	case errors.As(err, &required):
		resp.Code = "customization_required"
		return http.StatusUnprocessableEntity, resp
	case pricing.IsPricingError(err):
		resp.Code = "invalid_selection"
		return http.StatusUnprocessableEntity, resp
	case errors.As(err, &submission):
		resp.Code = "submission_failed"
		resp.OrderID = submission.OrderID
		return http.StatusBadGateway, resp
	}

	for _, c := range conflicts {
		if errors.Is(err, c.err) {
			resp.Code = c.code
			return http.StatusConflict, resp
		}
	}
	for _, nf := range notFound {
		if errors.Is(err, nf) {
			resp.Code = "not_found"
			return http.StatusNotFound, resp
		}
	}

	return http.StatusInternalServerError, errorResponse{Error: "internal error"}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := statusFor(err)
	resp.CorrelationID = middleware.GetCorrelationID(r.Context())

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.String("correlation_id", resp.CorrelationID),
			zap.Error(err))
	}
	writeJSON(w, status, resp)
}

func (h *Handler) writeBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:         msg,
		Code:          "bad_request",
		CorrelationID: middleware.GetCorrelationID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
