package handlers

import (
	"errors"
	"net/http"

	"seatbooking/internal/domain"
	"seatbooking/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses with stable codes.
func RespondDomainError(c *gin.Context, err error) {
	var (
		conflict domain.SeatConflictError
		state    domain.InvalidStateError
	)
	switch {
	case errors.As(err, &conflict):
		respondError(c, http.StatusConflict, "seat_conflict", err.Error(), gin.H{
			"trip_id": conflict.TripID,
			"seats":   conflict.Seats,
		})
	case errors.As(err, &state):
		respondError(c, http.StatusConflict, "invalid_state", err.Error(), gin.H{
			"booking_id": state.BookingID,
			"status":     state.Status,
		})
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsBusy(err):
		c.Header("Retry-After", "1")
		respondError(c, http.StatusServiceUnavailable, "busy", err.Error(), nil)
	case domain.IsUnauthorized(err):
		respondError(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	default:
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
