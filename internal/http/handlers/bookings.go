package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"seatbooking/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// seatList accepts seat labels as JSON strings or numbers: ["12","13"] or [12,13].
type seatList []string

func (s *seatList) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '"' {
			var str string
			if err := json.Unmarshal(item, &str); err != nil {
				return err
			}
			out = append(out, str)
			continue
		}
		var n json.Number
		if err := json.Unmarshal(item, &n); err != nil {
			return fmt.Errorf("seat must be a string or number: %s", item)
		}
		out = append(out, n.String())
	}
	*s = out
	return nil
}

type holdRequest struct {
	TripID         int64    `json:"trip_id" binding:"required,gt=0"`
	Seats          seatList `json:"seats" binding:"required,min=1"`
	Genders        []string `json:"genders" binding:"omitempty,dive,gender"`
	CustomerName   string   `json:"customer_name" binding:"required,max=255"`
	CustomerPhone  string   `json:"customer_phone" binding:"required,max=32"`
	FromStopID     int64    `json:"from_stop_id" binding:"required,gt=0"`
	ToStopID       int64    `json:"to_stop_id" binding:"required,gt=0"`
	ExpectedAmount *int64   `json:"expected_amount" binding:"omitempty,gte=0"`
}

// POST /api/bookings/hold
func (a *API) CreateHold(c *gin.Context) {
	var req holdRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	res, err := a.Reservations.CreateHold(reqCtx(c), models.HoldRequest{
		TripID:         req.TripID,
		Seats:          req.Seats,
		Genders:        req.Genders,
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		FromStopID:     req.FromStopID,
		ToStopID:       req.ToStopID,
		ExpectedAmount: req.ExpectedAmount,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

type confirmRequest struct {
	PaymentRef *string `json:"payment_ref" binding:"omitempty,max=128"`
	Amount     *int64  `json:"amount" binding:"omitempty,gte=0"`
	NotifyTo   string  `json:"notify_to" binding:"omitempty,max=32"`
}

// POST /api/bookings/:id/pay
func (a *API) ConfirmBooking(c *gin.Context) {
	id, ok := parseID(c, "id", "invalid_booking_id")
	if !ok {
		return
	}
	var req confirmRequest
	if c.Request.ContentLength != 0 && !BindJSONOrError(c, &req) {
		return
	}
	b, err := a.Reservations.ConfirmBooking(reqCtx(c), models.ConfirmRequest{
		BookingID:  id,
		PaymentRef: req.PaymentRef,
		Amount:     req.Amount,
		NotifyTo:   req.NotifyTo,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// POST /api/bookings/:id/cancel
func (a *API) CancelBooking(c *gin.Context) {
	id, ok := parseID(c, "id", "invalid_booking_id")
	if !ok {
		return
	}
	b, err := a.Reservations.CancelBooking(reqCtx(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /api/bookings/:id
func (a *API) GetBooking(c *gin.Context) {
	id, ok := parseID(c, "id", "invalid_booking_id")
	if !ok {
		return
	}
	b, err := a.Reservations.GetBooking(reqCtx(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GET /api/bookings?status=&date=&trip_id=&limit=&offset=
func (a *API) ListBookings(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset")
	if !ok {
		return
	}
	tripID, ok := queryInt(c, "trip_id")
	if !ok {
		return
	}
	list, err := a.Reservations.ListBookings(reqCtx(c), models.BookingFilter{
		Status: models.BookingStatus(strings.TrimSpace(c.Query("status"))),
		Date:   strings.TrimSpace(c.Query("date")),
		TripID: int64(tripID),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": list, "count": len(list)})
}

// GET /api/bookings/:id/e-ticket
func (a *API) GetETicket(c *gin.Context) {
	id, ok := parseID(c, "id", "invalid_booking_id")
	if !ok {
		return
	}
	pdf, filename, err := a.Tickets.GenerateETicket(reqCtx(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
