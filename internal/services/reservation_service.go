package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	intdb "seatbooking/internal/db"
	"seatbooking/internal/domain"
	"seatbooking/internal/domain/models"
	"seatbooking/internal/repositories"
	"seatbooking/internal/utils"

	"github.com/jonboulle/clockwork"
)

const defaultHoldDuration = 15 * time.Minute

// Column widths of the bookings and notification_outbox tables, in characters.
const (
	maxCustomerName = 255
	maxPhone        = 32
	maxPaymentRef   = 128
)

// ReservationService owns the booking lifecycle: hold, confirm, cancel.
// Every mutation is one transaction against the ledger; no state is kept
// in process memory.
type ReservationService struct {
	DB       *sql.DB
	Bookings repositories.BookingRepo
	Seats    repositories.BookingSeatRepo
	Trips    repositories.TripsRepo
	Outbox   repositories.OutboxRepo

	Clock            clockwork.Clock
	HoldDuration     time.Duration
	LockTimeout      time.Duration
	StrictHoldExpiry bool

	RequestID string
}

func (s ReservationService) now() time.Time {
	return clockOrReal(s.Clock).Now().UTC()
}

func (s ReservationService) holdDuration() time.Duration {
	if s.HoldDuration > 0 {
		return s.HoldDuration
	}
	return defaultHoldDuration
}

func (s ReservationService) tx(ctx context.Context, action string, fn func(ctx context.Context, tx *sql.Tx) error) error {
	return runTx(ctx, s.DB, s.LockTimeout, s.RequestID, action, fn)
}

// CreateHold claims every requested seat for one new RESERVED booking, or
// none of them.
func (s ReservationService) CreateHold(ctx context.Context, req models.HoldRequest) (models.HoldResult, error) {
	req, err := normalizeHold(req)
	if err != nil {
		return models.HoldResult{}, err
	}

	var out models.HoldResult
	err = s.tx(ctx, "create_hold", func(ctx context.Context, tx *sql.Tx) error {
		trip, err := s.Trips.GetTrip(ctx, tx, req.TripID)
		if err != nil {
			return err
		}
		if err := s.checkDirection(ctx, tx, trip.RouteID, req.FromStopID, req.ToStopID); err != nil {
			return err
		}
		if unknown := utils.UnknownSeats(req.Seats, trip.Capacity); len(unknown) > 0 {
			return domain.ValidationError{Field: "seats", Msg: "not on this bus: " + strings.Join(unknown, ",")}
		}

		taken, err := s.Seats.FindActiveConflicts(ctx, tx, trip.ID, req.Seats)
		if err != nil {
			return err
		}
		if len(taken) > 0 {
			return domain.SeatConflictError{TripID: trip.ID, Seats: taken}
		}

		now := s.now()
		expires := now.Add(s.holdDuration())
		total := trip.PricePerSeat * int64(len(req.Seats))
		if req.ExpectedAmount != nil {
			total = *req.ExpectedAmount
		}

		id, err := s.Bookings.Insert(ctx, tx, models.Booking{
			TripID:        trip.ID,
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			FromStopID:    req.FromStopID,
			ToStopID:      req.ToStopID,
			Status:        models.BookingReserved,
			PaymentStatus: models.PaymentPending,
			HoldExpiresAt: &expires,
			TotalAmount:   total,
			SeatNumbers:   req.Seats,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err != nil {
			return err
		}

		genders := genderBySeat(req.Seats, req.Genders)
		// Fixed insert order keeps two overlapping holds from deadlocking
		// on each other's seats.
		for _, seat := range utils.SortSeats(req.Seats) {
			err := s.Seats.Insert(ctx, tx, models.BookingSeat{
				BookingID:  id,
				TripID:     trip.ID,
				SeatNumber: seat,
				Gender:     genders[seat],
				Status:     models.SeatReserved,
			}, now)
			if err != nil {
				if intdb.IsDuplicateKey(err) {
					return domain.SeatConflictError{TripID: trip.ID, Seats: []string{seat}, Err: err}
				}
				return fmt.Errorf("insert seat %s: %w", seat, err)
			}
		}

		out = models.HoldResult{
			BookingID:     id,
			HoldExpiresAt: expires,
			TotalAmount:   total,
			Seats:         req.Seats,
		}
		return nil
	})
	if err != nil {
		return models.HoldResult{}, err
	}

	utils.LogEvent(s.RequestID, "reservation", "create_hold",
		fmt.Sprintf("booking %d holds %s on trip %d", out.BookingID, utils.JoinSeatList(out.Seats), req.TripID))
	return out, nil
}

func (s ReservationService) checkDirection(ctx context.Context, q intdb.Queryer, routeID, fromStop, toStop int64) error {
	fromSeq, ok, err := s.Trips.StopSequence(ctx, q, routeID, fromStop)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ValidationError{Field: "route", Msg: "boarding stop is not on this route"}
	}
	toSeq, ok, err := s.Trips.StopSequence(ctx, q, routeID, toStop)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ValidationError{Field: "route", Msg: "alighting stop is not on this route"}
	}
	if fromSeq >= toSeq {
		return domain.ValidationError{Field: "route", Msg: "alighting stop must come after boarding stop"}
	}
	return nil
}

// ConfirmBooking settles a RESERVED booking. A booking that has expired or
// been cancelled in the meantime is rejected, never revived.
func (s ReservationService) ConfirmBooking(ctx context.Context, req models.ConfirmRequest) (models.Booking, error) {
	if req.BookingID <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "must be positive"}
	}
	if req.PaymentRef != nil {
		ref := strings.TrimSpace(*req.PaymentRef)
		if ref == "" {
			req.PaymentRef = nil
		} else {
			req.PaymentRef = &ref
		}
	}
	if req.PaymentRef != nil && tooLong(*req.PaymentRef, maxPaymentRef) {
		return models.Booking{}, domain.ValidationError{Field: "payment_ref", Msg: fmt.Sprintf("at most %d characters", maxPaymentRef)}
	}
	if req.Amount != nil && *req.Amount < 0 {
		return models.Booking{}, domain.ValidationError{Field: "amount", Msg: "must not be negative"}
	}
	req.NotifyTo = strings.TrimSpace(req.NotifyTo)
	if tooLong(req.NotifyTo, maxPhone) {
		return models.Booking{}, domain.ValidationError{Field: "notify_to", Msg: fmt.Sprintf("at most %d characters", maxPhone)}
	}

	var out models.Booking
	err := s.tx(ctx, "confirm_booking", func(ctx context.Context, tx *sql.Tx) error {
		b, err := s.Bookings.LockByID(ctx, tx, req.BookingID)
		if err != nil {
			return err
		}
		if b.Status != models.BookingReserved {
			return domain.InvalidStateError{BookingID: b.ID, Status: string(b.Status), Op: "confirm"}
		}
		now := s.now()
		if s.StrictHoldExpiry && b.HoldExpiresAt != nil && !now.Before(*b.HoldExpiresAt) {
			return domain.InvalidStateError{BookingID: b.ID, Status: string(b.Status), Op: "confirm lapsed"}
		}

		seats, err := s.Seats.LockByBookingID(ctx, tx, b.ID)
		if err != nil {
			return err
		}
		// The unique key means a seat row we still own cannot be held by
		// anyone else, so only missing rows need reporting.
		if missing := missingSeats(b.SeatNumbers, seats); len(missing) > 0 {
			return domain.SeatConflictError{TripID: b.TripID, Seats: missing}
		}

		if err := s.Bookings.MarkConfirmed(ctx, tx, b.ID, req.PaymentRef, req.Amount, now); err != nil {
			return err
		}
		if err := s.Seats.ConfirmSeats(ctx, tx, b.ID); err != nil {
			return err
		}

		recipient := req.NotifyTo
		if recipient == "" {
			recipient = b.CustomerPhone
		}
		if err := s.Outbox.Enqueue(ctx, tx, outboxMessage(models.NotifyBookingConfirmed, b.ID, recipient, now)); err != nil {
			return err
		}

		b.Status = models.BookingConfirmed
		b.PaymentStatus = models.PaymentPaid
		b.HoldExpiresAt = nil
		if req.PaymentRef != nil {
			b.PaymentRef = req.PaymentRef
		}
		if req.Amount != nil {
			b.TotalAmount = *req.Amount
		}
		b.UpdatedAt = now
		for i := range seats {
			seats[i].Status = models.SeatConfirmed
		}
		b.Seats = seats
		out = b
		return nil
	})
	if err != nil {
		return models.Booking{}, err
	}

	utils.LogEvent(s.RequestID, "reservation", "confirm_booking", fmt.Sprintf("booking %d confirmed", out.ID))
	return out, nil
}

// CancelBooking releases a booking's seats. Cancelling a booking that is
// already CANCELLED or EXPIRED succeeds without changing anything.
func (s ReservationService) CancelBooking(ctx context.Context, bookingID int64) (models.Booking, error) {
	if bookingID <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "must be positive"}
	}

	var (
		out     models.Booking
		changed bool
	)
	err := s.tx(ctx, "cancel_booking", func(ctx context.Context, tx *sql.Tx) error {
		b, err := s.Bookings.LockByID(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		switch b.Status {
		case models.BookingCancelled, models.BookingExpired:
			out = b
			return nil
		case models.BookingReserved, models.BookingConfirmed:
		default:
			return domain.InvalidStateError{BookingID: b.ID, Status: string(b.Status), Op: "cancel"}
		}

		now := s.now()
		if _, err := s.Seats.DeleteByBookingID(ctx, tx, b.ID); err != nil {
			return err
		}
		if err := s.Bookings.SetStatus(ctx, tx, b.ID, models.BookingCancelled, now); err != nil {
			return err
		}
		if err := s.Outbox.Enqueue(ctx, tx, outboxMessage(models.NotifyBookingCancelled, b.ID, b.CustomerPhone, now)); err != nil {
			return err
		}

		b.Status = models.BookingCancelled
		b.UpdatedAt = now
		out = b
		changed = true
		return nil
	})
	if err != nil {
		return models.Booking{}, err
	}

	if changed {
		utils.LogEvent(s.RequestID, "reservation", "cancel_booking", fmt.Sprintf("booking %d cancelled", out.ID))
	}
	return out, nil
}

// GetBooking returns the booking with the seat locks it still holds.
func (s ReservationService) GetBooking(ctx context.Context, bookingID int64) (models.Booking, error) {
	if bookingID <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "booking_id", Msg: "must be positive"}
	}
	var out models.Booking
	err := runRead(ctx, s.DB, s.LockTimeout, s.RequestID, "get_booking", func(ctx context.Context, q intdb.Queryer) error {
		b, err := s.Bookings.GetByID(ctx, q, bookingID)
		if err != nil {
			return err
		}
		seats, err := s.Seats.ListByBookingID(ctx, q, bookingID)
		if err != nil {
			return err
		}
		b.Seats = seats
		out = b
		return nil
	})
	return out, err
}

func (s ReservationService) ListBookings(ctx context.Context, f models.BookingFilter) ([]models.Booking, error) {
	if f.Status != "" {
		st, ok := models.ParseBookingStatus(string(f.Status))
		if !ok {
			return nil, domain.ValidationError{Field: "status", Msg: "unknown status " + string(f.Status)}
		}
		f.Status = st
	}
	if f.Date != "" {
		d, err := utils.ParseDate(f.Date)
		if err != nil {
			return nil, domain.ValidationError{Field: "date", Msg: "expected YYYY-MM-DD", Err: err}
		}
		f.Date = utils.FormatDate(d)
	}
	if f.TripID < 0 {
		return nil, domain.ValidationError{Field: "trip_id", Msg: "must be positive"}
	}
	page := domain.Pagination{Limit: f.Limit, Offset: f.Offset}.Normalize()
	f.Limit, f.Offset = page.Limit, page.Offset

	var out []models.Booking
	err := runRead(ctx, s.DB, s.LockTimeout, s.RequestID, "list_bookings", func(ctx context.Context, q intdb.Queryer) error {
		list, err := s.Bookings.List(ctx, q, f)
		out = list
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeHold(req models.HoldRequest) (models.HoldRequest, error) {
	if req.TripID <= 0 {
		return req, domain.ValidationError{Field: "trip_id", Msg: "must be positive"}
	}
	if len(req.Seats) == 0 {
		return req, domain.ValidationError{Field: "seats", Msg: "at least one seat is required"}
	}
	seats := make([]string, 0, len(req.Seats))
	for _, raw := range req.Seats {
		seat := utils.NormalizeSeat(raw)
		if seat == "" {
			return req, domain.ValidationError{Field: "seats", Msg: "blank seat label"}
		}
		seats = append(seats, seat)
	}
	if dups := utils.DuplicateSeats(seats); len(dups) > 0 {
		return req, domain.ValidationError{Field: "seats", Msg: "duplicate seats: " + strings.Join(dups, ",")}
	}
	req.Seats = seats

	req.CustomerName = utils.NormalizeSpace(req.CustomerName)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	if req.CustomerName == "" {
		return req, domain.ValidationError{Field: "customer_name", Msg: "required"}
	}
	if req.CustomerPhone == "" {
		return req, domain.ValidationError{Field: "customer_phone", Msg: "required"}
	}
	if tooLong(req.CustomerName, maxCustomerName) {
		return req, domain.ValidationError{Field: "customer_name", Msg: fmt.Sprintf("at most %d characters", maxCustomerName)}
	}
	if tooLong(req.CustomerPhone, maxPhone) {
		return req, domain.ValidationError{Field: "customer_phone", Msg: fmt.Sprintf("at most %d characters", maxPhone)}
	}
	if req.FromStopID <= 0 || req.ToStopID <= 0 {
		return req, domain.ValidationError{Field: "route", Msg: "boarding and alighting stops are required"}
	}
	if req.FromStopID == req.ToStopID {
		return req, domain.ValidationError{Field: "route", Msg: "boarding and alighting stops must differ"}
	}
	if req.ExpectedAmount != nil && *req.ExpectedAmount < 0 {
		return req, domain.ValidationError{Field: "expected_amount", Msg: "must not be negative"}
	}
	return req, nil
}

func tooLong(s string, limit int) bool {
	return utf8.RuneCountInString(s) > limit
}

// genderBySeat pairs genders with seats by position. Only an explicit F
// marks a female passenger.
func genderBySeat(seats, genders []string) map[string]string {
	out := make(map[string]string, len(seats))
	for i, seat := range seats {
		g := models.GenderMale
		if i < len(genders) && strings.ToUpper(strings.TrimSpace(genders[i])) == models.GenderFemale {
			g = models.GenderFemale
		}
		out[seat] = g
	}
	return out
}

func missingSeats(want []string, held []models.BookingSeat) []string {
	have := make(map[string]bool, len(held))
	for _, s := range held {
		have[s.SeatNumber] = true
	}
	out := []string{}
	for _, seat := range want {
		if !have[seat] {
			out = append(out, seat)
		}
	}
	return out
}
