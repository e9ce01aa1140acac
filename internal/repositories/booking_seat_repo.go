package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	intdb "seatbooking/internal/db"
	"seatbooking/internal/domain/models"
)

// BookingSeatRepo is the seat ledger. A row exists only while its seat is
// occupied; the unique key over (trip_id, seat_number) makes a second
// claim on the same seat fail at insert time.
type BookingSeatRepo struct{}

const occupiedSeat = `is_active=1 AND status IN ('RESERVED','CONFIRMED')`

// FindActiveConflicts returns which of seats are occupied on the trip.
func (r BookingSeatRepo) FindActiveConflicts(ctx context.Context, q intdb.Queryer, tripID int64, seats []string) ([]string, error) {
	if len(seats) == 0 {
		return []string{}, nil
	}
	args := append([]any{tripID}, intdb.StringArgs(seats)...)
	query := `SELECT seat_number FROM booking_seats
		WHERE trip_id=? AND seat_number IN (` + intdb.Placeholders(len(seats)) + `) AND ` + occupiedSeat + `
		ORDER BY id`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find seat conflicts: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var seat string
		if err := rows.Scan(&seat); err != nil {
			return out, err
		}
		out = append(out, strings.TrimSpace(seat))
	}
	return out, rows.Err()
}

// Insert claims one seat. A duplicate-key error means someone else holds it.
func (r BookingSeatRepo) Insert(ctx context.Context, q intdb.Queryer, s models.BookingSeat, now time.Time) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO booking_seats (booking_id, trip_id, seat_number, gender, status, is_active, created_at)
		VALUES (?,?,?,?,?,1,?)`,
		s.BookingID, s.TripID, s.SeatNumber, s.Gender, string(s.Status), now,
	)
	return err
}

// LockByBookingID reads the booking's seat rows under FOR UPDATE.
func (r BookingSeatRepo) LockByBookingID(ctx context.Context, q intdb.Queryer, bookingID int64) ([]models.BookingSeat, error) {
	return r.list(ctx, q, `WHERE booking_id=? ORDER BY id FOR UPDATE`, bookingID)
}

func (r BookingSeatRepo) ListByBookingID(ctx context.Context, q intdb.Queryer, bookingID int64) ([]models.BookingSeat, error) {
	return r.list(ctx, q, `WHERE booking_id=? ORDER BY id`, bookingID)
}

func (r BookingSeatRepo) list(ctx context.Context, q intdb.Queryer, tail string, args ...any) ([]models.BookingSeat, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, booking_id, trip_id, seat_number, gender, status, is_active
		FROM booking_seats `+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("list booking seats: %w", err)
	}
	defer rows.Close()

	out := []models.BookingSeat{}
	for rows.Next() {
		var (
			s      models.BookingSeat
			status string
		)
		if err := rows.Scan(&s.ID, &s.BookingID, &s.TripID, &s.SeatNumber, &s.Gender, &status, &s.IsActive); err != nil {
			return out, err
		}
		s.Status = models.SeatStatus(status)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r BookingSeatRepo) ConfirmSeats(ctx context.Context, q intdb.Queryer, bookingID int64) error {
	if _, err := q.ExecContext(ctx,
		`UPDATE booking_seats SET status=? WHERE booking_id=?`,
		string(models.SeatConfirmed), bookingID,
	); err != nil {
		return fmt.Errorf("confirm seats: %w", err)
	}
	return nil
}

// DeleteByBookingID releases every seat the booking holds.
func (r BookingSeatRepo) DeleteByBookingID(ctx context.Context, q intdb.Queryer, bookingID int64) (int64, error) {
	return r.DeleteByBookingIDs(ctx, q, []int64{bookingID})
}

func (r BookingSeatRepo) DeleteByBookingIDs(ctx context.Context, q intdb.Queryer, bookingIDs []int64) (int64, error) {
	if len(bookingIDs) == 0 {
		return 0, nil
	}
	res, err := q.ExecContext(ctx,
		`DELETE FROM booking_seats WHERE booking_id IN (`+intdb.Placeholders(len(bookingIDs))+`)`,
		intdb.Int64Args(bookingIDs)...,
	)
	if err != nil {
		return 0, fmt.Errorf("release seats: %w", err)
	}
	return res.RowsAffected()
}

// CountActiveByTrip counts occupied seats on a trip.
func (r BookingSeatRepo) CountActiveByTrip(ctx context.Context, q intdb.Queryer, tripID int64) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM booking_seats WHERE trip_id=? AND `+occupiedSeat, tripID,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count occupied seats: %w", err)
	}
	return n, nil
}

// ListActiveByTrip lists occupied seats in seat-number order.
func (r BookingSeatRepo) ListActiveByTrip(ctx context.Context, q intdb.Queryer, tripID int64) ([]models.LockedSeat, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT seat_number, status, gender
		FROM booking_seats
		WHERE trip_id=? AND `+occupiedSeat+`
		ORDER BY CAST(seat_number AS UNSIGNED), seat_number`, tripID)
	if err != nil {
		return nil, fmt.Errorf("list occupied seats: %w", err)
	}
	defer rows.Close()

	out := []models.LockedSeat{}
	for rows.Next() {
		var (
			ls     models.LockedSeat
			status string
		)
		if err := rows.Scan(&ls.SeatNumber, &status, &ls.Gender); err != nil {
			return out, err
		}
		ls.Status = models.SeatStatus(status)
		out = append(out, ls)
	}
	return out, rows.Err()
}
