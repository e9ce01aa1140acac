package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	intdb "seatbooking/internal/db"
	"seatbooking/internal/domain"
	"seatbooking/internal/domain/models"
	"seatbooking/internal/utils"
)

type BookingRepo struct{}

const bookingColumns = `b.id, b.trip_id, b.customer_name, b.customer_phone,
	COALESCE(b.from_stop_id, 0), COALESCE(b.to_stop_id, 0),
	b.status, b.payment_status, b.hold_expires_at, COALESCE(b.total_amount, 0),
	b.payment_ref, COALESCE(b.seat_numbers, ''), b.created_at, b.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner, extra ...any) (models.Booking, error) {
	var (
		b          models.Booking
		status     string
		payStatus  string
		holdUntil  sql.NullTime
		paymentRef sql.NullString
		seatList   string
	)
	dest := []any{
		&b.ID, &b.TripID, &b.CustomerName, &b.CustomerPhone,
		&b.FromStopID, &b.ToStopID,
		&status, &payStatus, &holdUntil, &b.TotalAmount,
		&paymentRef, &seatList, &b.CreatedAt, &b.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return models.Booking{}, err
	}
	b.Status = models.BookingStatus(status)
	b.PaymentStatus = models.PaymentStatus(payStatus)
	if holdUntil.Valid {
		t := holdUntil.Time.UTC()
		b.HoldExpiresAt = &t
	}
	if paymentRef.Valid {
		ref := paymentRef.String
		b.PaymentRef = &ref
	}
	b.SeatNumbers = utils.SplitSeatList(seatList)
	return b, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundError{Resource: "booking", Err: err}
	}
	return err
}

// Insert stores a new booking and returns its id.
func (r BookingRepo) Insert(ctx context.Context, q intdb.Queryer, b models.Booking) (int64, error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO bookings
			(trip_id, customer_name, customer_phone, from_stop_id, to_stop_id,
			 status, payment_status, hold_expires_at, total_amount, seat_numbers,
			 created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.TripID, b.CustomerName, b.CustomerPhone, b.FromStopID, b.ToStopID,
		string(b.Status), string(b.PaymentStatus), b.HoldExpiresAt, b.TotalAmount,
		utils.JoinSeatList(b.SeatNumbers), b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert booking: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert booking id: %w", err)
	}
	return id, nil
}

// LockByID reads a booking with an exclusive row lock held until the
// enclosing transaction ends.
func (r BookingRepo) LockByID(ctx context.Context, q intdb.Queryer, id int64) (models.Booking, error) {
	row := q.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.id=? FOR UPDATE`, id)
	b, err := scanBooking(row)
	if err != nil {
		return models.Booking{}, notFound(err)
	}
	return b, nil
}

// GetByID is the non-locking read.
func (r BookingRepo) GetByID(ctx context.Context, q intdb.Queryer, id int64) (models.Booking, error) {
	row := q.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.id=? LIMIT 1`, id)
	b, err := scanBooking(row)
	if err != nil {
		return models.Booking{}, notFound(err)
	}
	return b, nil
}

// MarkConfirmed settles a booking; nil paymentRef/amount keep stored values.
func (r BookingRepo) MarkConfirmed(ctx context.Context, q intdb.Queryer, id int64, paymentRef *string, amount *int64, now time.Time) error {
	sets := []string{
		"status=?", "payment_status=?", "hold_expires_at=NULL", "updated_at=?",
	}
	args := []any{string(models.BookingConfirmed), string(models.PaymentPaid), now}
	if paymentRef != nil {
		sets = append(sets, "payment_ref=?")
		args = append(args, *paymentRef)
	}
	if amount != nil {
		sets = append(sets, "total_amount=?")
		args = append(args, *amount)
	}
	args = append(args, id)
	if _, err := q.ExecContext(ctx, `UPDATE bookings SET `+strings.Join(sets, ", ")+` WHERE id=?`, args...); err != nil {
		return fmt.Errorf("confirm booking: %w", err)
	}
	return nil
}

// SetStatus changes status only; payment fields are left for audit.
func (r BookingRepo) SetStatus(ctx context.Context, q intdb.Queryer, id int64, status models.BookingStatus, now time.Time) error {
	if _, err := q.ExecContext(ctx, `UPDATE bookings SET status=?, updated_at=? WHERE id=?`, string(status), now, id); err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	return nil
}

// LockExpiredHolds locks up to limit RESERVED bookings whose hold lapsed
// before now. Rows already locked by a confirm/cancel are skipped.
func (r BookingRepo) LockExpiredHolds(ctx context.Context, q intdb.Queryer, now time.Time, limit int) ([]int64, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id FROM bookings
		WHERE status=? AND hold_expires_at IS NOT NULL AND hold_expires_at < ?
		ORDER BY id
		LIMIT ?
		FOR UPDATE SKIP LOCKED`,
		string(models.BookingReserved), now, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("select expired holds: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ExpireHolds flips the given RESERVED bookings to EXPIRED.
func (r BookingRepo) ExpireHolds(ctx context.Context, q intdb.Queryer, ids []int64, now time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	args := append([]any{string(models.BookingExpired), now, string(models.BookingReserved)}, intdb.Int64Args(ids)...)
	res, err := q.ExecContext(ctx,
		`UPDATE bookings SET status=?, updated_at=? WHERE status=? AND id IN (`+intdb.Placeholders(len(ids))+`)`,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("expire holds: %w", err)
	}
	return res.RowsAffected()
}

// List returns bookings joined with trip/route info, newest first.
func (r BookingRepo) List(ctx context.Context, q intdb.Queryer, f models.BookingFilter) ([]models.Booking, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.Status != "" {
		where = append(where, "b.status=?")
		args = append(args, string(f.Status))
	}
	if f.Date != "" {
		where = append(where, "t.trip_date=?")
		args = append(args, f.Date)
	}
	if f.TripID > 0 {
		where = append(where, "b.trip_id=?")
		args = append(args, f.TripID)
	}
	args = append(args, f.Limit, f.Offset)

	query := `
		SELECT ` + bookingColumns + `,
			DATE_FORMAT(t.trip_date, '%Y-%m-%d'), COALESCE(TIME_FORMAT(t.departure_time, '%H:%i:%s'), ''),
			r.origin, r.destination
		FROM bookings b
		JOIN trips  t ON t.trip_id  = b.trip_id
		JOIN routes r ON r.route_id = t.route_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT ? OFFSET ?`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		var tripDate, depTime, origin, destination string
		b, err := scanBooking(rows, &tripDate, &depTime, &origin, &destination)
		if err != nil {
			return out, err
		}
		b.TripDate = tripDate
		b.DepartureTime = depTime
		b.Origin = origin
		b.Destination = destination
		out = append(out, b)
	}
	return out, rows.Err()
}
