package repositories

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"seatbooking/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMarkConfirmedOnlySetsGivenFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	ref := "PAY1"

	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE bookings SET status=?, payment_status=?, hold_expires_at=NULL, updated_at=?, payment_ref=? WHERE id=?",
	)).WithArgs("CONFIRMED", "PAID", now, "PAY1", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := (BookingRepo{}).MarkConfirmed(context.Background(), db, 9, &ref, nil, now); err != nil {
		t.Fatalf("MarkConfirmed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLockByIDMissingIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM bookings b WHERE b.id=\? FOR UPDATE`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err = (BookingRepo{}).LockByID(context.Background(), db, 404)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFindActiveConflictsReportsOccupiedSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT seat_number FROM booking_seats\s+WHERE trip_id=\? AND seat_number IN \(\?,\?\) AND is_active=1 .*\s+ORDER BY id`).
		WithArgs(int64(7), "12", "13").
		WillReturnRows(sqlmock.NewRows([]string{"seat_number"}).AddRow("13"))

	got, err := (BookingSeatRepo{}).FindActiveConflicts(context.Background(), db, 7, []string{"12", "13"})
	if err != nil {
		t.Fatalf("FindActiveConflicts: %v", err)
	}
	if len(got) != 1 || got[0] != "13" {
		t.Fatalf("unexpected conflicts %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteByBookingIDsSkipsEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	n, err := (BookingSeatRepo{}).DeleteByBookingIDs(context.Background(), db, nil)
	if err != nil || n != 0 {
		t.Fatalf("expected no-op, got %d, %v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected queries: %v", err)
	}
}
