package services

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"seatbooking/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jonboulle/clockwork"
)

var testNow = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func fakeClock() *clockwork.FakeClock {
	return clockwork.NewFakeClockAt(testNow)
}

// timeArg matches a time.Time argument equal to want.
type timeArg struct{ want time.Time }

func (a timeArg) Match(v driver.Value) bool {
	t, ok := v.(time.Time)
	return ok && t.Equal(a.want)
}

var tripColumns = []string{
	"trip_id", "route_id", "bus_id", "trip_date", "departure_time", "price_per_seat",
	"capacity", "origin", "destination", "bus_number", "bus_name", "ac_type",
}

func tripRows(tripID int64, capacity int) *sqlmock.Rows {
	return sqlmock.NewRows(tripColumns).
		AddRow(tripID, 3, 2, "2026-10-20", "08:30:00", 1500, capacity, "Colombo", "Kandy", "NB-1234", "Express", "AC")
}

var bookingCols = []string{
	"id", "trip_id", "customer_name", "customer_phone", "from_stop_id", "to_stop_id",
	"status", "payment_status", "hold_expires_at", "total_amount", "payment_ref",
	"seat_numbers", "created_at", "updated_at",
}

func bookingRow(id int64, status string, holdUntil any, seats string) *sqlmock.Rows {
	return sqlmock.NewRows(bookingCols).
		AddRow(id, 7, "Nimal Perera", "0771234567", 10, 20, status, "PENDING", holdUntil, 3000, nil, seats, testNow, testNow)
}

var seatCols = []string{"id", "booking_id", "trip_id", "seat_number", "gender", "status", "is_active"}

func adminFixture() models.Admin {
	return models.Admin{ID: 3, FullName: "Front Desk", Username: "staff1", Role: "STAFF"}
}
