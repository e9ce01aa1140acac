package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	intdb "seatbooking/internal/db"
	"seatbooking/internal/domain"
	"seatbooking/internal/domain/models"
)

// TripsRepo reads the trip catalog. It never writes.
type TripsRepo struct{}

func (r TripsRepo) GetTrip(ctx context.Context, q intdb.Queryer, tripID int64) (models.Trip, error) {
	var t models.Trip
	err := q.QueryRowContext(ctx, `
		SELECT t.trip_id, t.route_id, t.bus_id,
			DATE_FORMAT(t.trip_date, '%Y-%m-%d'),
			COALESCE(TIME_FORMAT(t.departure_time, '%H:%i:%s'), ''),
			t.price_per_seat,
			COALESCE(t.seats_override, b.total_seats),
			r.origin, r.destination,
			b.bus_number, b.bus_name, b.ac_type
		FROM trips t
		JOIN routes r ON r.route_id = t.route_id
		JOIN buses  b ON b.bus_id   = t.bus_id
		WHERE t.trip_id=?
		LIMIT 1`, tripID,
	).Scan(
		&t.ID, &t.RouteID, &t.BusID,
		&t.TripDate, &t.DepartureTime,
		&t.PricePerSeat, &t.Capacity,
		&t.Origin, &t.Destination,
		&t.BusNumber, &t.BusName, &t.ACType,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Trip{}, domain.NotFoundError{Resource: "trip", Err: err}
		}
		return models.Trip{}, fmt.Errorf("get trip: %w", err)
	}
	return t, nil
}

// StopSequence returns the position of stopID on the route; ok is false when
// the stop is not part of the route.
func (r TripsRepo) StopSequence(ctx context.Context, q intdb.Queryer, routeID, stopID int64) (int, bool, error) {
	var seq int
	err := q.QueryRowContext(ctx,
		`SELECT seq_no FROM route_stops WHERE route_id=? AND stop_id=? LIMIT 1`,
		routeID, stopID,
	).Scan(&seq)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("stop sequence: %w", err)
	}
	return seq, true, nil
}
