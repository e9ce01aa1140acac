package services

import (
	"context"
	"database/sql"
	"time"

	intdb "seatbooking/internal/db"
	"seatbooking/internal/domain"
	"seatbooking/internal/domain/models"
	"seatbooking/internal/repositories"
	"seatbooking/internal/utils"
)

// CapacityService answers "how many seats are left" straight from the
// ledger. Nothing is cached.
type CapacityService struct {
	DB    *sql.DB
	Trips repositories.TripsRepo
	Seats repositories.BookingSeatRepo

	LockTimeout time.Duration
	RequestID   string
}

func (s CapacityService) Availability(ctx context.Context, tripID int64) (models.Availability, error) {
	if tripID <= 0 {
		return models.Availability{}, domain.ValidationError{Field: "trip_id", Msg: "must be positive"}
	}
	var out models.Availability
	err := runRead(ctx, s.DB, s.LockTimeout, s.RequestID, "availability", func(ctx context.Context, q intdb.Queryer) error {
		trip, err := s.Trips.GetTrip(ctx, q, tripID)
		if err != nil {
			return err
		}
		occupied, err := s.Seats.CountActiveByTrip(ctx, q, tripID)
		if err != nil {
			return err
		}
		available := trip.Capacity - occupied
		if available < 0 {
			available = 0
		}
		out = models.Availability{
			TripID:    trip.ID,
			Capacity:  trip.Capacity,
			Occupied:  occupied,
			Available: available,
		}
		return nil
	})
	return out, err
}

// SeatMap returns the trip header, its seat labels and the occupied seats.
func (s CapacityService) SeatMap(ctx context.Context, tripID int64) (models.SeatMap, error) {
	if tripID <= 0 {
		return models.SeatMap{}, domain.ValidationError{Field: "trip_id", Msg: "must be positive"}
	}
	var out models.SeatMap
	err := runRead(ctx, s.DB, s.LockTimeout, s.RequestID, "seat_map", func(ctx context.Context, q intdb.Queryer) error {
		trip, err := s.Trips.GetTrip(ctx, q, tripID)
		if err != nil {
			return err
		}
		locked, err := s.Seats.ListActiveByTrip(ctx, q, tripID)
		if err != nil {
			return err
		}
		out = models.SeatMap{
			Trip:        trip,
			Layout:      utils.SeatLabels(trip.Capacity),
			LockedSeats: locked,
		}
		return nil
	})
	return out, err
}
