package handlers

import (
	"context"
	"database/sql"

	"seatbooking/internal/domain"
	"seatbooking/internal/domain/models"
	"seatbooking/internal/services"
)

// Reservations is the booking lifecycle used by the handlers.
type Reservations interface {
	CreateHold(ctx context.Context, req models.HoldRequest) (models.HoldResult, error)
	ConfirmBooking(ctx context.Context, req models.ConfirmRequest) (models.Booking, error)
	CancelBooking(ctx context.Context, bookingID int64) (models.Booking, error)
	GetBooking(ctx context.Context, bookingID int64) (models.Booking, error)
	ListBookings(ctx context.Context, f models.BookingFilter) ([]models.Booking, error)
}

type Capacity interface {
	Availability(ctx context.Context, tripID int64) (models.Availability, error)
	SeatMap(ctx context.Context, tripID int64) (models.SeatMap, error)
}

type Tickets interface {
	GenerateETicket(ctx context.Context, bookingID int64) ([]byte, string, error)
}

type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, models.Admin, error)
	ParseToken(raw string) (domain.RequestContext, error)
}

// API bundles what the HTTP handlers call into. Tests swap in fakes for
// any of the interfaces.
type API struct {
	DB           *sql.DB
	Reservations Reservations
	Capacity     Capacity
	Tickets      Tickets
	Auth         Authenticator
}

// NewAPI wires the concrete services.
func NewAPI(db *sql.DB, rs services.ReservationService, cs services.CapacityService, ds services.DocsService, as services.AuthService) *API {
	return &API{
		DB:           db,
		Reservations: requestScoped{rs: rs},
		Capacity:     capacityScoped{cs: cs},
		Tickets:      ticketsScoped{ds: ds},
		Auth:         authScoped{as: as},
	}
}

type requestIDKey struct{}

// WithRequestID stores the request id so scoped services can log it.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

func requestID(ctx context.Context) string {
	rid, _ := ctx.Value(requestIDKey{}).(string)
	return rid
}

type requestScoped struct{ rs services.ReservationService }

func (r requestScoped) svc(ctx context.Context) services.ReservationService {
	s := r.rs
	s.RequestID = requestID(ctx)
	return s
}

func (r requestScoped) CreateHold(ctx context.Context, req models.HoldRequest) (models.HoldResult, error) {
	return r.svc(ctx).CreateHold(ctx, req)
}

func (r requestScoped) ConfirmBooking(ctx context.Context, req models.ConfirmRequest) (models.Booking, error) {
	return r.svc(ctx).ConfirmBooking(ctx, req)
}

func (r requestScoped) CancelBooking(ctx context.Context, id int64) (models.Booking, error) {
	return r.svc(ctx).CancelBooking(ctx, id)
}

func (r requestScoped) GetBooking(ctx context.Context, id int64) (models.Booking, error) {
	return r.svc(ctx).GetBooking(ctx, id)
}

func (r requestScoped) ListBookings(ctx context.Context, f models.BookingFilter) ([]models.Booking, error) {
	return r.svc(ctx).ListBookings(ctx, f)
}

type capacityScoped struct{ cs services.CapacityService }

func (c capacityScoped) Availability(ctx context.Context, tripID int64) (models.Availability, error) {
	s := c.cs
	s.RequestID = requestID(ctx)
	return s.Availability(ctx, tripID)
}

func (c capacityScoped) SeatMap(ctx context.Context, tripID int64) (models.SeatMap, error) {
	s := c.cs
	s.RequestID = requestID(ctx)
	return s.SeatMap(ctx, tripID)
}

type ticketsScoped struct{ ds services.DocsService }

func (t ticketsScoped) GenerateETicket(ctx context.Context, bookingID int64) ([]byte, string, error) {
	s := t.ds
	s.RequestID = requestID(ctx)
	return s.GenerateETicket(ctx, bookingID)
}

type authScoped struct{ as services.AuthService }

func (a authScoped) Login(ctx context.Context, username, password string) (string, models.Admin, error) {
	s := a.as
	s.RequestID = requestID(ctx)
	return s.Login(ctx, username, password)
}

func (a authScoped) ParseToken(raw string) (domain.RequestContext, error) {
	return a.as.ParseToken(raw)
}
