package models

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingReserved  BookingStatus = "RESERVED"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingExpired   BookingStatus = "EXPIRED"
)

// ParseBookingStatus accepts any casing; ok is false for unknown values.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case BookingReserved:
		return BookingReserved, true
	case BookingConfirmed:
		return BookingConfirmed, true
	case BookingCancelled:
		return BookingCancelled, true
	case BookingExpired:
		return BookingExpired, true
	}
	return "", false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
)

// SeatStatus mirrors the owning booking while the seat is occupied.
type SeatStatus string

const (
	SeatReserved  SeatStatus = "RESERVED"
	SeatConfirmed SeatStatus = "CONFIRMED"
)

const (
	GenderMale   = "M"
	GenderFemale = "F"
)

// Booking is one customer's reservation on one trip.
type Booking struct {
	ID            int64         `json:"booking_id"`
	TripID        int64         `json:"trip_id"`
	CustomerName  string        `json:"customer_name"`
	CustomerPhone string        `json:"customer_phone"`
	FromStopID    int64         `json:"from_stop_id"`
	ToStopID      int64         `json:"to_stop_id"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	HoldExpiresAt *time.Time    `json:"hold_expires_at"`
	TotalAmount   int64         `json:"total_amount"`
	PaymentRef    *string       `json:"payment_ref"`
	SeatNumbers   []string      `json:"seat_numbers"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	// Populated by GetBooking.
	Seats []BookingSeat `json:"seats,omitempty"`

	// Populated by ListBookings from the trip/route join.
	TripDate      string `json:"trip_date,omitempty"`
	DepartureTime string `json:"departure_time,omitempty"`
	Origin        string `json:"origin,omitempty"`
	Destination   string `json:"destination,omitempty"`
}

// BookingSeat is a seat lock: one booking's claim on one seat of one trip.
type BookingSeat struct {
	ID         int64      `json:"-"`
	BookingID  int64      `json:"booking_id"`
	TripID     int64      `json:"trip_id"`
	SeatNumber string     `json:"seat_number"`
	Gender     string     `json:"gender"`
	Status     SeatStatus `json:"status"`
	IsActive   bool       `json:"is_active"`
}

// HoldRequest asks for a time-bounded hold on an ordered list of seats.
type HoldRequest struct {
	TripID         int64
	Seats          []string
	Genders        []string
	CustomerName   string
	CustomerPhone  string
	FromStopID     int64
	ToStopID       int64
	ExpectedAmount *int64
}

type HoldResult struct {
	BookingID     int64     `json:"booking_id"`
	HoldExpiresAt time.Time `json:"hold_expires_at"`
	TotalAmount   int64     `json:"total_amount"`
	Seats         []string  `json:"seats"`
}

type ConfirmRequest struct {
	BookingID  int64
	PaymentRef *string
	Amount     *int64
	NotifyTo   string
}

// BookingFilter drives ListBookings. Zero values mean "no filter".
type BookingFilter struct {
	Status BookingStatus
	Date   string
	TripID int64
	Limit  int
	Offset int
}
