package domain

import (
	"errors"
	"fmt"
	"strings"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// SeatConflictError reports seats already claimed by another active booking.
type SeatConflictError struct {
	TripID int64
	Seats  []string
	Err    error
}

func (e SeatConflictError) Error() string {
	if len(e.Seats) == 0 {
		return "seats already taken"
	}
	return fmt.Sprintf("seats already taken: %s", strings.Join(e.Seats, ","))
}

func (e SeatConflictError) Unwrap() error { return e.Err }

// InvalidStateError is returned when an operation is not legal for the
// booking's current status.
type InvalidStateError struct {
	BookingID int64
	Status    string
	Op        string
}

func (e InvalidStateError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("booking %d is %s", e.BookingID, e.Status)
	}
	return fmt.Sprintf("cannot %s booking %d in status %s", e.Op, e.BookingID, e.Status)
}

// BusyError means lock contention exceeded the wait bound. Retry the whole
// operation.
type BusyError struct {
	Err error
}

func (e BusyError) Error() string {
	return "booking store busy, retry"
}

func (e BusyError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

type UnauthorizedError struct {
	Msg string
}

func (e UnauthorizedError) Error() string {
	if e.Msg == "" {
		return "unauthorized"
	}
	return e.Msg
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsSeatConflict(err error) bool {
	var target SeatConflictError
	return errors.As(err, &target)
}

func IsInvalidState(err error) bool {
	var target InvalidStateError
	return errors.As(err, &target)
}

func IsBusy(err error) bool {
	var target BusyError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}

// IsDomain reports whether err already carries a taxonomy kind.
func IsDomain(err error) bool {
	return IsNotFound(err) || IsValidation(err) || IsSeatConflict(err) ||
		IsInvalidState(err) || IsBusy(err) || IsInternal(err) || IsUnauthorized(err)
}
