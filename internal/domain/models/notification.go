package models

import "time"

type NotificationKind string

const (
	NotifyBookingConfirmed NotificationKind = "BOOKING_CONFIRMED"
	NotifyBookingCancelled NotificationKind = "BOOKING_CANCELLED"
)

type OutboxStatus string

const (
	OutboxPending OutboxStatus = "PENDING"
	OutboxSent    OutboxStatus = "SENT"
	OutboxFailed  OutboxStatus = "FAILED"
)

// OutboxMessage is a notification recorded in the same transaction as the
// booking change it announces and delivered after commit.
type OutboxMessage struct {
	ID            int64
	BookingID     int64
	Kind          NotificationKind
	Recipient     string
	Message       string
	Status        OutboxStatus
	Attempts      int
	LastError     string
	NextAttemptAt time.Time
	CreatedAt     time.Time
}
