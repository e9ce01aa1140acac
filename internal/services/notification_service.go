package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"seatbooking/internal/domain/models"
	"seatbooking/internal/notify"
	"seatbooking/internal/repositories"
	"seatbooking/internal/utils"

	"github.com/jonboulle/clockwork"
)

const (
	defaultOutboxBatch = 50
	defaultMaxAttempts = 5
	outboxLease        = 2 * time.Minute
	retryBackoff       = 30 * time.Second
)

func confirmedText(bookingID int64) string {
	return fmt.Sprintf("EasyBus: Booking #%d CONFIRMED.", bookingID)
}

func cancelledText(bookingID int64) string {
	return fmt.Sprintf("EasyBus: Booking #%d CANCELLED.", bookingID)
}

func outboxMessage(kind models.NotificationKind, bookingID int64, recipient string, now time.Time) models.OutboxMessage {
	text := confirmedText(bookingID)
	if kind == models.NotifyBookingCancelled {
		text = cancelledText(bookingID)
	}
	return models.OutboxMessage{
		BookingID:     bookingID,
		Kind:          kind,
		Recipient:     recipient,
		Message:       text,
		Status:        models.OutboxPending,
		NextAttemptAt: now,
		CreatedAt:     now,
	}
}

// NotificationService drains the outbox into a Sink. A failed send never
// touches the booking; it is retried with backoff and eventually marked
// FAILED.
type NotificationService struct {
	DB     *sql.DB
	Outbox repositories.OutboxRepo
	Sink   notify.Sink

	Clock       clockwork.Clock
	BatchSize   int
	MaxAttempts int
	LockTimeout time.Duration
}

// ProcessOutbox claims due messages, sends them outside any transaction and
// records the outcome. It returns how many were delivered.
func (s NotificationService) ProcessOutbox(ctx context.Context) (int, error) {
	if s.Sink == nil {
		return 0, nil
	}
	clock := clockOrReal(s.Clock)
	batch := s.BatchSize
	if batch <= 0 {
		batch = defaultOutboxBatch
	}
	maxAttempts := s.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	var claimed []models.OutboxMessage
	err := runTx(ctx, s.DB, s.LockTimeout, "", "claim_outbox", func(ctx context.Context, tx *sql.Tx) error {
		msgs, err := s.Outbox.ClaimDue(ctx, tx, clock.Now().UTC(), outboxLease, batch)
		claimed = msgs
		return err
	})
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, m := range claimed {
		sendErr := s.Sink.Send(ctx, m.Recipient, m.Message)
		now := clock.Now().UTC()
		switch {
		case sendErr == nil:
			err = s.Outbox.MarkSent(ctx, s.DB, m.ID, now)
			sent++
		case m.Attempts >= maxAttempts:
			utils.LogEvent("", "notify", "send", fmt.Sprintf("giving up on message %d for booking %d: %v", m.ID, m.BookingID, sendErr))
			err = s.Outbox.MarkFailed(ctx, s.DB, m.ID, sendErr)
		default:
			utils.LogEvent("", "notify", "send", fmt.Sprintf("message %d attempt %d failed: %v", m.ID, m.Attempts, sendErr))
			err = s.Outbox.MarkRetry(ctx, s.DB, m.ID, sendErr, now.Add(time.Duration(m.Attempts)*retryBackoff))
		}
		if err != nil {
			utils.LogError("", "notify", "record_outcome", err)
		}
	}
	return sent, nil
}
