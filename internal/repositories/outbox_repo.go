package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	intdb "seatbooking/internal/db"
	"seatbooking/internal/domain/models"
	"seatbooking/internal/utils"
)

type OutboxRepo struct{}

// Enqueue records a notification inside the caller's transaction.
func (r OutboxRepo) Enqueue(ctx context.Context, q intdb.Queryer, m models.OutboxMessage) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO notification_outbox
			(booking_id, kind, recipient, message, status, attempts, next_attempt_at, created_at)
		VALUES (?,?,?,?,?,0,?,?)`,
		m.BookingID, string(m.Kind), m.Recipient, m.Message, string(models.OutboxPending),
		m.NextAttemptAt, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}

// ClaimDue locks up to limit pending messages due at now, bumps their
// attempt counter and pushes next_attempt_at out by lease so a crashed
// worker's claim lapses instead of sticking.
func (r OutboxRepo) ClaimDue(ctx context.Context, q intdb.Queryer, now time.Time, lease time.Duration, limit int) ([]models.OutboxMessage, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, booking_id, kind, recipient, message, status, attempts,
			COALESCE(last_error, ''), next_attempt_at, created_at
		FROM notification_outbox
		WHERE status=? AND next_attempt_at <= ?
		ORDER BY id
		LIMIT ?
		FOR UPDATE SKIP LOCKED`,
		string(models.OutboxPending), now, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("claim notifications: %w", err)
	}

	out := []models.OutboxMessage{}
	for rows.Next() {
		var (
			m      models.OutboxMessage
			kind   string
			status string
		)
		if err := rows.Scan(&m.ID, &m.BookingID, &kind, &m.Recipient, &m.Message, &status,
			&m.Attempts, &m.LastError, &m.NextAttemptAt, &m.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		m.Kind = models.NotificationKind(kind)
		m.Status = models.OutboxStatus(status)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(out) == 0 {
		return out, nil
	}
	ids := make([]int64, 0, len(out))
	for i := range out {
		ids = append(ids, out[i].ID)
		out[i].Attempts++
	}
	args := append([]any{now.Add(lease)}, intdb.Int64Args(ids)...)
	if _, err := q.ExecContext(ctx,
		`UPDATE notification_outbox SET attempts=attempts+1, next_attempt_at=? WHERE id IN (`+intdb.Placeholders(len(ids))+`)`,
		args...,
	); err != nil {
		return nil, fmt.Errorf("lease notifications: %w", err)
	}
	return out, nil
}

func (r OutboxRepo) MarkSent(ctx context.Context, q intdb.Queryer, id int64, now time.Time) error {
	if _, err := q.ExecContext(ctx,
		`UPDATE notification_outbox SET status=?, sent_at=?, last_error=NULL WHERE id=?`,
		string(models.OutboxSent), now, id,
	); err != nil {
		return fmt.Errorf("mark notification sent: %w", err)
	}
	return nil
}

// MarkRetry records a failed attempt and schedules the next one.
func (r OutboxRepo) MarkRetry(ctx context.Context, q intdb.Queryer, id int64, sendErr error, next time.Time) error {
	if _, err := q.ExecContext(ctx,
		`UPDATE notification_outbox SET last_error=?, next_attempt_at=? WHERE id=?`,
		errText(sendErr), next, id,
	); err != nil {
		return fmt.Errorf("reschedule notification: %w", err)
	}
	return nil
}

// MarkFailed gives up on a message.
func (r OutboxRepo) MarkFailed(ctx context.Context, q intdb.Queryer, id int64, sendErr error) error {
	if _, err := q.ExecContext(ctx,
		`UPDATE notification_outbox SET status=?, last_error=? WHERE id=?`,
		string(models.OutboxFailed), errText(sendErr), id,
	); err != nil {
		return fmt.Errorf("mark notification failed: %w", err)
	}
	return nil
}

func errText(err error) sql.NullString {
	if err == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: utils.Truncate(err.Error(), 500), Valid: true}
}
