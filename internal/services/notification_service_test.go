package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

type recordingSink struct {
	err  error
	sent []string
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Send(_ context.Context, to, message string) error {
	s.sent = append(s.sent, to+"|"+message)
	return s.err
}

var outboxCols = []string{
	"id", "booking_id", "kind", "recipient", "message", "status", "attempts",
	"last_error", "next_attempt_at", "created_at",
}

func expectClaim(mock sqlmock.Sqlmock, attempts int) {
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM notification_outbox`).WithArgs("PENDING", timeArg{testNow}, 50).
		WillReturnRows(sqlmock.NewRows(outboxCols).
			AddRow(1, 42, "BOOKING_CONFIRMED", "0771234567", "EasyBus: Booking #42 CONFIRMED.", "PENDING", attempts, "", testNow, testNow))
	mock.ExpectExec(`UPDATE notification_outbox SET attempts=attempts\+1, next_attempt_at=\? WHERE id IN \(\?\)`).
		WithArgs(timeArg{testNow.Add(outboxLease)}, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

func TestProcessOutboxDelivers(t *testing.T) {
	db, mock := newMock(t)
	sink := &recordingSink{}
	svc := NotificationService{DB: db, Sink: sink, Clock: fakeClock()}

	expectClaim(mock, 0)
	mock.ExpectExec(`UPDATE notification_outbox SET status=\?, sent_at=\?`).WithArgs("SENT", timeArg{testNow}, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := svc.ProcessOutbox(context.Background())
	if err != nil {
		t.Fatalf("ProcessOutbox returned error: %v", err)
	}
	if n != 1 || len(sink.sent) != 1 || sink.sent[0] != "0771234567|EasyBus: Booking #42 CONFIRMED." {
		t.Fatalf("unexpected delivery n=%d sent=%v", n, sink.sent)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProcessOutboxRetriesFailedSend(t *testing.T) {
	db, mock := newMock(t)
	sink := &recordingSink{err: errors.New("provider down")}
	svc := NotificationService{DB: db, Sink: sink, Clock: fakeClock()}

	expectClaim(mock, 0)
	mock.ExpectExec(`UPDATE notification_outbox SET last_error=\?, next_attempt_at=\? WHERE id=\?`).
		WithArgs("provider down", timeArg{testNow.Add(retryBackoff)}, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := svc.ProcessOutbox(context.Background())
	if err != nil {
		t.Fatalf("ProcessOutbox returned error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected nothing delivered, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProcessOutboxGivesUpAfterMaxAttempts(t *testing.T) {
	db, mock := newMock(t)
	sink := &recordingSink{err: errors.New("invalid number")}
	svc := NotificationService{DB: db, Sink: sink, Clock: fakeClock(), MaxAttempts: 3}

	expectClaim(mock, 2)
	mock.ExpectExec(`UPDATE notification_outbox SET status=\?, last_error=\? WHERE id=\?`).
		WithArgs("FAILED", "invalid number", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if _, err := svc.ProcessOutbox(context.Background()); err != nil {
		t.Fatalf("ProcessOutbox returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOutboxMessageTexts(t *testing.T) {
	if got := cancelledText(7); got != "EasyBus: Booking #7 CANCELLED." {
		t.Fatalf("unexpected cancel text %q", got)
	}
	if got := confirmedText(7); got != "EasyBus: Booking #7 CONFIRMED." {
		t.Fatalf("unexpected confirm text %q", got)
	}
}
