package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

func TestErrorClassification(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062})
	if !IsDuplicateKey(dup) || IsLockContention(dup) {
		t.Fatalf("1062 misclassified")
	}
	for _, n := range []uint16{1205, 1213} {
		if !IsLockContention(&mysql.MySQLError{Number: n}) {
			t.Fatalf("%d should be lock contention", n)
		}
	}
	if !IsLockContention(fmt.Errorf("wrap: %w", context.DeadlineExceeded)) {
		t.Fatalf("deadline should be lock contention")
	}
	if IsLockContention(nil) || IsDuplicateKey(errors.New("other")) {
		t.Fatalf("unexpected classification")
	}
}

func TestPlaceholders(t *testing.T) {
	if got := Placeholders(3); got != "?,?,?" {
		t.Fatalf("Placeholders(3) = %q", got)
	}
	if got := Placeholders(0); got != "" {
		t.Fatalf("Placeholders(0) = %q", got)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err = WithTx(context.Background(), conn, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(context.Background(), "UPDATE bookings SET status='X'")
		return err
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWithTxCommits(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = WithTx(context.Background(), conn, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(context.Background(), "UPDATE bookings SET status='X'")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
