package services

import (
	"context"
	"database/sql"
	"time"

	intdb "seatbooking/internal/db"
	"seatbooking/internal/domain"
	"seatbooking/internal/utils"

	"github.com/jonboulle/clockwork"
)

const defaultLockTimeout = 5 * time.Second

func clockOrReal(c clockwork.Clock) clockwork.Clock {
	if c != nil {
		return c
	}
	return clockwork.NewRealClock()
}

func timeoutOr(d time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return defaultLockTimeout
}

// runTx runs fn in one transaction bounded by timeout and maps whatever
// comes back onto the domain error taxonomy.
func runTx(ctx context.Context, conn *sql.DB, timeout time.Duration, requestID, action string, fn func(ctx context.Context, tx *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeoutOr(timeout))
	defer cancel()

	err := intdb.WithTx(ctx, conn, func(tx *sql.Tx) error {
		return fn(ctx, tx)
	})
	return classify(requestID, action, err)
}

// runRead is runTx for plain reads on the pool.
func runRead(ctx context.Context, conn *sql.DB, timeout time.Duration, requestID, action string, fn func(ctx context.Context, q intdb.Queryer) error) error {
	if conn == nil {
		return classify(requestID, action, domain.InternalError{Msg: "db not available"})
	}
	ctx, cancel := context.WithTimeout(ctx, timeoutOr(timeout))
	defer cancel()
	return classify(requestID, action, fn(ctx, conn))
}

func classify(requestID, action string, err error) error {
	switch {
	case err == nil:
		return nil
	case domain.IsDomain(err):
		if domain.IsInternal(err) {
			utils.LogError(requestID, "reservation", action, err)
		}
		return err
	case intdb.IsLockContention(err):
		utils.LogEvent(requestID, "reservation", action, "lock contention: "+err.Error())
		return domain.BusyError{Err: err}
	default:
		utils.LogError(requestID, "reservation", action, err)
		return domain.InternalError{Msg: action + " failed", Err: err}
	}
}
