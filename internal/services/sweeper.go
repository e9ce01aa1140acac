package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"seatbooking/internal/repositories"
	"seatbooking/internal/utils"

	"github.com/jonboulle/clockwork"
)

const defaultSweepBatch = 500

// HoldSweeper expires RESERVED bookings whose hold has lapsed and frees
// their seats. Bookings that a confirm or cancel has locked are skipped and
// picked up on a later pass.
type HoldSweeper struct {
	DB       *sql.DB
	Bookings repositories.BookingRepo
	Seats    repositories.BookingSeatRepo

	Clock       clockwork.Clock
	BatchSize   int
	LockTimeout time.Duration
}

func (s HoldSweeper) batch() int {
	if s.BatchSize > 0 {
		return s.BatchSize
	}
	return defaultSweepBatch
}

// Sweep runs batches until one comes back short and returns how many
// bookings it expired.
func (s HoldSweeper) Sweep(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := s.sweepBatch(ctx)
		total += n
		if err != nil {
			return total, err
		}
		if n < s.batch() {
			break
		}
		if ctx.Err() != nil {
			return total, ctx.Err()
		}
	}
	if total > 0 {
		utils.LogEvent("", "sweeper", "expire_holds", fmt.Sprintf("expired %d holds", total))
	}
	return total, nil
}

func (s HoldSweeper) sweepBatch(ctx context.Context) (int, error) {
	now := clockOrReal(s.Clock).Now().UTC()
	expired := 0
	err := runTx(ctx, s.DB, s.LockTimeout, "", "expire_holds", func(ctx context.Context, tx *sql.Tx) error {
		ids, err := s.Bookings.LockExpiredHolds(ctx, tx, now, s.batch())
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if _, err := s.Bookings.ExpireHolds(ctx, tx, ids, now); err != nil {
			return err
		}
		if _, err := s.Seats.DeleteByBookingIDs(ctx, tx, ids); err != nil {
			return err
		}
		expired = len(ids)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return expired, nil
}
