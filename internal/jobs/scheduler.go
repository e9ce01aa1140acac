package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"seatbooking/internal/utils"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
)

// Task is one periodic pass. It reports how many items it handled.
type Task func(ctx context.Context) (int, error)

// Scheduler runs background passes such as hold expiry and outbox
// delivery. A pass never overlaps with itself: if it is still running when
// the next tick is due, that tick is skipped.
type Scheduler struct {
	inner  gocron.Scheduler
	ctx    context.Context
	cancel context.CancelFunc
}

func New(clock clockwork.Clock) (*Scheduler, error) {
	opts := []gocron.SchedulerOption{}
	if clock != nil {
		opts = append(opts, gocron.WithClock(clock))
	}
	inner, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("new scheduler: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{inner: inner, ctx: ctx, cancel: cancel}, nil
}

// Every registers task to run every interval under name.
func (s *Scheduler) Every(name string, interval time.Duration, task Task) error {
	if interval <= 0 {
		return errors.New("interval must be positive")
	}
	if task == nil {
		return errors.New("task is required")
	}
	_, err := s.inner.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { s.run(name, task) }),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) run(name string, task Task) {
	n, err := task(s.ctx)
	if err != nil {
		utils.LogError("", "jobs", name, err)
		return
	}
	if n > 0 {
		utils.LogEvent("", "jobs", name, fmt.Sprintf("handled %d", n))
	}
}

// JobNames lists registered passes.
func (s *Scheduler) JobNames() []string {
	out := []string{}
	for _, j := range s.inner.Jobs() {
		out = append(out, j.Name())
	}
	return out
}

func (s *Scheduler) Start() {
	s.inner.Start()
}

// Shutdown cancels running passes and waits for them to return.
func (s *Scheduler) Shutdown() error {
	s.cancel()
	return s.inner.Shutdown()
}
