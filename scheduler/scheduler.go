// Package scheduler polls for due reminders in the background and fires a
// notification callback for each one.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"deskmate/model"
)

// DefaultInterval is how often the store is polled for due reminders.
const DefaultInterval = 30 * time.Second

// Store is the reminder surface the scheduler needs.
type Store interface {
	DueReminders(now time.Time) ([]model.Reminder, error)
	MarkReminderTriggered(id int64) error
}

// NotifyFunc receives each due reminder exactly once. The CLI prints;
// a voice front end may speak instead.
type NotifyFunc func(model.Reminder)

// Scheduler drives the reminder loop.
type Scheduler struct {
	store    Store
	interval time.Duration
	notify   NotifyFunc
	log      *zap.Logger
}

// New returns a scheduler. interval <= 0 selects DefaultInterval.
func New(store Store, interval time.Duration, notify NotifyFunc, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{store: store, interval: interval, notify: notify, log: logger}
}

// Run polls until ctx is canceled. It checks once immediately so reminders
// already overdue at startup fire without waiting a full interval.
func (s *Scheduler) Run(ctx context.Context) {
	s.check(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

// check fires and marks every reminder due at this instant. A reminder is
// marked triggered only after its notification ran, so a crash between
// poll and notify re-delivers rather than drops.
func (s *Scheduler) check(ctx context.Context) {
	due, err := s.store.DueReminders(time.Now())
	if err != nil {
		s.log.Warn("reminder poll failed", zap.Error(err))
		return
	}

	for _, reminder := range due {
		if ctx.Err() != nil {
			return
		}
		if s.notify != nil {
			s.notify(reminder)
		}
		if err := s.store.MarkReminderTriggered(reminder.ID); err != nil {
			s.log.Warn("failed to mark reminder triggered",
				zap.Int64("id", reminder.ID), zap.Error(err))
		}
	}
}
