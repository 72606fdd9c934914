// Package reminder runs the follow-up reminder sweep on a cron schedule.
// Due reminders are claimed and cleared in one statement at the store, so
// overlapping sweeps never announce the same reminder twice.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"apptracker/internal/lifecycle"
)

const sweepTimeout = 30 * time.Second

// Source claims and returns the applications whose reminder has come due.
type Source interface {
	DueReminders(ctx context.Context, now time.Time) ([]lifecycle.Application, error)
}

// Announcer publishes a due reminder to downstream consumers.
type Announcer interface {
	ReminderDue(ctx context.Context, app *lifecycle.Application) error
}

// Scheduler periodically publishes EVENT_REMINDER_DUE for applications
// whose reminder timestamp has passed.
type Scheduler struct {
	source Source
	pub    Announcer
	cron   *cron.Cron
}

// New returns a Scheduler sweeping on the given cron spec (standard
// five-field or @every syntax).
func New(source Source, pub Announcer, spec string) (*Scheduler, error) {
	s := &Scheduler{source: source, pub: pub, cron: cron.New()}
	if _, err := s.cron.AddFunc(spec, s.Sweep); err != nil {
		return nil, fmt.Errorf("reminder schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins the sweep schedule.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the schedule and waits for an in-flight sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep runs one sweep immediately: it claims all due reminders and
// announces each. A failed announce is logged and does not stop the
// remaining ones. The cron schedule calls this on every tick.
func (s *Scheduler) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	due, err := s.source.DueReminders(ctx, time.Now())
	if err != nil {
		slog.Warn("reminder sweep failed", "err", err)
		return
	}
	for i := range due {
		app := &due[i]
		if err := s.pub.ReminderDue(ctx, app); err != nil {
			slog.Warn("publish reminder failed", "applicationId", app.ID, "err", err)
		}
	}
	if len(due) > 0 {
		slog.Info("reminders published", "count", len(due))
	}
}
