// Package job runs the periodic background work of the server.
package job

import (
	"context"
	"fmt"
	"time"

	"careops/internal/usecase"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// sweepTimeout bounds one reminder run so a stuck provider cannot pile up
// overlapping sweeps.
const sweepTimeout = 5 * time.Minute

type Scheduler struct {
	cron      *cron.Cron
	reminders usecase.ReminderService
	log       *zap.Logger
}

// NewScheduler registers the reminder sweep on spec, any expression
// cron.ParseStandard accepts including descriptors like "@every 15m".
func NewScheduler(spec string, reminders usecase.ReminderService, log *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		reminders: reminders,
		log:       log.With(zap.String("job", "reminder")),
	}

	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return nil, fmt.Errorf("schedule reminders %q: %w", spec, err)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Reminder job started")
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		s.log.Info("Reminder job stopped")
	case <-ctx.Done():
		s.log.Warn("Reminder job did not stop in time")
	}
}

// RunOnce performs one sweep.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	start := time.Now()
	sent, err := s.reminders.SendDueReminders(ctx)
	if err != nil {
		s.log.Error("Reminder sweep failed", zap.Error(err))
		return
	}

	s.log.Info("Reminder sweep finished",
		zap.Int("sent", sent),
		zap.Duration("took", time.Since(start)))
}
