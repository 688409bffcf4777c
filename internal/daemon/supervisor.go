package daemon

import (
	"context"
	"time"

	"github.com/freedesk/mailroom/internal/logger"
	"github.com/freedesk/mailroom/internal/tracing"
)

// Supervisor repeatedly invokes a task with a fixed pause between runs.
// It is the non-cron scheduling mode: one run starts only after the
// previous one finished, so runs never overlap.
type Supervisor struct {
	name     string
	interval time.Duration
	task     func(ctx context.Context)
	log      logger.Logger
}

func NewSupervisor(name string, interval time.Duration, task func(ctx context.Context), log logger.Logger) *Supervisor {
	return &Supervisor{
		name:     name,
		interval: interval,
		task:     task,
		log:      log,
	}
}

// Run blocks until ctx is cancelled. The task runs once immediately and
// then every interval; a panic in one run is logged and the loop keeps
// going.
func (s *Supervisor) Run(ctx context.Context) {
	s.log.Infof("%s daemon started, interval %s", s.name, s.interval)

	for {
		s.runOnce(ctx)

		select {
		case <-ctx.Done():
			s.log.Infof("%s daemon stopped", s.name)
			return
		case <-time.After(s.interval):
		}
	}
}

func (s *Supervisor) runOnce(ctx context.Context) {
	defer tracing.RecoverAndLogToJaeger(s.log)
	s.task(ctx)
}
