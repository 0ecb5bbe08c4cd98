// Package scheduler triggers sync passes on a cron schedule, in addition to
// the connectivity and user triggers.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/jobkeeper/internal/logging"
	"github.com/robfig/cron/v3"
)

var ErrDisabled = errors.New("schedule disabled")

type Scheduler struct {
	spec     string
	schedule cron.Schedule
	cron     *cron.Cron
	log      logging.Logger
}

// Validate checks a standard five-field spec or a descriptor such as
// "@every 15m".
func Validate(spec string) error {
	if spec == "" {
		return ErrDisabled
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	return nil
}

// New returns ErrDisabled for an empty spec.
func New(spec string, log logging.Logger) (*Scheduler, error) {
	if err := Validate(spec); err != nil {
		return nil, err
	}
	schedule, _ := cron.ParseStandard(spec)
	if log == nil {
		log = logging.Nop()
	}
	return &Scheduler{
		spec:     spec,
		schedule: schedule,
		cron:     cron.New(),
		log:      log.With("component", "scheduler"),
	}, nil
}

// Next is the first activation after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Start runs job on every activation until ctx is done. job should block
// for the whole run: activations that fire while it is still going are
// skipped.
func (s *Scheduler) Start(ctx context.Context, job func(ctx context.Context)) error {
	wrapped := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
		if ctx.Err() != nil {
			return
		}
		s.log.Debug(ctx, "scheduled sync")
		job(ctx)
	}))
	if _, err := s.cron.AddJob(s.spec, wrapped); err != nil {
		return fmt.Errorf("schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.log.Info(ctx, "sync schedule active", "spec", s.spec, "next", s.Next(time.Now()))

	go func() {
		<-ctx.Done()
		<-s.cron.Stop().Done()
	}()
	return nil
}
