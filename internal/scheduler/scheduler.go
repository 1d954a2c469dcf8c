// Package scheduler drives periodic and on-demand refresh cycles.
package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/osintlab/conflictradar/internal/monitor"
	"github.com/osintlab/conflictradar/pkg/alert"
)

// Refresher is the slice of the monitor the scheduler drives.
type Refresher interface {
	RefreshAll(ctx context.Context) ([]monitor.Item, error)
	SituationThreats() map[string]monitor.ThreatState
}

// Archiver records each published cycle. Optional.
type Archiver interface {
	SaveCycle(ctx context.Context, at time.Time, items []monitor.Item) error
}

// Scheduler runs refresh cycles on a fixed interval and on manual
// triggers. Cycles execute on a single goroutine, so at most one is in
// flight at any time; triggers arriving mid-cycle coalesce into one
// pending run.
type Scheduler struct {
	refresher Refresher
	alerts    *alert.Manager
	archive   Archiver
	interval  time.Duration
	trigger   chan struct{}
	log       *logrus.Logger
	now       func() time.Time
}

// New creates a scheduler. interval <= 0 disables the timer, leaving
// manual triggers only. archive may be nil.
func New(r Refresher, alerts *alert.Manager, archive Archiver, interval time.Duration, log *logrus.Logger) *Scheduler {
	if log == nil {
		log = logrus.New()
	}
	if alerts == nil {
		alerts = alert.NewManager(nil)
	}
	return &Scheduler{
		refresher: r,
		alerts:    alerts,
		archive:   archive,
		interval:  interval,
		trigger:   make(chan struct{}, 1),
		log:       log,
		now:       time.Now,
	}
}

// Trigger requests a refresh cycle and returns the trigger time. It
// never blocks: if a trigger is already pending the two coalesce.
func (s *Scheduler) Trigger() time.Time {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
	return s.now()
}

// Run executes cycles until ctx is cancelled. An initial cycle runs on
// start so the snapshot is populated before the first tick.
func (s *Scheduler) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	s.log.WithField("interval", s.interval).Info("scheduler started")
	s.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return ctx.Err()
		case <-tick:
			s.cycle(ctx)
		case <-s.trigger:
			s.cycle(ctx)
		}
	}
}

// cycle runs one refresh and the follow-up work: escalation alerts and
// optional archiving. No error escapes; the loop must survive any
// single cycle failing.
func (s *Scheduler) cycle(ctx context.Context) {
	before := s.refresher.SituationThreats()

	items, err := s.refresher.RefreshAll(ctx)
	if err != nil {
		s.log.WithError(err).Warn("refresh cycle incomplete")
	}
	at := s.now()

	s.notifyEscalations(ctx, before, s.refresher.SituationThreats(), at)

	if s.archive != nil {
		if err := s.archive.SaveCycle(ctx, at, items); err != nil {
			s.log.WithError(err).Warn("archive write failed")
		}
	}
}

func (s *Scheduler) notifyEscalations(ctx context.Context, before, after map[string]monitor.ThreatState, at time.Time) {
	if !s.alerts.HasNotifiers() {
		return
	}

	for key, state := range after {
		prev := before[key]
		if state.Level.Rank() <= prev.Level.Rank() {
			continue
		}

		e := &alert.Escalation{
			Situation: key,
			Name:      state.Name,
			Level:     string(state.Level),
			Previous:  string(prev.Level),
			Count:     state.Count,
			At:        at,
		}
		if err := s.alerts.Broadcast(ctx, e); err != nil {
			s.log.WithField("situation", key).WithError(err).Warn("alert delivery failed")
			continue
		}
		s.log.WithFields(logrus.Fields{"situation": key, "level": state.Level}).Info("escalation alerted")
	}
}
