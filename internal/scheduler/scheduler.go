package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"FundSentinel/internal/coordinator"
	"FundSentinel/internal/model"
	"FundSentinel/internal/notifier"
)

// Scheduler runs the decision cycle on a cron schedule and forwards
// noteworthy outcomes to the operator channel.
type Scheduler struct {
	cron     *cron.Cron
	coord    *coordinator.Coordinator
	notifier *notifier.TelegramNotifier // nil when alerting is not configured
	assets   []string
	log      zerolog.Logger
	ctx      context.Context
}

// New creates a Scheduler. notifier may be nil.
func New(ctx context.Context, coord *coordinator.Coordinator, tn *notifier.TelegramNotifier, assets []string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		coord:    coord,
		notifier: tn,
		assets:   assets,
		log:      log.With().Str("component", "scheduler").Logger(),
		ctx:      ctx,
	}
}

// Register adds the decision cycle under the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runCycle); err != nil {
		return fmt.Errorf("register cycle task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow executes the decision cycle immediately (manual trigger or
// RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.runCycle()
}

func (s *Scheduler) runCycle() {
	res := s.coord.RunCycle(s.ctx)

	switch res.Status {
	case model.CycleExecuted:
		s.log.Info().Str("signal_id", res.SignalID).Str("tx_ref", res.TxRef).Msg("cycle executed")
		s.notify(res)
	case model.CycleFailed:
		s.log.Error().Err(res.Err).Str("signal_id", res.SignalID).Msg("cycle failed")
		s.notify(res)
	default:
		s.log.Info().
			Str("signal_id", res.SignalID).
			Str("reason", string(res.SkipReason)).
			Msg("cycle skipped")
	}
}

func (s *Scheduler) notify(res model.CycleResult) {
	if s.notifier == nil {
		return
	}
	report := notifier.FormatCycleReport(s.assets, res)
	if err := s.notifier.SendWithRetry(s.ctx, report, 3); err != nil {
		s.log.Error().Err(err).Msg("sending cycle report failed")
	}
}
