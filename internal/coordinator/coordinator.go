// Package coordinator runs the rebalancing decision cycle: pull a signal,
// dedupe it against the ledger, measure drift against the fund's live
// allocation, and submit a single set-and-rebalance request when warranted.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"FundSentinel/internal/drift"
	"FundSentinel/internal/fund"
	"FundSentinel/internal/ledger"
	"FundSentinel/internal/model"
	"FundSentinel/internal/signals"
)

const defaultCallTimeout = 30 * time.Second

// Config carries the per-fund decision parameters. It is passed in at
// construction; the coordinator has no ambient state.
type Config struct {
	FundID       string
	AssetCount   int
	ThresholdBPS int64
	GasLimit     uint64

	// Fallback replaces a malformed signal allocation. Defaults to the
	// equal split for AssetCount.
	Fallback model.WeightVector

	// CallTimeout bounds every external call (source and fund). A timed
	// out call fails the cycle, it never hangs it.
	CallTimeout time.Duration
}

// Coordinator orchestrates one decision cycle per invocation.
type Coordinator struct {
	cfg    Config
	source signals.Source
	ledger ledger.Ledger
	fund   fund.Client
	log    zerolog.Logger

	// mu serializes cycles for this fund: ledger check, drift read and
	// submission share external state with no locking of its own.
	mu sync.Mutex
}

func New(cfg Config, src signals.Source, led ledger.Ledger, fc fund.Client, log zerolog.Logger) *Coordinator {
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = defaultCallTimeout
	}
	if cfg.Fallback == nil {
		cfg.Fallback = model.EqualSplit(cfg.AssetCount)
	}
	return &Coordinator{
		cfg:    cfg,
		source: src,
		ledger: led,
		fund:   fc,
		log:    log.With().Str("component", "coordinator").Str("fund_id", cfg.FundID).Logger(),
	}
}

// VerifyFund checks the deployed fund against the configured asset count.
// A mismatch is a configuration error and must abort startup, not surface
// per cycle.
func (c *Coordinator) VerifyFund(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	info, err := c.fund.Info(callCtx, c.cfg.FundID)
	if err != nil {
		return fmt.Errorf("fund info: %w", err)
	}
	if len(info.Assets) != c.cfg.AssetCount {
		return fmt.Errorf("fund %s has %d assets, configured for %d", c.cfg.FundID, len(info.Assets), c.cfg.AssetCount)
	}
	if err := c.cfg.Fallback.Validate(c.cfg.AssetCount); err != nil {
		return fmt.Errorf("fallback weights: %w", err)
	}
	return nil
}

// RunCycle executes one decision cycle and returns its terminal outcome.
// Overlapping invocations for the same fund are refused rather than queued:
// the second caller gets a cycle_in_progress skip.
func (c *Coordinator) RunCycle(ctx context.Context) model.CycleResult {
	if !c.mu.TryLock() {
		c.log.Warn().Msg("previous cycle still running, refusing overlap")
		return model.CycleResult{Status: model.CycleSkipped, SkipReason: model.SkipCycleInProgress}
	}
	defer c.mu.Unlock()

	log := c.log.With().Str("cycle_id", uuid.NewString()).Logger()

	// Fetching: pull the latest signal.
	ev, err := c.fetchSignal(ctx)
	if err != nil {
		if errors.Is(err, model.ErrNoNewSignal) {
			log.Info().Msg("no new signal")
			return model.CycleResult{Status: model.CycleSkipped, SkipReason: model.SkipNoNewSignal}
		}
		log.Error().Err(err).Msg("signal fetch failed")
		return model.CycleResult{Status: model.CycleFailed, Err: err}
	}
	if ev == nil || ev.ID == "" {
		log.Warn().Msg("source returned signal without provenance, skipping")
		return model.CycleResult{Status: model.CycleSkipped, SkipReason: model.SkipInvalidSignal}
	}
	log = log.With().Str("signal_id", ev.ID).Logger()

	// A malformed allocation must never strand the fund or crash the
	// cycle: substitute the configured safe default and carry on.
	target := ev.Weights
	fallbackApplied := false
	if err := target.Validate(c.cfg.AssetCount); err != nil {
		log.Warn().Err(err).
			Str("raw_weights", ev.Weights.String()).
			Str("fallback", c.cfg.Fallback.String()).
			Msg("invalid signal weights, applying fallback")
		target = c.cfg.Fallback.Clone()
		fallbackApplied = true
	}

	// CheckingLedger: a consumed signal is a no-op, no new entry.
	seen, err := c.ledger.HasProcessed(ctx, ev.ID)
	if err != nil {
		log.Error().Err(err).Msg("ledger lookup failed")
		return model.CycleResult{Status: model.CycleFailed, SignalID: ev.ID, Err: err}
	}
	if seen {
		log.Info().Msg("signal already processed")
		return model.CycleResult{Status: model.CycleSkipped, SkipReason: model.SkipAlreadyProcessed, SignalID: ev.ID}
	}

	// EvaluatingDrift: read the live allocation and measure deviation.
	current, err := c.currentWeights(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reading current weights failed")
		return model.CycleResult{Status: model.CycleFailed, SignalID: ev.ID, Err: fmt.Errorf("current weights: %w", err)}
	}

	report := drift.Deviation(current, target)
	decision := drift.Evaluate(current, target, c.cfg.ThresholdBPS)
	log.Info().
		Str("current", current.String()).
		Str("target", target.String()).
		Int64("max_deviation_bps", report.MaxBPS).
		Int64("threshold_bps", c.cfg.ThresholdBPS).
		Str("decision", string(decision)).
		Bool("fallback_applied", fallbackApplied).
		Msg("drift evaluated")

	if decision == drift.NoAction {
		// Record anyway so this signal ID is never reconsidered.
		entry := &model.LedgerEntry{
			SignalID:         ev.ID,
			ProcessedAt:      time.Now(),
			ActionTaken:      false,
			SubmittedWeights: target,
			FallbackApplied:  fallbackApplied,
			Rationale:        ev.Rationale,
		}
		if err := c.ledger.Record(ctx, entry); err != nil && !errors.Is(err, model.ErrDuplicateSignal) {
			log.Error().Err(err).Msg("recording no-action entry failed")
			return model.CycleResult{Status: model.CycleFailed, SignalID: ev.ID, Err: err}
		}
		return model.CycleResult{
			Status:          model.CycleSkipped,
			SkipReason:      model.SkipNoDriftExceeded,
			SignalID:        ev.ID,
			Submitted:       target,
			FallbackApplied: fallbackApplied,
			MaxDeviationBPS: report.MaxBPS,
		}
	}

	// Submitting: one request carrying both effects. On any failure here
	// nothing is written to the ledger, so the same signal may retry on a
	// later schedule.
	outcome, err := c.submit(ctx, target)
	if err != nil {
		log.Error().Err(err).Str("target", target.String()).Msg("set-and-rebalance submission failed")
		return model.CycleResult{
			Status:          model.CycleFailed,
			SignalID:        ev.ID,
			Submitted:       target,
			FallbackApplied: fallbackApplied,
			MaxDeviationBPS: report.MaxBPS,
			Err:             err,
		}
	}

	// Recording: the transaction confirmed, make the signal permanent.
	entry := &model.LedgerEntry{
		SignalID:         ev.ID,
		ProcessedAt:      time.Now(),
		ActionTaken:      true,
		SubmittedWeights: target,
		TxRef:            outcome.TxRef,
		FallbackApplied:  fallbackApplied,
		Rationale:        ev.Rationale,
	}
	if err := c.ledger.Record(ctx, entry); err != nil {
		if errors.Is(err, model.ErrDuplicateSignal) {
			// Another writer recorded this signal between our check and
			// now. The transaction went through either way.
			log.Warn().Str("tx_ref", outcome.TxRef).Msg("signal recorded concurrently")
		} else {
			log.Error().Err(err).Str("tx_ref", outcome.TxRef).
				Msg("transaction confirmed but ledger write failed, signal may re-trigger")
			return model.CycleResult{
				Status:          model.CycleFailed,
				SignalID:        ev.ID,
				Submitted:       target,
				FallbackApplied: fallbackApplied,
				MaxDeviationBPS: report.MaxBPS,
				TxRef:           outcome.TxRef,
				Err:             err,
			}
		}
	}

	log.Info().
		Str("tx_ref", outcome.TxRef).
		Uint64("gas_used", outcome.GasUsed).
		Msg("rebalance executed")
	return model.CycleResult{
		Status:          model.CycleExecuted,
		SignalID:        ev.ID,
		Submitted:       target,
		FallbackApplied: fallbackApplied,
		MaxDeviationBPS: report.MaxBPS,
		TxRef:           outcome.TxRef,
	}
}

func (c *Coordinator) fetchSignal(ctx context.Context) (*model.SignalEvent, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()
	return c.source.Latest(callCtx)
}

func (c *Coordinator) currentWeights(ctx context.Context) (model.WeightVector, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()
	return c.fund.CurrentWeights(callCtx, c.cfg.FundID)
}

func (c *Coordinator) submit(ctx context.Context, target model.WeightVector) (*model.TransactionOutcome, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	outcome, err := c.fund.SetTargetWeights(callCtx, c.cfg.FundID, target, true, c.cfg.GasLimit)
	if err != nil {
		return nil, fmt.Errorf("set target weights: %w", err)
	}
	if outcome.Status != model.TxConfirmed {
		return nil, fmt.Errorf("%w: tx %s status %s", model.ErrTransactionFailed, outcome.TxRef, outcome.Status)
	}
	return outcome, nil
}
