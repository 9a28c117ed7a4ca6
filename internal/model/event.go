package model

import "time"

// SignalEvent is a provenance-tagged candidate allocation produced by a
// signal source. ID is the idempotency key: one upstream observation yields
// exactly one event, and repeated polls return the same event until a
// genuinely new observation exists. Weights may be invalid (a source passes
// through what it saw); validation and fallback happen in the coordinator.
type SignalEvent struct {
	ID         string
	ObservedAt time.Time
	Weights    WeightVector
	Rationale  string
}

// LedgerEntry records the outcome of the one decision cycle that consumed a
// signal. Entries are append-only: a retried signal ID is rejected as
// already seen, never re-processed or rewritten.
type LedgerEntry struct {
	SignalID         string
	ProcessedAt      time.Time
	ActionTaken      bool
	SubmittedWeights WeightVector
	TxRef            string
	FallbackApplied  bool
	Rationale        string
}
