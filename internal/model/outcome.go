package model

// FundInfo is the read-only fund descriptor. Only the asset list length is
// interpreted (it fixes N for weight validation); everything else is opaque.
type FundInfo struct {
	FundID string
	Assets []string
	NAV    string
}

// TxStatus is the terminal state of a submitted transaction.
type TxStatus string

const (
	TxConfirmed TxStatus = "CONFIRMED"
	TxFailed    TxStatus = "FAILED"
)

// TransactionOutcome is the fund collaborator's answer to a set-and-rebalance
// request. Either the whole operation is confirmed under one tx reference or
// none of it is assumed to have happened.
type TransactionOutcome struct {
	TxRef   string
	Status  TxStatus
	GasUsed uint64
}

// CycleStatus is the terminal outcome of one decision cycle.
type CycleStatus string

const (
	CycleExecuted CycleStatus = "EXECUTED"
	CycleSkipped  CycleStatus = "SKIPPED"
	CycleFailed   CycleStatus = "FAILED"
)

// SkipReason explains why a cycle ended without a submission.
type SkipReason string

const (
	SkipAlreadyProcessed SkipReason = "already_processed"
	SkipNoDriftExceeded  SkipReason = "no_drift_exceeded"
	SkipInvalidSignal    SkipReason = "invalid_signal"
	SkipNoNewSignal      SkipReason = "no_new_signal"
	SkipCycleInProgress  SkipReason = "cycle_in_progress"
)

// CycleResult summarizes one coordinator invocation for logging, alerting
// and the one-shot exit code.
type CycleResult struct {
	Status          CycleStatus
	SkipReason      SkipReason
	SignalID        string
	Submitted       WeightVector
	FallbackApplied bool
	MaxDeviationBPS int64
	TxRef           string
	Err             error
}
