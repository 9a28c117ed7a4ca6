package model

import "errors"

var (
	// ErrInvalidWeights marks a malformed weight vector. Recovered locally
	// by the coordinator's fallback policy, never fatal.
	ErrInvalidWeights = errors.New("invalid weights")

	// ErrDuplicateSignal is returned by the ledger when a signal ID has
	// already produced an entry.
	ErrDuplicateSignal = errors.New("duplicate signal")

	// ErrNoNewSignal means the source has no observation newer than the
	// last one it reported. Not an error condition for the operator.
	ErrNoNewSignal = errors.New("no new signal")

	// ErrSignalUnavailable wraps transport failures talking to a source.
	ErrSignalUnavailable = errors.New("signal source unavailable")

	// ErrTransactionFailed marks a submitted transaction that was not
	// confirmed (reverted or rejected by the fund).
	ErrTransactionFailed = errors.New("transaction failed")
)
