// Package ledger is the idempotency store for consumed signals. One signal
// ID yields at most one entry, entries are append-only, and Record is the
// system's only deduplication boundary, so it must behave as an atomic
// insert-if-absent even under concurrent callers.
package ledger

import (
	"context"

	"FundSentinel/internal/model"
)

// Ledger records which signal IDs have already produced an action.
type Ledger interface {
	// HasProcessed reports whether a signal ID already has an entry.
	HasProcessed(ctx context.Context, signalID string) (bool, error)

	// Record inserts an entry, failing with model.ErrDuplicateSignal when
	// the signal ID already exists. Entries are never updated or deleted.
	Record(ctx context.Context, entry *model.LedgerEntry) error

	// Entries returns the most recent entries, newest first, for audit.
	Entries(ctx context.Context, limit int) ([]model.LedgerEntry, error)

	Close() error
}
