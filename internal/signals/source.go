// Package signals provides the pluggable sources that produce candidate
// target allocations with provenance. A source must be safe to poll
// repeatedly: it returns the same event (same ID) until a genuinely new
// observation exists, or model.ErrNoNewSignal when it has nothing at all.
// Deduplication of re-emitted events is the ledger's job, not the source's.
package signals

import (
	"context"

	"FundSentinel/internal/model"
)

// Source produces the latest candidate allocation on demand.
type Source interface {
	Latest(ctx context.Context) (*model.SignalEvent, error)
	Name() string
}
