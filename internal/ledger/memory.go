package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"FundSentinel/internal/model"
)

// MemoryLedger keeps entries in process memory. It loses restart safety and
// exists for tests and dry runs only; production runs use SQLiteLedger.
type MemoryLedger struct {
	mu      sync.Mutex
	entries map[string]model.LedgerEntry
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{entries: make(map[string]model.LedgerEntry)}
}

func (l *MemoryLedger) HasProcessed(_ context.Context, signalID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.entries[signalID]
	return ok, nil
}

func (l *MemoryLedger) Record(_ context.Context, entry *model.LedgerEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[entry.SignalID]; ok {
		return fmt.Errorf("record signal %s: %w", entry.SignalID, model.ErrDuplicateSignal)
	}
	e := *entry
	e.SubmittedWeights = entry.SubmittedWeights.Clone()
	l.entries[entry.SignalID] = e
	return nil
}

func (l *MemoryLedger) Entries(_ context.Context, limit int) ([]model.LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.LedgerEntry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProcessedAt.After(out[j].ProcessedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (l *MemoryLedger) Close() error { return nil }
