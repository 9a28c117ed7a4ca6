package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FundSentinel/internal/model"
)

func TestMemoryLedger_Dedup(t *testing.T) {
	l := NewMemoryLedger()
	ctx := context.Background()

	seen, err := l.HasProcessed(ctx, "sig-a")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, l.Record(ctx, &model.LedgerEntry{
		SignalID:         "sig-a",
		SubmittedWeights: model.WeightVector{5000, 5000},
	}))

	seen, err = l.HasProcessed(ctx, "sig-a")
	require.NoError(t, err)
	assert.True(t, seen)

	err = l.Record(ctx, &model.LedgerEntry{SignalID: "sig-a"})
	require.ErrorIs(t, err, model.ErrDuplicateSignal)

	entries, err := l.Entries(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
