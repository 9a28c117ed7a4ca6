package signals

import (
	"context"
	"fmt"
	"time"

	"FundSentinel/internal/model"
)

// RotationSource rotates through a fixed set of allocation profiles on a
// wall-clock period. The signal ID is derived from the period start, so
// every poll inside one period returns the same event and the ledger turns
// re-polls into no-ops. Useful as a deterministic stand-in for real signal
// pipelines and for soak-testing a fund end to end.
type RotationSource struct {
	Profiles []model.WeightVector
	Period   time.Duration
	now      func() time.Time
}

// NewRotationSource creates a source rotating across profiles every period.
func NewRotationSource(profiles []model.WeightVector, period time.Duration) *RotationSource {
	if period <= 0 {
		period = 24 * time.Hour
	}
	return &RotationSource{Profiles: profiles, Period: period, now: time.Now}
}

func (r *RotationSource) Name() string { return "rotation" }

func (r *RotationSource) Latest(_ context.Context) (*model.SignalEvent, error) {
	if len(r.Profiles) == 0 {
		return nil, fmt.Errorf("%w: no rotation profiles configured", model.ErrSignalUnavailable)
	}
	periodSec := int64(r.Period / time.Second)
	slot := r.now().Unix() / periodSec
	idx := int(slot % int64(len(r.Profiles)))

	return &model.SignalEvent{
		ID:         fmt.Sprintf("rotation-%d", slot),
		ObservedAt: time.Unix(slot*periodSec, 0),
		Weights:    r.Profiles[idx].Clone(),
		Rationale:  fmt.Sprintf("scheduled rotation, profile %d of %d", idx+1, len(r.Profiles)),
	}, nil
}
