package signals

import (
	"context"
	"time"

	"github.com/google/uuid"

	"FundSentinel/internal/model"
)

// StaticSource serves one operator-supplied allocation. The operator bumps
// the signal ID in config to trigger a new action; with no ID configured a
// fresh one is generated at startup, which makes every process start a
// single manual trigger.
type StaticSource struct {
	event model.SignalEvent
}

func NewStaticSource(weights model.WeightVector, signalID, rationale string) *StaticSource {
	if signalID == "" {
		signalID = "manual-" + uuid.NewString()
	}
	return &StaticSource{event: model.SignalEvent{
		ID:         signalID,
		ObservedAt: time.Now(),
		Weights:    weights.Clone(),
		Rationale:  rationale,
	}}
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Latest(_ context.Context) (*model.SignalEvent, error) {
	ev := s.event
	ev.Weights = s.event.Weights.Clone()
	return &ev, nil
}
