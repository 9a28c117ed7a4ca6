package signals

import (
	"context"

	"FundSentinel/internal/model"
)

// MockSource returns scripted events for development and testing.
type MockSource struct {
	Event *model.SignalEvent
	Err   error
	Calls int
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Latest(_ context.Context) (*model.SignalEvent, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Event == nil {
		return nil, model.ErrNoNewSignal
	}
	ev := *m.Event
	ev.Weights = m.Event.Weights.Clone()
	return &ev, nil
}
