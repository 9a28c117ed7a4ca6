package fund

import (
	"context"
	"sync"

	"FundSentinel/internal/model"
)

// MockClient returns controllable fixed data for development and testing.
type MockClient struct {
	mu sync.Mutex

	Weights    model.WeightVector
	FundInfo   *model.FundInfo
	Outcome    *model.TransactionOutcome
	WeightsErr error
	InfoErr    error
	SubmitErr  error

	WriteCalls    int
	LastSubmitted model.WeightVector
	LastRebalance bool
	LastGasLimit  uint64
}

func (m *MockClient) CurrentWeights(_ context.Context, _ string) (model.WeightVector, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WeightsErr != nil {
		return nil, m.WeightsErr
	}
	return m.Weights.Clone(), nil
}

func (m *MockClient) Info(_ context.Context, fundID string) (*model.FundInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InfoErr != nil {
		return nil, m.InfoErr
	}
	if m.FundInfo != nil {
		return m.FundInfo, nil
	}
	assets := make([]string, len(m.Weights))
	return &model.FundInfo{FundID: fundID, Assets: assets}, nil
}

func (m *MockClient) SetTargetWeights(_ context.Context, _ string, weights model.WeightVector, rebalanceIfNeeded bool, gasLimit uint64) (*model.TransactionOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WriteCalls++
	m.LastSubmitted = weights.Clone()
	m.LastRebalance = rebalanceIfNeeded
	m.LastGasLimit = gasLimit
	if m.SubmitErr != nil {
		return nil, m.SubmitErr
	}
	if m.Outcome != nil {
		return m.Outcome, nil
	}
	return &model.TransactionOutcome{TxRef: "0xmock", Status: model.TxConfirmed, GasUsed: 21000}, nil
}
