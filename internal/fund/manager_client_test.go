package fund

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FundSentinel/internal/model"
)

func TestManagerClient_CurrentWeights(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/funds/0xfund/weights", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		w.Write([]byte(`{"weights_bps": [4000, 4000, 2000]}`))
	}))
	defer srv.Close()

	c := NewManagerClient(srv.URL, "k", "")
	got, err := c.CurrentWeights(context.Background(), "0xfund")
	require.NoError(t, err)
	assert.Equal(t, model.WeightVector{4000, 4000, 2000}, got)
}

func TestManagerClient_Info(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/funds/0xfund", r.URL.Path)
		w.Write([]byte(`{"assets": ["VIRTUAL", "cbBTC", "USDC"], "nav": "1523400.12"}`))
	}))
	defer srv.Close()

	c := NewManagerClient(srv.URL, "", "")
	info, err := c.Info(context.Background(), "0xfund")
	require.NoError(t, err)
	assert.Len(t, info.Assets, 3)
	assert.Equal(t, "1523400.12", info.NAV)
}

func TestManagerClient_SetTargetWeights(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/funds/0xfund/target", r.URL.Path)

		var body struct {
			WeightsBPS        []int64 `json:"weights_bps"`
			RebalanceIfNeeded bool    `json:"rebalance_if_needed"`
			GasLimit          uint64  `json:"gas_limit"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []int64{6000, 2500, 1500}, body.WeightsBPS)
		assert.True(t, body.RebalanceIfNeeded)
		assert.Equal(t, uint64(500000), body.GasLimit)

		w.Write([]byte(`{"tx_reference": "0xabc123", "status": "CONFIRMED", "gas_used": 312456}`))
	}))
	defer srv.Close()

	c := NewManagerClient(srv.URL, "", "")
	outcome, err := c.SetTargetWeights(context.Background(), "0xfund", model.WeightVector{6000, 2500, 1500}, true, 500000)
	require.NoError(t, err)
	assert.Equal(t, "0xabc123", outcome.TxRef)
	assert.Equal(t, model.TxConfirmed, outcome.Status)
	assert.Equal(t, uint64(312456), outcome.GasUsed)
}

func TestManagerClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "fund not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewManagerClient(srv.URL, "", "")
	_, err := c.CurrentWeights(context.Background(), "0xnope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestManagerClient_ContextCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewManagerClient(srv.URL, "", "")
	_, err := c.SetTargetWeights(ctx, "0xfund", model.WeightVector{10000}, true, 500000)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
