package fund

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"FundSentinel/internal/model"
)

// ManagerClient implements Client against the fund manager's REST API. The
// API fronts the signing key and the RPC node; this client never touches
// gas pricing or nonces beyond passing the configured gas limit through.
type ManagerClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewManagerClient creates a client with optional proxy support. Per-call
// deadlines come from the caller's context; the http.Client timeout is a
// backstop.
func NewManagerClient(baseURL, apiKey, proxyURL string) *ManagerClient {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &ManagerClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   120 * time.Second,
			Transport: transport,
		},
	}
}

func (c *ManagerClient) CurrentWeights(ctx context.Context, fundID string) (model.WeightVector, error) {
	endpoint := fmt.Sprintf("%s/api/v1/funds/%s/weights", c.BaseURL, fundID)
	var result struct {
		WeightsBPS []int64 `json:"weights_bps"`
	}
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("current weights: %w", err)
	}
	return model.WeightVector(result.WeightsBPS), nil
}

func (c *ManagerClient) Info(ctx context.Context, fundID string) (*model.FundInfo, error) {
	endpoint := fmt.Sprintf("%s/api/v1/funds/%s", c.BaseURL, fundID)
	var result struct {
		Assets []string `json:"assets"`
		NAV    string   `json:"nav"`
	}
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("fund info: %w", err)
	}
	return &model.FundInfo{FundID: fundID, Assets: result.Assets, NAV: result.NAV}, nil
}

func (c *ManagerClient) SetTargetWeights(ctx context.Context, fundID string, weights model.WeightVector, rebalanceIfNeeded bool, gasLimit uint64) (*model.TransactionOutcome, error) {
	endpoint := fmt.Sprintf("%s/api/v1/funds/%s/target", c.BaseURL, fundID)
	payload := struct {
		WeightsBPS        []int64 `json:"weights_bps"`
		RebalanceIfNeeded bool    `json:"rebalance_if_needed"`
		GasLimit          uint64  `json:"gas_limit"`
	}{
		WeightsBPS:        weights,
		RebalanceIfNeeded: rebalanceIfNeeded,
		GasLimit:          gasLimit,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal target request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("set target weights: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("set target weights: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		TxReference string `json:"tx_reference"`
		Status      string `json:"status"`
		GasUsed     uint64 `json:"gas_used"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode transaction outcome: %w", err)
	}
	return &model.TransactionOutcome{
		TxRef:   result.TxReference,
		Status:  model.TxStatus(result.Status),
		GasUsed: result.GasUsed,
	}, nil
}

func (c *ManagerClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
