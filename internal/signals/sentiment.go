package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"FundSentinel/internal/model"
)

// SentimentSource pulls allocations from a sentiment-analysis service. The
// service's pipeline (transcripts, models, whatever) is opaque here: all
// this client sees is a signal ID, a timestamp and fractional weights.
type SentimentSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewSentimentSource creates a source with optional proxy support.
func NewSentimentSource(baseURL, apiKey, proxyURL string) *SentimentSource {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &SentimentSource{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (s *SentimentSource) Name() string { return "sentiment" }

// sentimentSignal is the expected JSON shape from the analysis API.
type sentimentSignal struct {
	SignalID   string    `json:"signal_id"`
	ObservedAt time.Time `json:"observed_at"`
	Weights    []float64 `json:"weights"`
	Summary    string    `json:"summary"`
}

// Latest fetches the newest analysis. HTTP 204 means the upstream has not
// produced a new observation yet.
func (s *SentimentSource) Latest(ctx context.Context) (*model.SignalEvent, error) {
	endpoint := fmt.Sprintf("%s/api/v1/signal/latest", s.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch latest signal: %v", model.ErrSignalUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, model.ErrNoNewSignal
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d, body: %s", model.ErrSignalUnavailable, resp.StatusCode, string(body))
	}

	var sig sentimentSignal
	if err := json.NewDecoder(resp.Body).Decode(&sig); err != nil {
		return nil, fmt.Errorf("%w: decode signal: %v", model.ErrSignalUnavailable, err)
	}

	weights, err := model.FromFractions(sig.Weights)
	if err != nil {
		// Pass the malformed vector through as naively rounded bps; the
		// coordinator's validation and fallback policy own this case.
		weights = rawBPS(sig.Weights)
	}

	return &model.SignalEvent{
		ID:         sig.SignalID,
		ObservedAt: sig.ObservedAt,
		Weights:    weights,
		Rationale:  sig.Summary,
	}, nil
}

func rawBPS(fractions []float64) model.WeightVector {
	w := make(model.WeightVector, len(fractions))
	for i, f := range fractions {
		w[i] = int64(math.Round(f * float64(model.TotalBPS)))
	}
	return w
}
