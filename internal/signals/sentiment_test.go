package signals

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"FundSentinel/internal/model"
)

func TestSentimentSource_Latest(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/signal/latest" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"signal_id": "video-dQw4w9WgXcQ",
			"observed_at": "2026-08-23T09:00:00Z",
			"weights": [0.55, 0.35, 0.10],
			"summary": "risk-on, rotate into majors"
		}`))
	}))
	defer srv.Close()

	src := NewSentimentSource(srv.URL, "test-key", "")
	ev, err := src.Latest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if ev.ID != "video-dQw4w9WgXcQ" {
		t.Errorf("ID = %q", ev.ID)
	}
	if want := (model.WeightVector{5500, 3500, 1000}); !ev.Weights.Equal(want) {
		t.Errorf("weights = %v, want %v", ev.Weights, want)
	}
	if ev.Rationale == "" {
		t.Error("expected rationale to carry the summary")
	}
}

func TestSentimentSource_NoNewSignal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	src := NewSentimentSource(srv.URL, "", "")
	_, err := src.Latest(context.Background())
	if !errors.Is(err, model.ErrNoNewSignal) {
		t.Fatalf("expected ErrNoNewSignal, got %v", err)
	}
}

func TestSentimentSource_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	src := NewSentimentSource(srv.URL, "", "")
	_, err := src.Latest(context.Background())
	if !errors.Is(err, model.ErrSignalUnavailable) {
		t.Fatalf("expected ErrSignalUnavailable, got %v", err)
	}
}

func TestSentimentSource_MalformedWeightsPassThrough(t *testing.T) {
	// Fractions summing to 0.95 can't be normalized here; the raw rounded
	// vector must flow through so the coordinator's fallback policy fires.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"signal_id": "video-bad", "weights": [0.50, 0.30, -0.15]}`))
	}))
	defer srv.Close()

	src := NewSentimentSource(srv.URL, "", "")
	ev, err := src.Latest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ev.Weights.Validate(3); err == nil {
		t.Errorf("expected invalid pass-through weights, got %v", ev.Weights)
	}
	if ev.ID != "video-bad" {
		t.Errorf("ID = %q", ev.ID)
	}
}
