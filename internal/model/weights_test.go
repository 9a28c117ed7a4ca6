package model

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		weights    WeightVector
		assetCount int
		wantErr    bool
	}{
		{"valid three assets", WeightVector{5000, 3000, 2000}, 3, false},
		{"valid single asset", WeightVector{10000}, 1, false},
		{"valid with zero element", WeightVector{10000, 0, 0}, 3, false},
		{"length mismatch", WeightVector{5000, 5000}, 3, true},
		{"sum below total", WeightVector{5000, 3000, 1500}, 3, true},
		{"sum above total", WeightVector{5000, 3000, 2500}, 3, true},
		{"negative element", WeightVector{11000, -1000, 0}, 3, true},
		{"element above total", WeightVector{10001, -1, 0}, 3, true},
		{"empty", WeightVector{}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.weights.Validate(tt.assetCount)
			if tt.wantErr && err == nil {
				t.Fatalf("expected error for %v", tt.weights)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error for %v: %v", tt.weights, err)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidWeights) {
				t.Errorf("expected ErrInvalidWeights, got %v", err)
			}
		})
	}
}

func TestFromFractions(t *testing.T) {
	tests := []struct {
		name      string
		fractions []float64
		want      WeightVector
	}{
		{"exact", []float64{0.55, 0.35, 0.10}, WeightVector{5500, 3500, 1000}},
		{"equal thirds", []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, WeightVector{3334, 3333, 3333}},
		{"all in one", []float64{1.0, 0, 0}, WeightVector{10000, 0, 0}},
		{"rounding residual", []float64{0.333, 0.333, 0.334}, WeightVector{3330, 3330, 3340}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromFractions(tt.fractions)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromFractions_SumInvariant(t *testing.T) {
	// Any non-negative fraction set near 100% must produce a vector that
	// validates, regardless of rounding noise.
	sets := [][]float64{
		{0.1, 0.2, 0.3, 0.4},
		{0.123, 0.456, 0.421},
		{0.9999, 0.0001},
		{0.25, 0.25, 0.25, 0.25},
		{0.07, 0.13, 0.17, 0.19, 0.23, 0.21},
		{1.0 / 7, 1.0 / 7, 1.0 / 7, 1.0 / 7, 1.0 / 7, 1.0 / 7, 1.0 / 7},
	}
	for _, fractions := range sets {
		w, err := FromFractions(fractions)
		if err != nil {
			t.Fatalf("fractions %v: %v", fractions, err)
		}
		if err := w.Validate(len(fractions)); err != nil {
			t.Errorf("fractions %v produced invalid vector %v: %v", fractions, w, err)
		}
	}
}

func TestFromFractions_Rejects(t *testing.T) {
	if _, err := FromFractions(nil); !errors.Is(err, ErrInvalidWeights) {
		t.Errorf("empty input: expected ErrInvalidWeights, got %v", err)
	}
	if _, err := FromFractions([]float64{0.5, -0.1, 0.6}); !errors.Is(err, ErrInvalidWeights) {
		t.Errorf("negative fraction: expected ErrInvalidWeights, got %v", err)
	}
	// Sum far above 100%: the residual fix would push the largest element
	// negative, which must be rejected rather than silently clamped.
	if _, err := FromFractions([]float64{1.0, 1.0, 1.0}); !errors.Is(err, ErrInvalidWeights) {
		t.Errorf("oversized fractions: expected ErrInvalidWeights, got %v", err)
	}
}

func TestEqualSplit(t *testing.T) {
	for n := 1; n <= 8; n++ {
		w := EqualSplit(n)
		if err := w.Validate(n); err != nil {
			t.Errorf("EqualSplit(%d) = %v: %v", n, w, err)
		}
	}
	if got, want := EqualSplit(3), (WeightVector{3334, 3333, 3333}); !got.Equal(want) {
		t.Errorf("EqualSplit(3) = %v, want %v", got, want)
	}
	if EqualSplit(0) != nil {
		t.Error("EqualSplit(0) should be nil")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := WeightVector{5000, 3000, 2000}
	c := orig.Clone()
	c[0] = 9999
	if orig[0] != 5000 {
		t.Error("Clone shares backing array with original")
	}
}
