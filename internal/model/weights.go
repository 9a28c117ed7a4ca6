package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TotalBPS is the sum every valid weight vector must have (100%).
const TotalBPS int64 = 10000

// WeightVector is an ordered allocation across a fund's asset slots, in basis
// points. Vectors are treated as immutable: constructors return fresh slices
// and a new decision cycle always produces a new vector.
type WeightVector []int64

// Validate checks the vector against the fund's configured asset count.
// It reports ErrInvalidWeights when the length differs, any element falls
// outside [0, 10000], or the sum is not exactly 10000.
func (w WeightVector) Validate(assetCount int) error {
	if len(w) != assetCount {
		return fmt.Errorf("%w: got %d weights, fund has %d assets", ErrInvalidWeights, len(w), assetCount)
	}
	var sum int64
	for i, v := range w {
		if v < 0 || v > TotalBPS {
			return fmt.Errorf("%w: weight[%d]=%d out of range [0,%d]", ErrInvalidWeights, i, v, TotalBPS)
		}
		sum += v
	}
	if sum != TotalBPS {
		return fmt.Errorf("%w: weights sum to %d, want %d", ErrInvalidWeights, sum, TotalBPS)
	}
	return nil
}

// FromFractions converts fractional weights (e.g. 0.55 for 55%) into basis
// points. Each fraction is rounded to the nearest integer bps, then the
// residual is added to the single largest element so the sum is exactly
// 10000. The same procedure is applied to every signal origin so rounding
// noise can never break the sum invariant.
func FromFractions(fractions []float64) (WeightVector, error) {
	if len(fractions) == 0 {
		return nil, fmt.Errorf("%w: empty fraction list", ErrInvalidWeights)
	}
	w := make(WeightVector, len(fractions))
	largest := 0
	for i, f := range fractions {
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: fraction[%d]=%v", ErrInvalidWeights, i, f)
		}
		w[i] = int64(math.Round(f * float64(TotalBPS)))
		if w[i] > w[largest] {
			largest = i
		}
	}
	var sum int64
	for _, v := range w {
		sum += v
	}
	w[largest] += TotalBPS - sum
	if w[largest] < 0 || w[largest] > TotalBPS {
		return nil, fmt.Errorf("%w: residual adjustment pushed weight[%d] to %d", ErrInvalidWeights, largest, w[largest])
	}
	return w, nil
}

// EqualSplit returns the equal-weight vector for n assets, built through the
// same residual rule as FromFractions (n=3 yields [3334,3333,3333]).
func EqualSplit(n int) WeightVector {
	if n <= 0 {
		return nil
	}
	fractions := make([]float64, n)
	for i := range fractions {
		fractions[i] = 1.0 / float64(n)
	}
	w, _ := FromFractions(fractions)
	return w
}

// Clone returns an independent copy of the vector.
func (w WeightVector) Clone() WeightVector {
	if w == nil {
		return nil
	}
	out := make(WeightVector, len(w))
	copy(out, w)
	return out
}

// Equal reports whether two vectors are element-wise identical.
func (w WeightVector) Equal(o WeightVector) bool {
	if len(w) != len(o) {
		return false
	}
	for i := range w {
		if w[i] != o[i] {
			return false
		}
	}
	return true
}

// String renders the vector as "5000/3000/2000".
func (w WeightVector) String() string {
	parts := make([]string, len(w))
	for i, v := range w {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return strings.Join(parts, "/")
}

// DeviationReport is the per-asset absolute difference between a current and
// a target vector. It is ephemeral: recomputed each cycle, never persisted.
type DeviationReport struct {
	PerAsset []int64
	MaxBPS   int64
	MaxIndex int
}
