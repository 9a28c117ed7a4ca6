// Package drift decides whether a fund's live allocation has moved far
// enough from a target to warrant a rebalance.
package drift

import "FundSentinel/internal/model"

// Decision is the evaluator's verdict for one cycle.
type Decision string

const (
	Rebalance Decision = "REBALANCE"
	NoAction  Decision = "NO_ACTION"
)

// Deviation computes the per-asset absolute difference between current and
// target, plus the maximum difference and its index. Vectors of unequal
// length are compared over the shorter prefix; validated inputs for the same
// fund always have equal length.
func Deviation(current, target model.WeightVector) model.DeviationReport {
	n := len(current)
	if len(target) < n {
		n = len(target)
	}
	rep := model.DeviationReport{PerAsset: make([]int64, n)}
	for i := 0; i < n; i++ {
		d := current[i] - target[i]
		if d < 0 {
			d = -d
		}
		rep.PerAsset[i] = d
		if d > rep.MaxBPS {
			rep.MaxBPS = d
			rep.MaxIndex = i
		}
	}
	return rep
}

// Evaluate returns Rebalance when the maximum single-index deviation between
// current and target is strictly greater than thresholdBPS, NoAction
// otherwise. The policy is deliberately max-single-index (not aggregate sum):
// one badly drifted asset forces action even when the rest are on target.
// Pure function: no state, no I/O.
func Evaluate(current, target model.WeightVector, thresholdBPS int64) Decision {
	if Deviation(current, target).MaxBPS > thresholdBPS {
		return Rebalance
	}
	return NoAction
}
