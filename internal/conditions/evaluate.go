package conditions

import (
	"fmt"
	"math/bits"

	"github.com/solatis/disku/internal/types"
)

/*
 * Snapshot evaluation.
 *
 * Each condition reads one quantity from the snapshot:
 *
 *   USED vs size        used bytes, compared directly
 *   FREE vs size        free bytes, compared directly
 *   USED/FREE vs n%     used (or free) / total, compared against n/100
 *   RATE vs n%          used / total, compared against n/100
 *
 * Ratio comparisons never touch floating point: x/total <op> n/100 is
 * decided as x*100 <op> n*total with full 128-bit products (bits.Mul64),
 * so boundary values like USED==33% of a 3-byte filesystem compare exactly.
 *
 * The verdict is a logical OR across the set, but Matched still collects
 * every condition that independently held, in input order, for diagnostics.
 * total == 0 makes ratios undefined; that returns ErrDegenerateSnapshot
 * instead of comparing, aborting only this polling cycle.
 */

// Evaluate computes the alarm verdict for one snapshot. Pure function:
// safe for concurrent calls over a shared ConditionSet.
func Evaluate(set types.ConditionSet, snapshot types.DiskSnapshot) (types.EvalResult, error) {
	if snapshot.Total == 0 {
		return types.EvalResult{}, fmt.Errorf("%w: total is zero", types.ErrDegenerateSnapshot)
	}

	var result types.EvalResult
	for _, cond := range set {
		if conditionHolds(cond, snapshot) {
			result.Matched = append(result.Matched, cond)
		}
	}
	result.Triggered = len(result.Matched) > 0
	return result, nil
}

// conditionHolds decides a single condition against the snapshot.
func conditionHolds(cond types.Condition, snapshot types.DiskSnapshot) bool {
	var lhs uint64
	switch cond.Variable {
	case types.VariableUsed, types.VariableRate:
		lhs = snapshot.Used
	case types.VariableFree:
		lhs = snapshot.Free
	default:
		return false
	}

	switch cond.Value.Kind {
	case types.ValueSize:
		// RATE vs size is rejected at parse time; if such a condition is
		// constructed by hand it simply never holds.
		if cond.Variable == types.VariableRate {
			return false
		}
		return compare(cond.Comparator, cmpUint64(lhs, cond.Value.Bytes))
	case types.ValuePercentage:
		// lhs/total <op> n/100, decided as lhs*100 <op> n*total.
		return compare(cond.Comparator, cmpProducts(lhs, 100, cond.Value.Percent, snapshot.Total))
	default:
		return false
	}
}

// compare maps a three-way comparison result onto the comparator.
func compare(op types.Comparator, cmp int) bool {
	switch op {
	case types.ComparatorGT:
		return cmp > 0
	case types.ComparatorGTE:
		return cmp >= 0
	case types.ComparatorEQ:
		return cmp == 0
	case types.ComparatorLTE:
		return cmp <= 0
	case types.ComparatorLT:
		return cmp < 0
	default:
		return false
	}
}

// cmpUint64 three-way compares two uint64 values.
func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// cmpProducts three-way compares a*b against c*d without overflow,
// using 128-bit intermediate products.
func cmpProducts(a, b, c, d uint64) int {
	hi1, lo1 := bits.Mul64(a, b)
	hi2, lo2 := bits.Mul64(c, d)
	if hi1 != hi2 {
		return cmpUint64(hi1, hi2)
	}
	return cmpUint64(lo1, lo2)
}
