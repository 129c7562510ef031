// Package stats reduces execution samples to robust summary statistics.
//
// Everything in this package is a pure function of its inputs: the same
// samples always produce the same summaries, which is what makes the gate
// verdict reproducible.
package stats

import (
	"errors"
	"math"
	"sort"
)

// ErrNoSamples is returned when a summary or aggregate is requested over an
// empty (or all-warmup) sample set.
var ErrNoSamples = errors.New("no samples to summarize")

// Uint64Summary holds order statistics over one integer-valued metric.
// For any non-empty input, Min <= Median <= Max.
type Uint64Summary struct {
	Median uint64 `json:"median"`
	Min    uint64 `json:"min"`
	Max    uint64 `json:"max"`
}

// Float64Summary holds order statistics over one float-valued metric.
type Float64Summary struct {
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// SummarizeUint64 computes min/median/max over values. The input is never
// mutated; a copy is sorted.
func SummarizeUint64(values []uint64) (Uint64Summary, error) {
	if len(values) == 0 {
		return Uint64Summary{}, ErrNoSamples
	}
	sorted := append([]uint64(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return Uint64Summary{
		Median: medianUint64Sorted(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}, nil
}

// medianUint64Sorted takes the middle element for odd lengths. For even
// lengths it takes the floored average of the two middle elements, computed
// from each value's half plus the combined remainders so that two values near
// the uint64 maximum never wrap.
func medianUint64Sorted(sorted []uint64) uint64 {
	n := len(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	a, b := sorted[mid-1], sorted[mid]
	return a/2 + b/2 + (a%2+b%2)/2
}

// SummarizeFloat64 computes min/median/max over values. Non-finite inputs are
// not rejected: they are ordered totally (NaN first, then -Inf through +Inf)
// and propagate into the summary. ErrNoSamples on empty input is the only
// error condition.
func SummarizeFloat64(values []float64) (Float64Summary, error) {
	if len(values) == 0 {
		return Float64Summary{}, ErrNoSamples
	}
	sorted := append([]float64(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return lessFloat64(sorted[i], sorted[j]) })
	return Float64Summary{
		Median: medianFloat64Sorted(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}, nil
}

// lessFloat64 orders NaN before every other value so the sort is total and
// deterministic even for pathological inputs.
func lessFloat64(a, b float64) bool {
	if math.IsNaN(a) {
		return !math.IsNaN(b)
	}
	if math.IsNaN(b) {
		return false
	}
	return a < b
}

func medianFloat64Sorted(sorted []float64) float64 {
	n := len(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
