// Package budget resolves regression budgets and compares a current run
// against a baseline under them. This is where the gate's Pass/Warn/Fail
// decision is made; everything here is deterministic.
package budget

import (
	"fmt"

	"github.com/EffortlessMetrics/perfgate/internal/metric"
	"github.com/EffortlessMetrics/perfgate/internal/receipt"
	"github.com/EffortlessMetrics/perfgate/internal/stats"
)

// Defaults are applied to every metric that has no override.
type Defaults struct {
	// Threshold is the regression fraction above which a metric fails.
	Threshold float64

	// WarnFactor scales Threshold down to the warning boundary.
	WarnFactor float64
}

// StandardDefaults is the built-in policy: fail past a 20% regression, warn
// from 90% of that.
func StandardDefaults() Defaults {
	return Defaults{Threshold: 0.20, WarnFactor: metric.DefaultWarnFactor}
}

// Overrides carries per-metric budget adjustments, from flags or config.
// A nil map means no overrides for that knob.
type Overrides struct {
	Thresholds  map[metric.Metric]float64
	WarnFactors map[metric.Metric]float64
	Directions  map[metric.Metric]metric.Direction
}

// Resolve builds the budget set for one comparison. A metric gets a budget
// only when both the baseline and the current run measured it; budgeting an
// unmeasured metric would gate on nothing. Overrides win over defaults, and
// every resolved budget is validated before use.
func Resolve(baseline, current stats.Stats, def Defaults, ov Overrides) (map[metric.Metric]metric.Budget, error) {
	budgets := make(map[metric.Metric]metric.Budget)
	for _, m := range metric.All() {
		if _, ok := receipt.MetricValue(baseline, m); !ok {
			continue
		}
		if _, ok := receipt.MetricValue(current, m); !ok {
			continue
		}

		threshold := def.Threshold
		if t, ok := ov.Thresholds[m]; ok {
			threshold = t
		}
		warnFactor := def.WarnFactor
		if f, ok := ov.WarnFactors[m]; ok {
			warnFactor = f
		}
		direction := m.DefaultDirection()
		if d, ok := ov.Directions[m]; ok {
			direction = d
		}

		b := metric.Budget{
			Threshold:     threshold,
			WarnThreshold: threshold * warnFactor,
			Direction:     direction,
		}
		if err := b.Validate(m); err != nil {
			return nil, err
		}
		budgets[m] = b
	}
	return budgets, nil
}

// InvalidBaselineError reports a baseline median that cannot anchor a ratio.
type InvalidBaselineError struct {
	Metric metric.Metric
}

func (e *InvalidBaselineError) Error() string {
	return fmt.Sprintf("baseline median for %s is not positive; cannot compute a regression ratio", e.Metric)
}

// Comparison is the full outcome of gating one run against one baseline.
type Comparison struct {
	Deltas  map[metric.Metric]metric.Delta
	Verdict metric.Verdict
}

// Compare evaluates every budgeted metric that both sides measured and
// aggregates the per-metric statuses into a verdict. Metrics missing from
// either side or from the budgets are skipped, not failed.
func Compare(baseline, current stats.Stats, budgets map[metric.Metric]metric.Budget) (Comparison, error) {
	deltas := make(map[metric.Metric]metric.Delta)
	var counts metric.VerdictCounts
	// Non-nil so a clean verdict serializes its reasons as [].
	reasons := []string{}
	worst := metric.Pass

	for _, m := range metric.All() {
		b, ok := budgets[m]
		if !ok {
			continue
		}
		baseVal, ok := receipt.MetricValue(baseline, m)
		if !ok {
			continue
		}
		curVal, ok := receipt.MetricValue(current, m)
		if !ok {
			continue
		}
		if baseVal <= 0 {
			return Comparison{}, &InvalidBaselineError{Metric: m}
		}

		d := delta(baseVal, curVal, b)
		deltas[m] = d

		switch d.Status {
		case metric.Pass:
			counts.Pass++
		case metric.Warn:
			counts.Warn++
			reasons = append(reasons, metric.ReasonToken(m, metric.Warn))
			if worst == metric.Pass {
				worst = metric.Warn
			}
		case metric.Fail:
			counts.Fail++
			reasons = append(reasons, metric.ReasonToken(m, metric.Fail))
			worst = metric.Fail
		}
	}

	return Comparison{
		Deltas: deltas,
		Verdict: metric.Verdict{
			Status:  worst,
			Counts:  counts,
			Reasons: reasons,
		},
	}, nil
}

// delta computes one metric's movement and rates it against its budget.
// Regression is the budget-relevant degradation fraction: growth for
// lower-is-better metrics, shrinkage for higher-is-better ones, and never
// negative, so an improvement can only ever pass.
func delta(baseline, current float64, b metric.Budget) metric.Delta {
	pct := (current - baseline) / baseline

	regression := pct
	if b.Direction == metric.Higher {
		regression = -pct
	}
	if regression < 0 {
		regression = 0
	}

	// Exact boundaries: strictly past the threshold fails; landing on either
	// boundary warns.
	status := metric.Pass
	switch {
	case regression > b.Threshold:
		status = metric.Fail
	case regression >= b.WarnThreshold:
		status = metric.Warn
	}

	return metric.Delta{
		Baseline:   baseline,
		Current:    current,
		Ratio:      current / baseline,
		Pct:        pct,
		Regression: regression,
		Status:     status,
	}
}
