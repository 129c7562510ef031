// Package metric defines the closed set of measured metrics and the budget,
// delta, and verdict types used to gate them.
package metric

import "fmt"

// Metric identifies one measured quantity. The set is closed; the string
// values are stable and appear verbatim in receipts and reason tokens.
type Metric string

const (
	WallMs         Metric = "wall_ms"
	MaxRssKb       Metric = "max_rss_kb"
	ThroughputPerS Metric = "throughput_per_s"
)

// All returns every metric in its canonical total order:
// WallMs < MaxRssKb < ThroughputPerS. Any iteration over a metric-keyed map
// must go through this order so output is deterministic.
func All() []Metric {
	return []Metric{WallMs, MaxRssKb, ThroughputPerS}
}

// Valid reports whether m is one of the known metrics.
func (m Metric) Valid() bool {
	switch m {
	case WallMs, MaxRssKb, ThroughputPerS:
		return true
	}
	return false
}

// Order returns m's position in the canonical total order.
func (m Metric) Order() int {
	switch m {
	case WallMs:
		return 0
	case MaxRssKb:
		return 1
	case ThroughputPerS:
		return 2
	}
	return len(All())
}

// Unit returns the display unit for the metric.
func (m Metric) Unit() string {
	switch m {
	case WallMs:
		return "ms"
	case MaxRssKb:
		return "KB"
	case ThroughputPerS:
		return "/s"
	}
	return ""
}

// Direction says whether lower or higher values of a metric are better.
type Direction string

const (
	Lower  Direction = "lower"
	Higher Direction = "higher"
)

// ParseDirection converts a user-supplied direction name.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Lower:
		return Lower, nil
	case Higher:
		return Higher, nil
	}
	return "", fmt.Errorf("invalid direction %q (expected lower|higher)", s)
}

// DefaultDirection returns the built-in direction for the metric: elapsed
// time and memory regress upward, throughput regresses downward.
func (m Metric) DefaultDirection() Direction {
	if m == ThroughputPerS {
		return Higher
	}
	return Lower
}

// DefaultWarnFactor is the fraction of the fail threshold at which a
// near-budget warning starts. Warnings are useful in PRs but should not fail
// a gate by default.
const DefaultWarnFactor = 0.9

// Budget holds the regression limits for one metric. Thresholds are
// fractions: 0.20 allows a 20% regression.
type Budget struct {
	Threshold     float64   `json:"threshold"`
	WarnThreshold float64   `json:"warn_threshold"`
	Direction     Direction `json:"direction"`
}

// Validate rejects budgets whose warn threshold exceeds the fail threshold.
// Such a budget has no Warn band and is a configuration error, not something
// to tolerate silently.
func (b Budget) Validate(m Metric) error {
	if b.WarnThreshold > b.Threshold {
		return fmt.Errorf("budget for %s: warn_threshold %v exceeds threshold %v", m, b.WarnThreshold, b.Threshold)
	}
	if b.Direction != Lower && b.Direction != Higher {
		return fmt.Errorf("budget for %s: invalid direction %q", m, b.Direction)
	}
	return nil
}

// Status is the per-metric (and aggregate) three-way gate outcome.
type Status string

const (
	Pass Status = "pass"
	Warn Status = "warn"
	Fail Status = "fail"
)

// Delta records how one metric moved between baseline and current.
type Delta struct {
	Baseline float64 `json:"baseline"`
	Current  float64 `json:"current"`

	// Ratio is current / baseline.
	Ratio float64 `json:"ratio"`

	// Pct is (current - baseline) / baseline.
	Pct float64 `json:"pct"`

	// Regression is the direction-normalized, non-negative fraction of
	// degradation. An improvement is 0, never negative.
	Regression float64 `json:"regression"`

	Status Status `json:"status"`
}

// VerdictCounts tallies per-metric statuses.
type VerdictCounts struct {
	Pass uint32 `json:"pass"`
	Warn uint32 `json:"warn"`
	Fail uint32 `json:"fail"`
}

// Verdict is the aggregate gate outcome. Reasons are stable machine tokens
// of the form "<metric>_<warn|fail>", ordered by the metric total order, so
// downstream tooling can pattern-match them.
type Verdict struct {
	Status  Status        `json:"status"`
	Counts  VerdictCounts `json:"counts"`
	Reasons []string      `json:"reasons"`
}

// ReasonToken builds the stable token for a non-pass metric status.
func ReasonToken(m Metric, s Status) string {
	return fmt.Sprintf("%s_%s", m, s)
}
