// Package report wraps a compare receipt into a findings document for CI
// dashboard ingestion. Every warn or fail delta becomes one finding; pass
// deltas produce none.
package report

import (
	"fmt"

	"github.com/EffortlessMetrics/perfgate/internal/metric"
	"github.com/EffortlessMetrics/perfgate/internal/receipt"
)

// Schema identifies the findings document format.
const Schema = "perfgate.report.v1"

// CheckID tags every finding this tool emits.
const CheckID = "perf.budget"

// Finding codes, one per non-pass status.
const (
	CodeMetricWarn = "metric_warn"
	CodeMetricFail = "metric_fail"
)

// FindingData carries the numbers behind one finding.
type FindingData struct {
	MetricName    string           `json:"metric_name"`
	Baseline      float64          `json:"baseline"`
	Current       float64          `json:"current"`
	RegressionPct float64          `json:"regression_pct"`
	Threshold     float64          `json:"threshold"`
	Direction     metric.Direction `json:"direction"`
}

// Finding is one budget violation, warn or fail.
type Finding struct {
	CheckID  string      `json:"check_id"`
	Code     string      `json:"code"`
	Severity string      `json:"severity"`
	Message  string      `json:"message"`
	Data     FindingData `json:"data"`
}

// Summary counts the per-metric statuses behind the verdict.
type Summary struct {
	PassCount  uint32 `json:"pass_count"`
	WarnCount  uint32 `json:"warn_count"`
	FailCount  uint32 `json:"fail_count"`
	TotalCount uint32 `json:"total_count"`
}

// Report is the complete findings document. Its verdict always matches the
// embedded compare receipt's verdict, and the number of findings equals the
// warn count plus the fail count.
type Report struct {
	ReportType string                 `json:"report_type"`
	Verdict    metric.Verdict         `json:"verdict"`
	Compare    receipt.CompareReceipt `json:"compare"`
	Findings   []Finding              `json:"findings"`
	Summary    Summary                `json:"summary"`
}

// FromCompare derives the findings document for one gate decision. Findings
// appear in the metric total order, so the output is deterministic for a
// given receipt.
func FromCompare(c receipt.CompareReceipt) Report {
	// Non-nil so a clean report serializes its findings as [].
	findings := []Finding{}
	for _, m := range metric.All() {
		d, ok := c.Deltas[m]
		if !ok || d.Status == metric.Pass {
			continue
		}
		findings = append(findings, newFinding(m, d, c.Budgets[m]))
	}

	counts := c.Verdict.Counts
	return Report{
		ReportType: Schema,
		Verdict:    c.Verdict,
		Compare:    c,
		Findings:   findings,
		Summary: Summary{
			PassCount:  counts.Pass,
			WarnCount:  counts.Warn,
			FailCount:  counts.Fail,
			TotalCount: counts.Pass + counts.Warn + counts.Fail,
		},
	}
}

func newFinding(m metric.Metric, d metric.Delta, b metric.Budget) Finding {
	code := CodeMetricWarn
	severity := "warn"
	headline := "Performance regression near threshold"
	if d.Status == metric.Fail {
		code = CodeMetricFail
		severity = "fail"
		headline = "Performance regression exceeded threshold"
	}
	return Finding{
		CheckID:  CheckID,
		Code:     code,
		Severity: severity,
		Message: fmt.Sprintf("%s for %s: %.2f%% regression (threshold: %.2f%%)",
			headline, m, d.Regression*100, b.Threshold*100),
		Data: FindingData{
			MetricName:    string(m),
			Baseline:      d.Baseline,
			Current:       d.Current,
			RegressionPct: d.Regression,
			Threshold:     b.Threshold,
			Direction:     b.Direction,
		},
	}
}
