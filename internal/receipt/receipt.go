// Package receipt defines the persisted JSON documents: the run receipt
// produced by a measurement and the compare receipt produced by a gate
// decision. Field names and schema identifiers are a stable contract; CI
// tooling parses these documents across versions.
package receipt

import (
	"time"

	"github.com/EffortlessMetrics/perfgate/internal/metric"
	"github.com/EffortlessMetrics/perfgate/internal/stats"
)

// Schema identifiers. Bump the trailing version only on a breaking field
// change.
const (
	RunSchema     = "perfgate.run.v1"
	CompareSchema = "perfgate.compare.v1"
)

// ToolName and ToolVersion identify the producing binary inside receipts.
const (
	ToolName    = "perfgate"
	ToolVersion = "0.1.0"
)

// ToolInfo identifies the tool that produced a receipt.
type ToolInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Tool returns the ToolInfo for this build.
func Tool() ToolInfo {
	return ToolInfo{Name: ToolName, Version: ToolVersion}
}

// HostInfo records best-effort facts about the machine a run executed on.
// Absent fields are omitted, never zero-filled.
type HostInfo struct {
	OS           string  `json:"os"`
	Arch         string  `json:"arch"`
	CPUCount     *int    `json:"cpu_count,omitempty"`
	MemoryBytes  *uint64 `json:"memory_bytes,omitempty"`
	HostnameHash *string `json:"hostname_hash,omitempty"`
}

// RunMeta identifies one run instance.
type RunMeta struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
	Host      HostInfo  `json:"host"`
}

// BenchMeta describes what was measured and how.
type BenchMeta struct {
	Name      string   `json:"name"`
	Cwd       string   `json:"cwd,omitempty"`
	Command   []string `json:"command"`
	Repeat    uint32   `json:"repeat"`
	Warmup    uint32   `json:"warmup"`
	WorkUnits *uint64  `json:"work_units,omitempty"`
	TimeoutMs *uint64  `json:"timeout_ms,omitempty"`
}

// RunReceipt is the complete record of one measurement run.
type RunReceipt struct {
	Schema  string         `json:"schema"`
	Tool    ToolInfo       `json:"tool"`
	Run     RunMeta        `json:"run"`
	Bench   BenchMeta      `json:"bench"`
	Samples []stats.Sample `json:"samples"`
	Stats   stats.Stats    `json:"stats"`
}

// NewRun assembles a RunReceipt with the current schema and tool stamp.
func NewRun(run RunMeta, bench BenchMeta, samples []stats.Sample, st stats.Stats) RunReceipt {
	return RunReceipt{
		Schema:  RunSchema,
		Tool:    Tool(),
		Run:     run,
		Bench:   bench,
		Samples: samples,
		Stats:   st,
	}
}

// CompareReceipt is the complete record of one gate decision.
type CompareReceipt struct {
	Schema      string                          `json:"schema"`
	Tool        ToolInfo                        `json:"tool"`
	Bench       string                          `json:"bench"`
	BaselineRef string                          `json:"baseline_ref"`
	CurrentRef  string                          `json:"current_ref"`
	Budgets     map[metric.Metric]metric.Budget `json:"budgets"`
	Deltas      map[metric.Metric]metric.Delta  `json:"deltas"`
	Verdict     metric.Verdict                  `json:"verdict"`
}

// NewCompare assembles a CompareReceipt with the current schema and tool
// stamp.
func NewCompare(bench, baselineRef, currentRef string, budgets map[metric.Metric]metric.Budget, deltas map[metric.Metric]metric.Delta, verdict metric.Verdict) CompareReceipt {
	return CompareReceipt{
		Schema:      CompareSchema,
		Tool:        Tool(),
		Bench:       bench,
		BaselineRef: baselineRef,
		CurrentRef:  currentRef,
		Budgets:     budgets,
		Deltas:      deltas,
		Verdict:     verdict,
	}
}

// MetricValue extracts the median for one metric from a stats block. The
// second return is false when the receipt did not measure that metric.
func MetricValue(st stats.Stats, m metric.Metric) (float64, bool) {
	switch m {
	case metric.WallMs:
		return float64(st.WallMs.Median), true
	case metric.MaxRssKb:
		if st.MaxRssKb == nil {
			return 0, false
		}
		return float64(st.MaxRssKb.Median), true
	case metric.ThroughputPerS:
		if st.ThroughputPerS == nil {
			return 0, false
		}
		return st.ThroughputPerS.Median, true
	}
	return 0, false
}

// MetricBounds extracts the min and max for one metric from a stats block,
// with the same measured-or-not contract as MetricValue.
func MetricBounds(st stats.Stats, m metric.Metric) (min, max float64, ok bool) {
	switch m {
	case metric.WallMs:
		return float64(st.WallMs.Min), float64(st.WallMs.Max), true
	case metric.MaxRssKb:
		if st.MaxRssKb == nil {
			return 0, 0, false
		}
		return float64(st.MaxRssKb.Min), float64(st.MaxRssKb.Max), true
	case metric.ThroughputPerS:
		if st.ThroughputPerS == nil {
			return 0, 0, false
		}
		return st.ThroughputPerS.Min, st.ThroughputPerS.Max, true
	}
	return 0, 0, false
}
