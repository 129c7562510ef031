// Package collector drives the warmup-then-measure sampling loop for one
// bench and turns raw executions into samples.
package collector

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/EffortlessMetrics/perfgate/internal/runner"
	"github.com/EffortlessMetrics/perfgate/internal/stats"
)

// Plan describes one bench's sampling schedule.
type Plan struct {
	// Warmup is the number of unmeasured priming executions that run first.
	Warmup uint32

	// Repeat is the number of measured executions. Must be at least 1.
	Repeat uint32

	// WorkUnits, when set, is the amount of work one execution performs and
	// enables the throughput metric.
	WorkUnits *uint64
}

// Collect executes the command Warmup+Repeat times sequentially and returns
// one sample per execution, warmups first, in execution order. Iterations
// never overlap; each observes the machine unloaded by its siblings.
//
// A non-zero exit or a timeout is recorded in the sample, not returned as an
// error; only a failure to execute at all aborts the loop.
func Collect(r runner.Runner, spec runner.CommandSpec, plan Plan) ([]stats.Sample, error) {
	if plan.Repeat == 0 {
		return nil, fmt.Errorf("repeat must be at least 1")
	}

	total := int(plan.Warmup) + int(plan.Repeat)
	samples := make([]stats.Sample, 0, total)
	for i := 0; i < total; i++ {
		res, err := r.Run(spec)
		if err != nil {
			return nil, fmt.Errorf("iteration %d of %d: %w", i+1, total, err)
		}
		samples = append(samples, toSample(res, i < int(plan.Warmup), plan.WorkUnits))
	}
	return samples, nil
}

func toSample(res runner.ExecutionResult, warmup bool, workUnits *uint64) stats.Sample {
	s := stats.Sample{
		WallMs:   res.WallMs,
		ExitCode: res.ExitCode,
		Warmup:   warmup,
		TimedOut: res.TimedOut,
		MaxRssKb: res.MaxRssKb,
		Stdout:   lossyString(res.Stdout),
		Stderr:   lossyString(res.Stderr),
	}
	if workUnits != nil {
		thr := throughput(*workUnits, res.WallMs)
		s.ThroughputPerS = &thr
	}
	return s
}

// throughput is work units per wall-clock second. A sub-millisecond run has
// no measurable duration, so its throughput is pinned to zero rather than
// divided toward infinity.
func throughput(workUnits, wallMs uint64) float64 {
	if wallMs == 0 {
		return 0.0
	}
	return float64(workUnits) / (float64(wallMs) / 1000.0)
}

// lossyString decodes bytes as UTF-8, replacing invalid sequences, so sample
// output is always valid JSON text.
func lossyString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		sb.WriteRune(r)
		b = b[size:]
	}
	return sb.String()
}
