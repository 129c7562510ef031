package stats

// Sample records one execution of the target command. Samples are appended
// in collection order and never mutated afterwards.
type Sample struct {
	WallMs   uint64 `json:"wall_ms"`
	ExitCode int    `json:"exit_code"`

	// Warmup marks an execution that primes caches before measurement.
	// Warmup samples are recorded in receipts but excluded from statistics.
	Warmup bool `json:"warmup"`

	TimedOut bool `json:"timed_out"`

	// MaxRssKb is the peak resident set size in kilobytes, when the platform
	// exposed it. Absent means unknown, never zero.
	MaxRssKb *uint64 `json:"max_rss_kb,omitempty"`

	// ThroughputPerS is work_units / wall seconds, when work units were
	// configured for the bench.
	ThroughputPerS *float64 `json:"throughput_per_s,omitempty"`

	// Truncated stdout/stderr, interpreted as UTF-8 lossily.
	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`
}

// Stats summarizes a completed sample sequence. The wall-time summary is
// always present; the optional summaries are present only when every measured
// sample carried the underlying value.
type Stats struct {
	WallMs         Uint64Summary   `json:"wall_ms"`
	MaxRssKb       *Uint64Summary  `json:"max_rss_kb,omitempty"`
	ThroughputPerS *Float64Summary `json:"throughput_per_s,omitempty"`
}

// Aggregate reduces samples to Stats, considering only non-warmup samples.
// Adding, removing, or mutating warmup samples never changes the result.
// Returns ErrNoSamples when no measured samples remain after the filter.
func Aggregate(samples []Sample) (Stats, error) {
	var measured []Sample
	for _, s := range samples {
		if !s.Warmup {
			measured = append(measured, s)
		}
	}
	if len(measured) == 0 {
		return Stats{}, ErrNoSamples
	}

	wall := make([]uint64, len(measured))
	for i, s := range measured {
		wall[i] = s.WallMs
	}
	wallSummary, err := SummarizeUint64(wall)
	if err != nil {
		return Stats{}, err
	}

	out := Stats{WallMs: wallSummary}

	if rss, ok := rssValues(measured); ok {
		summary, err := SummarizeUint64(rss)
		if err != nil {
			return Stats{}, err
		}
		out.MaxRssKb = &summary
	}

	if thr, ok := throughputValues(measured); ok {
		summary, err := SummarizeFloat64(thr)
		if err != nil {
			return Stats{}, err
		}
		out.ThroughputPerS = &summary
	}

	return out, nil
}

// rssValues returns the per-sample peak RSS values, but only when every
// measured sample has one. A partial set would summarize an unrepresentative
// subset, so the metric is omitted instead.
func rssValues(measured []Sample) ([]uint64, bool) {
	values := make([]uint64, 0, len(measured))
	for _, s := range measured {
		if s.MaxRssKb == nil {
			return nil, false
		}
		values = append(values, *s.MaxRssKb)
	}
	return values, true
}

func throughputValues(measured []Sample) ([]float64, bool) {
	values := make([]float64, 0, len(measured))
	for _, s := range measured {
		if s.ThroughputPerS == nil {
			return nil, false
		}
		values = append(values, *s.ThroughputPerS)
	}
	return values, true
}
