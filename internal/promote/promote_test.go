package promote

import (
	"testing"
	"time"

	"github.com/EffortlessMetrics/perfgate/internal/receipt"
	"github.com/EffortlessMetrics/perfgate/internal/stats"
)

func TestNormalize(t *testing.T) {
	cpus := 8
	started := time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)
	in := receipt.NewRun(
		receipt.RunMeta{
			ID:        "3f1c9a2e-run",
			StartedAt: started,
			EndedAt:   started.Add(time.Minute),
			Host:      receipt.HostInfo{OS: "linux", Arch: "arm64", CPUCount: &cpus},
		},
		receipt.BenchMeta{Name: "sort", Command: []string{"sort"}, Repeat: 5},
		[]stats.Sample{{WallMs: 100}},
		stats.Stats{WallMs: stats.Uint64Summary{Median: 100, Min: 100, Max: 100}},
	)

	out := Normalize(in)

	if out.Run.ID != BaselineID {
		t.Fatalf("id %q, want %q", out.Run.ID, BaselineID)
	}
	epoch := time.Unix(0, 0).UTC()
	if !out.Run.StartedAt.Equal(epoch) || !out.Run.EndedAt.Equal(epoch) {
		t.Fatalf("timestamps %v / %v, want epoch", out.Run.StartedAt, out.Run.EndedAt)
	}
	if out.Run.Host.OS != "linux" || out.Run.Host.CPUCount == nil {
		t.Fatalf("host facts must survive promotion, got %+v", out.Run.Host)
	}
	if out.Bench.Name != "sort" || out.Stats.WallMs.Median != 100 {
		t.Fatal("measurement content must survive promotion")
	}

	// The input receipt is untouched.
	if in.Run.ID != "3f1c9a2e-run" {
		t.Fatalf("input was mutated: %q", in.Run.ID)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	r := receipt.NewRun(receipt.RunMeta{ID: "x"}, receipt.BenchMeta{Name: "b"}, nil, stats.Stats{})
	once := Normalize(r)
	twice := Normalize(once)
	if once.Run != twice.Run {
		t.Fatalf("normalize is not idempotent: %+v vs %+v", once.Run, twice.Run)
	}
}
