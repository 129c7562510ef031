package render

import (
	"strings"
	"testing"

	"github.com/EffortlessMetrics/perfgate/internal/metric"
	"github.com/EffortlessMetrics/perfgate/internal/receipt"
	"github.com/EffortlessMetrics/perfgate/internal/stats"
)

func compareFixture() receipt.CompareReceipt {
	return receipt.NewCompare("sort-large", "baseline.json", "run.json",
		map[metric.Metric]metric.Budget{
			metric.WallMs:   {Threshold: 0.20, WarnThreshold: 0.18, Direction: metric.Lower},
			metric.MaxRssKb: {Threshold: 0.20, WarnThreshold: 0.18, Direction: metric.Lower},
		},
		map[metric.Metric]metric.Delta{
			metric.WallMs:   {Baseline: 1000, Current: 1500, Ratio: 1.5, Pct: 0.5, Regression: 0.5, Status: metric.Fail},
			metric.MaxRssKb: {Baseline: 1000, Current: 1190, Ratio: 1.19, Pct: 0.19, Regression: 0.19, Status: metric.Warn},
		},
		metric.Verdict{
			Status:  metric.Fail,
			Counts:  metric.VerdictCounts{Warn: 1, Fail: 1},
			Reasons: []string{"wall_ms_fail", "max_rss_kb_warn"},
		},
	)
}

func TestMarkdownTable(t *testing.T) {
	out := Markdown(compareFixture())

	for _, want := range []string{
		"## perfgate: `sort-large`",
		"| Metric | Baseline | Current | Change | Budget | Status |",
		"| wall_ms | 1000 ms | 1500 ms | +50.0% | 20.0% |",
		"| max_rss_kb | 1000 KB | 1190 KB | +19.0% | 20.0% |",
		"`wall_ms_fail`",
		"`max_rss_kb_warn`",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("markdown missing %q:\n%s", want, out)
		}
	}

	// The wall row precedes the rss row regardless of map iteration order.
	if strings.Index(out, "wall_ms |") > strings.Index(out, "max_rss_kb |") {
		t.Fatalf("rows out of order:\n%s", out)
	}
}

func TestMarkdownPassHasNoReasons(t *testing.T) {
	c := receipt.NewCompare("b", "base", "cur",
		map[metric.Metric]metric.Budget{
			metric.WallMs: {Threshold: 0.2, WarnThreshold: 0.18, Direction: metric.Lower},
		},
		map[metric.Metric]metric.Delta{
			metric.WallMs: {Baseline: 100, Current: 90, Ratio: 0.9, Pct: -0.1, Status: metric.Pass},
		},
		metric.Verdict{Status: metric.Pass, Counts: metric.VerdictCounts{Pass: 1}},
	)
	out := Markdown(c)
	if strings.Contains(out, "Reasons:") {
		t.Fatalf("pass verdict should not list reasons:\n%s", out)
	}
	if !strings.Contains(out, "-10.0%") {
		t.Fatalf("improvement should render with a minus sign:\n%s", out)
	}
}

func TestMarkdownNoBaseline(t *testing.T) {
	r := receipt.NewRun(
		receipt.RunMeta{ID: "x"},
		receipt.BenchMeta{Name: "fresh", Command: []string{"true"}},
		nil,
		stats.Stats{WallMs: stats.Uint64Summary{Median: 120, Min: 100, Max: 150}},
	)
	out := MarkdownNoBaseline("fresh", r)
	for _, want := range []string{"no baseline", "| wall_ms | 120 ms | 100 ms | 150 ms |"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "max_rss_kb") {
		t.Fatalf("unmeasured metrics must not render:\n%s", out)
	}
}

func TestAnnotations(t *testing.T) {
	out := Annotations(compareFixture())

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 annotations, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "::error ") || !strings.Contains(lines[0], "wall_ms") {
		t.Fatalf("first annotation should be the wall_ms error, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "::warning ") || !strings.Contains(lines[1], "max_rss_kb") {
		t.Fatalf("second annotation should be the rss warning, got %q", lines[1])
	}
}

func TestAnnotationsEmptyOnPass(t *testing.T) {
	c := receipt.NewCompare("b", "base", "cur",
		map[metric.Metric]metric.Budget{
			metric.WallMs: {Threshold: 0.2, WarnThreshold: 0.18, Direction: metric.Lower},
		},
		map[metric.Metric]metric.Delta{
			metric.WallMs: {Baseline: 100, Current: 100, Ratio: 1, Pct: 0, Status: metric.Pass},
		},
		metric.Verdict{Status: metric.Pass, Counts: metric.VerdictCounts{Pass: 1}},
	)
	if out := Annotations(c); out != "" {
		t.Fatalf("pass verdict should produce no annotations, got %q", out)
	}
}
