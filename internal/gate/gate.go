// Package gate runs the config-driven check workflow: measure a declared
// bench, compare it against its stored baseline, and leave the run, compare,
// and comment artifacts where CI expects them.
package gate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/EffortlessMetrics/perfgate/internal/budget"
	"github.com/EffortlessMetrics/perfgate/internal/collector"
	"github.com/EffortlessMetrics/perfgate/internal/config"
	"github.com/EffortlessMetrics/perfgate/internal/hostinfo"
	"github.com/EffortlessMetrics/perfgate/internal/metric"
	"github.com/EffortlessMetrics/perfgate/internal/receipt"
	"github.com/EffortlessMetrics/perfgate/internal/render"
	"github.com/EffortlessMetrics/perfgate/internal/runner"
	"github.com/EffortlessMetrics/perfgate/internal/stats"
	"github.com/EffortlessMetrics/perfgate/internal/store"
)

// DefaultOutputCapBytes bounds captured child output per stream.
const DefaultOutputCapBytes = 8192

// Options selects the bench and the gate policy.
type Options struct {
	ConfigPath string
	BenchName  string

	// RequireBaseline turns a missing baseline from a pass into an error.
	RequireBaseline bool

	// HashHostname opts in to recording a hashed hostname in receipts.
	HashHostname bool

	// Pretty indents the written JSON artifacts.
	Pretty bool
}

// Result reports what the gate produced. Verdict is nil when no baseline
// existed to compare against.
type Result struct {
	Verdict       *metric.Verdict
	BaselineFound bool

	RunPath     string
	ComparePath string
	CommentPath string
}

// Check measures one declared bench and gates it against its baseline.
func Check(r runner.Runner, opts Options, log *zap.Logger) (Result, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return Result{}, err
	}
	bench, ok := cfg.Bench(opts.BenchName)
	if !ok {
		return Result{}, fmt.Errorf("bench %q is not declared in %s", opts.BenchName, opts.ConfigPath)
	}

	spec := commandSpec(bench)
	plan := collector.Plan{
		Warmup:    cfg.EffectiveWarmup(bench),
		Repeat:    cfg.EffectiveRepeat(bench),
		WorkUnits: bench.Work,
	}

	log.Info("collecting samples",
		zap.String("bench", bench.Name),
		zap.Uint32("warmup", plan.Warmup),
		zap.Uint32("repeat", plan.Repeat))

	started := time.Now().UTC()
	samples, err := collector.Collect(r, spec, plan)
	if err != nil {
		return Result{}, fmt.Errorf("bench %q: %w", bench.Name, err)
	}
	ended := time.Now().UTC()

	current, err := stats.Aggregate(samples)
	if err != nil {
		return Result{}, fmt.Errorf("bench %q: %w", bench.Name, err)
	}

	run := receipt.NewRun(
		receipt.RunMeta{
			ID:        uuid.NewString(),
			StartedAt: started,
			EndedAt:   ended,
			Host:      hostinfo.Probe(hostinfo.Options{HashHostname: opts.HashHostname}),
		},
		benchMeta(bench, plan),
		samples,
		current,
	)

	outDir := filepath.Join(cfg.Defaults.OutDir, bench.Name)
	res := Result{
		RunPath:     filepath.Join(outDir, "run.json"),
		ComparePath: filepath.Join(outDir, "compare.json"),
		CommentPath: filepath.Join(outDir, "comment.md"),
	}
	if err := store.WriteRun(res.RunPath, run, opts.Pretty); err != nil {
		return Result{}, err
	}

	baselinePath := filepath.Join(cfg.Defaults.BaselineDir, bench.Name+".json")
	baseline, err := store.ReadRun(baselinePath)
	if errors.Is(err, store.ErrNotFound) {
		if opts.RequireBaseline {
			return Result{}, fmt.Errorf("bench %q: no baseline at %s", bench.Name, baselinePath)
		}
		log.Warn("no baseline found; skipping comparison",
			zap.String("bench", bench.Name),
			zap.String("path", baselinePath))
		comment := render.MarkdownNoBaseline(bench.Name, run)
		if err := writeComment(res.CommentPath, comment); err != nil {
			return Result{}, err
		}
		res.ComparePath = ""
		return res, nil
	}
	if err != nil {
		return Result{}, err
	}
	res.BaselineFound = true

	defaults := budget.Defaults{
		Threshold:  *cfg.Defaults.Threshold,
		WarnFactor: *cfg.Defaults.WarnFactor,
	}
	budgets, err := budget.Resolve(baseline.Stats, current, defaults, bench.BudgetOverrides())
	if err != nil {
		return Result{}, fmt.Errorf("bench %q: %w", bench.Name, err)
	}
	cmp, err := budget.Compare(baseline.Stats, current, budgets)
	if err != nil {
		return Result{}, fmt.Errorf("bench %q: %w", bench.Name, err)
	}

	compareReceipt := receipt.NewCompare(bench.Name, baselinePath, res.RunPath, budgets, cmp.Deltas, cmp.Verdict)
	if err := store.WriteCompare(res.ComparePath, compareReceipt, opts.Pretty); err != nil {
		return Result{}, err
	}
	if err := writeComment(res.CommentPath, render.Markdown(compareReceipt)); err != nil {
		return Result{}, err
	}

	log.Info("gate decided",
		zap.String("bench", bench.Name),
		zap.String("verdict", string(cmp.Verdict.Status)),
		zap.Strings("reasons", cmp.Verdict.Reasons))

	res.Verdict = &cmp.Verdict
	return res, nil
}

func commandSpec(b config.Bench) runner.CommandSpec {
	spec := runner.CommandSpec{
		Argv:           b.Command,
		Dir:            b.Cwd,
		Timeout:        b.TimeoutDuration(),
		OutputCapBytes: DefaultOutputCapBytes,
	}
	keys := make([]string, 0, len(b.Env))
	for k := range b.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		spec.Env = append(spec.Env, runner.EnvVar{Key: k, Value: b.Env[k]})
	}
	return spec
}

func benchMeta(b config.Bench, plan collector.Plan) receipt.BenchMeta {
	meta := receipt.BenchMeta{
		Name:      b.Name,
		Cwd:       b.Cwd,
		Command:   b.Command,
		Repeat:    plan.Repeat,
		Warmup:    plan.Warmup,
		WorkUnits: b.Work,
	}
	if d := b.TimeoutDuration(); d > 0 {
		ms := uint64(d.Milliseconds())
		meta.TimeoutMs = &ms
	}
	return meta
}

func writeComment(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
