package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/EffortlessMetrics/perfgate/internal/budget"
	"github.com/EffortlessMetrics/perfgate/internal/metric"
	"github.com/EffortlessMetrics/perfgate/internal/receipt"
	"github.com/EffortlessMetrics/perfgate/internal/store"
)

type compareFlags struct {
	baseline         string
	current          string
	threshold        float64
	warnFactor       float64
	metricThresholds []string
	directions       []string
	failOnWarn       bool
	out              string
	pretty           bool
}

func newCompareCmd() *cobra.Command {
	var flags compareFlags

	cmd := &cobra.Command{
		Use:   "compare --baseline base.json --current run.json",
		Short: "Gate a run receipt against a baseline receipt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return compareReceipts(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.baseline, "baseline", "", "baseline run receipt path")
	cmd.Flags().StringVar(&flags.current, "current", "", "current run receipt path")
	cmd.Flags().Float64Var(&flags.threshold, "threshold", 0.20, "default fail threshold as a fraction")
	cmd.Flags().Float64Var(&flags.warnFactor, "warn-factor", 0.90, "warn boundary as a fraction of the fail threshold")
	cmd.Flags().StringArrayVar(&flags.metricThresholds, "metric-threshold", nil, "per-metric threshold override, metric=fraction (repeatable)")
	cmd.Flags().StringArrayVar(&flags.directions, "direction", nil, "per-metric direction override, metric=lower|higher (repeatable)")
	cmd.Flags().BoolVar(&flags.failOnWarn, "fail-on-warn", false, "treat a warn verdict as a failure (exit 3)")
	cmd.Flags().StringVar(&flags.out, "out", "compare.json", "compare receipt output path")
	cmd.Flags().BoolVar(&flags.pretty, "pretty", false, "indent the receipt JSON")
	cobra.CheckErr(cmd.MarkFlagRequired("baseline"))
	cobra.CheckErr(cmd.MarkFlagRequired("current"))

	return cmd
}

func compareReceipts(cmd *cobra.Command, flags compareFlags) error {
	base, err := store.ReadRun(flags.baseline)
	if err != nil {
		return err
	}
	current, err := store.ReadRun(flags.current)
	if err != nil {
		return err
	}

	overrides, err := parseOverrides(flags.metricThresholds, flags.directions)
	if err != nil {
		return err
	}
	defaults := budget.Defaults{Threshold: flags.threshold, WarnFactor: flags.warnFactor}
	budgets, err := budget.Resolve(base.Stats, current.Stats, defaults, overrides)
	if err != nil {
		return err
	}
	cmp, err := budget.Compare(base.Stats, current.Stats, budgets)
	if err != nil {
		return err
	}

	out := receipt.NewCompare(current.Bench.Name, flags.baseline, flags.current, budgets, cmp.Deltas, cmp.Verdict)
	if err := store.WriteCompare(flags.out, out, flags.pretty); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "verdict: %s (%d pass, %d warn, %d fail)\n",
		cmp.Verdict.Status, cmp.Verdict.Counts.Pass, cmp.Verdict.Counts.Warn, cmp.Verdict.Counts.Fail)
	return verdictExit(cmp.Verdict.Status, flags.failOnWarn)
}

// parseOverrides turns repeated metric=value flags into comparator
// overrides.
func parseOverrides(thresholds, directions []string) (budget.Overrides, error) {
	ov := budget.Overrides{
		Thresholds: make(map[metric.Metric]float64),
		Directions: make(map[metric.Metric]metric.Direction),
	}
	for _, pair := range thresholds {
		m, value, err := splitMetricPair(pair, "--metric-threshold")
		if err != nil {
			return budget.Overrides{}, err
		}
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return budget.Overrides{}, fmt.Errorf("invalid threshold %q for %s", value, m)
		}
		ov.Thresholds[m] = f
	}
	for _, pair := range directions {
		m, value, err := splitMetricPair(pair, "--direction")
		if err != nil {
			return budget.Overrides{}, err
		}
		d, err := metric.ParseDirection(value)
		if err != nil {
			return budget.Overrides{}, err
		}
		ov.Directions[m] = d
	}
	return ov, nil
}

func splitMetricPair(pair, flag string) (metric.Metric, string, error) {
	name, value, ok := strings.Cut(pair, "=")
	if !ok {
		return "", "", fmt.Errorf("invalid %s %q (expected metric=value)", flag, pair)
	}
	m := metric.Metric(name)
	if !m.Valid() {
		return "", "", fmt.Errorf("unknown metric %q in %s", name, flag)
	}
	return m, value, nil
}
