package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/EffortlessMetrics/perfgate/internal/collector"
	"github.com/EffortlessMetrics/perfgate/internal/gate"
	"github.com/EffortlessMetrics/perfgate/internal/hostinfo"
	"github.com/EffortlessMetrics/perfgate/internal/receipt"
	"github.com/EffortlessMetrics/perfgate/internal/runner"
	"github.com/EffortlessMetrics/perfgate/internal/stats"
	"github.com/EffortlessMetrics/perfgate/internal/store"
)

type runFlags struct {
	name           string
	repeat         uint32
	warmup         uint32
	work           uint64
	cwd            string
	timeout        time.Duration
	env            []string
	outputCapBytes int
	allowNonzero   bool
	hashHostname   bool
	out            string
	pretty         bool
}

func newRunCmd(logger func() (*zap.Logger, error)) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run [flags] -- command [args...]",
		Short: "Measure a command and write a run receipt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger()
			if err != nil {
				return err
			}
			defer log.Sync()
			return runBench(cmd, args, flags, log)
		},
	}

	cmd.Flags().StringVar(&flags.name, "name", "", "bench name recorded in the receipt (defaults to the command word)")
	cmd.Flags().Uint32Var(&flags.repeat, "repeat", 5, "measured executions")
	cmd.Flags().Uint32Var(&flags.warmup, "warmup", 0, "unmeasured priming executions")
	cmd.Flags().Uint64Var(&flags.work, "work", 0, "work units per execution; enables the throughput metric")
	cmd.Flags().StringVar(&flags.cwd, "cwd", "", "working directory for the command")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "per-execution timeout (0 = unbounded)")
	cmd.Flags().StringArrayVar(&flags.env, "env", nil, "KEY=VALUE environment override (repeatable)")
	cmd.Flags().IntVar(&flags.outputCapBytes, "output-cap-bytes", gate.DefaultOutputCapBytes, "captured bytes kept per stream")
	cmd.Flags().BoolVar(&flags.allowNonzero, "allow-nonzero", false, "tolerate non-zero exit codes and timeouts")
	cmd.Flags().BoolVar(&flags.hashHostname, "hash-hostname", false, "record a SHA-256 hostname hash in the receipt")
	cmd.Flags().StringVar(&flags.out, "out", "run.json", "receipt output path")
	cmd.Flags().BoolVar(&flags.pretty, "pretty", false, "indent the receipt JSON")

	return cmd
}

func runBench(cmd *cobra.Command, argv []string, flags runFlags, log *zap.Logger) error {
	spec := runner.CommandSpec{
		Argv:           argv,
		Dir:            flags.cwd,
		Timeout:        flags.timeout,
		OutputCapBytes: flags.outputCapBytes,
	}
	for _, kv := range flags.env {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid --env %q (expected KEY=VALUE)", kv)
		}
		spec.Env = append(spec.Env, runner.EnvVar{Key: key, Value: value})
	}

	var workUnits *uint64
	if flags.work > 0 {
		workUnits = &flags.work
	}
	plan := collector.Plan{
		Warmup:    flags.warmup,
		Repeat:    flags.repeat,
		WorkUnits: workUnits,
	}

	name := flags.name
	if name == "" {
		name = argv[0]
	}

	log.Info("collecting samples",
		zap.String("bench", name),
		zap.Strings("command", argv),
		zap.Uint32("warmup", plan.Warmup),
		zap.Uint32("repeat", plan.Repeat))

	started := time.Now().UTC()
	samples, err := collector.Collect(runner.New(), spec, plan)
	if err != nil {
		return err
	}
	ended := time.Now().UTC()

	if !flags.allowNonzero {
		for i, s := range samples {
			if s.TimedOut {
				return fmt.Errorf("iteration %d timed out (use --allow-nonzero to record it anyway)", i+1)
			}
			if s.ExitCode != 0 {
				return fmt.Errorf("iteration %d exited with code %d (use --allow-nonzero to record it anyway)", i+1, s.ExitCode)
			}
		}
	}

	aggregated, err := stats.Aggregate(samples)
	if err != nil {
		return err
	}

	meta := receipt.BenchMeta{
		Name:      name,
		Cwd:       flags.cwd,
		Command:   argv,
		Repeat:    plan.Repeat,
		Warmup:    plan.Warmup,
		WorkUnits: workUnits,
	}
	if flags.timeout > 0 {
		ms := uint64(flags.timeout.Milliseconds())
		meta.TimeoutMs = &ms
	}

	r := receipt.NewRun(
		receipt.RunMeta{
			ID:        uuid.NewString(),
			StartedAt: started,
			EndedAt:   ended,
			Host:      hostinfo.Probe(hostinfo.Options{HashHostname: flags.hashHostname}),
		},
		meta,
		samples,
		aggregated,
	)
	if err := store.WriteRun(flags.out, r, flags.pretty); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (wall_ms median %d)\n", flags.out, aggregated.WallMs.Median)
	return nil
}
