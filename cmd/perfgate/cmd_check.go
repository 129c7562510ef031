package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/EffortlessMetrics/perfgate/internal/gate"
	"github.com/EffortlessMetrics/perfgate/internal/runner"
)

func newCheckCmd(logger func() (*zap.Logger, error)) *cobra.Command {
	var (
		configPath      string
		requireBaseline bool
		failOnWarn      bool
		hashHostname    bool
		pretty          bool
	)

	cmd := &cobra.Command{
		Use:   "check <bench>",
		Short: "Run one declared bench and gate it against its baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger()
			if err != nil {
				return err
			}
			defer log.Sync()

			res, err := gate.Check(runner.New(), gate.Options{
				ConfigPath:      configPath,
				BenchName:       args[0],
				RequireBaseline: requireBaseline,
				HashHostname:    hashHostname,
				Pretty:          pretty,
			}, log)
			if err != nil {
				return err
			}

			if !res.BaselineFound {
				fmt.Fprintf(cmd.OutOrStdout(), "no baseline; wrote %s\n", res.RunPath)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "verdict: %s (comment at %s)\n", res.Verdict.Status, res.CommentPath)
			return verdictExit(res.Verdict.Status, failOnWarn)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "perfgate.toml", "bench file path (.toml, .yaml, or .yml)")
	cmd.Flags().BoolVar(&requireBaseline, "require-baseline", false, "fail when no baseline exists")
	cmd.Flags().BoolVar(&failOnWarn, "fail-on-warn", false, "treat a warn verdict as a failure (exit 3)")
	cmd.Flags().BoolVar(&hashHostname, "hash-hostname", false, "record a SHA-256 hostname hash in receipts")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the written JSON artifacts")

	return cmd
}
