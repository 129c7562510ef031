package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/EffortlessMetrics/perfgate/internal/logging"
	"github.com/EffortlessMetrics/perfgate/internal/metric"
)

const (
	exitFail = 2
	exitWarn = 3
)

// verdictError carries a non-pass gate outcome out of a command so main can
// turn it into the matching exit code without reparsing anything.
type verdictError struct {
	status metric.Status
	code   int
}

func (e *verdictError) Error() string {
	return fmt.Sprintf("verdict: %s", e.status)
}

// verdictExit converts a verdict into the error the command should return.
// Nil means the gate passed (or warned while warnings are tolerated).
func verdictExit(status metric.Status, failOnWarn bool) error {
	switch status {
	case metric.Fail:
		return &verdictError{status: status, code: exitFail}
	case metric.Warn:
		if failOnWarn {
			return &verdictError{status: status, code: exitWarn}
		}
	}
	return nil
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "perfgate",
		Short: "Measure command performance and gate CI on regressions",
		Long: `perfgate runs a command repeatedly, reduces the samples to robust
statistics, and compares them against a stored baseline under regression
budgets. It is built for CI: stable JSON receipts, markdown PR comments,
and exit codes a pipeline can branch on.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	logger := func() (*zap.Logger, error) {
		return logging.New(verbose)
	}

	root.AddCommand(
		newRunCmd(logger),
		newCompareCmd(),
		newCheckCmd(logger),
		newMdCmd(),
		newAnnotationsCmd(),
		newReportCmd(),
		newExportCmd(),
		newPromoteCmd(),
	)
	return root
}
