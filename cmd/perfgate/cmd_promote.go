package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/EffortlessMetrics/perfgate/internal/promote"
	"github.com/EffortlessMetrics/perfgate/internal/store"
)

func newPromoteCmd() *cobra.Command {
	var (
		baselineDir string
		out         string
		pretty      bool
	)

	cmd := &cobra.Command{
		Use:   "promote <run.json>",
		Short: "Normalize a run receipt and store it as the bench's baseline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := store.ReadRun(args[0])
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = filepath.Join(baselineDir, r.Bench.Name+".json")
			}
			if err := store.WriteRun(path, promote.Normalize(r), pretty); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "promoted %s -> %s\n", args[0], path)
			return nil
		},
	}

	cmd.Flags().StringVar(&baselineDir, "baseline-dir", "perfgate-baselines", "directory for named baselines")
	cmd.Flags().StringVar(&out, "out", "", "explicit baseline path (overrides --baseline-dir)")
	cmd.Flags().BoolVar(&pretty, "pretty", true, "indent the baseline JSON for clean diffs")

	return cmd
}
