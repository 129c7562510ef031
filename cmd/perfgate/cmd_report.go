package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EffortlessMetrics/perfgate/internal/report"
	"github.com/EffortlessMetrics/perfgate/internal/store"
)

func newReportCmd() *cobra.Command {
	var (
		comparePath string
		out         string
		pretty      bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Derive a findings document from a compare receipt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := store.ReadCompare(comparePath)
			if err != nil {
				return err
			}

			r := report.FromCompare(c)
			if err := store.WriteReport(out, r, pretty); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d findings)\n", out, len(r.Findings))
			return nil
		},
	}

	cmd.Flags().StringVar(&comparePath, "compare", "", "compare receipt to derive findings from")
	cmd.Flags().StringVar(&out, "out", "report.json", "where to write the findings document")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the report JSON")
	_ = cmd.MarkFlagRequired("compare")

	return cmd
}
