package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EffortlessMetrics/perfgate/internal/export"
	"github.com/EffortlessMetrics/perfgate/internal/store"
)

func newExportCmd() *cobra.Command {
	var (
		runPath     string
		comparePath string
		format      string
	)

	cmd := &cobra.Command{
		Use:   "export (--run run.json | --compare compare.json)",
		Short: "Flatten a receipt into CSV or JSONL rows on stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if (runPath == "") == (comparePath == "") {
				return fmt.Errorf("exactly one of --run or --compare is required")
			}
			if format != "csv" && format != "jsonl" {
				return fmt.Errorf("unknown format %q (expected csv or jsonl)", format)
			}
			out := cmd.OutOrStdout()

			if runPath != "" {
				r, err := store.ReadRun(runPath)
				if err != nil {
					return err
				}
				rows := export.RunRows(r)
				if format == "csv" {
					return export.RunCSV(out, rows)
				}
				return export.RunJSONL(out, rows)
			}

			c, err := store.ReadCompare(comparePath)
			if err != nil {
				return err
			}
			rows := export.CompareRows(c)
			if format == "csv" {
				return export.CompareCSV(out, rows)
			}
			return export.CompareJSONL(out, rows)
		},
	}

	cmd.Flags().StringVar(&runPath, "run", "", "run receipt to export")
	cmd.Flags().StringVar(&comparePath, "compare", "", "compare receipt to export")
	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or jsonl")

	return cmd
}
