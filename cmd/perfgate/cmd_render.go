package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/EffortlessMetrics/perfgate/internal/render"
	"github.com/EffortlessMetrics/perfgate/internal/store"
)

func newMdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "md <compare.json>",
		Short: "Render a compare receipt as a Markdown PR comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := store.ReadCompare(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Markdown(c))
			return nil
		},
	}
}

func newAnnotationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "annotations <compare.json>",
		Short: "Emit GitHub Actions annotations for non-pass metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := store.ReadCompare(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), render.Annotations(c))
			return nil
		},
	}
}
