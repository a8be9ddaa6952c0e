package main

import (
	"time"

	"github.com/spf13/cobra"
)

func newStagedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "staged",
		Short: "List staged transaction artifacts still on disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.openRegistry()
			if err != nil {
				return err
			}
			records, err := reg.List()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), records)
		},
	}
}

type sweepResult struct {
	Removed []string `json:"removed"`
}

func newSweepCmd(a *app) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Delete staged artifacts older than a cutoff",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.openRegistry()
			if err != nil {
				return err
			}
			removed, err := reg.Sweep(time.Now().Add(-olderThan))
			if removed == nil {
				removed = []string{}
			}
			if werr := writeJSON(cmd.OutOrStdout(), sweepResult{Removed: removed}); werr != nil {
				return werr
			}
			return err
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 24*time.Hour, "minimum artifact age")
	return cmd
}
