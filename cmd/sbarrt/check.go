package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/sbarrt/config"
)

func newCheckCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a job file without planning",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			job, err := config.Load(path)
			if err != nil {
				return err
			}
			if _, _, err := job.BuildWorld(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "ok: %d-D world, %d obstacles\n",
				len(job.World.Lower), len(job.World.Rects)+len(job.World.Discs)); err != nil {
				return err
			}
			if job.World.Grid == nil {
				return nil
			}
			reachable, err := job.Reachable()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "grid: goal reachable: %t\n", reachable)

			return err
		},
	}
	cmd.Flags().StringVar(&path, "config", "", "job file (YAML)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
