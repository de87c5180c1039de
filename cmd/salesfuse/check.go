package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate configuration and source files without writing",
		Long: `Check loads configuration and every source file, runs the full transform
and reports row counts and join statistics. Nothing is written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			r, err := newRunner(cfg)
			if err != nil {
				return err
			}

			summary, err := r.Check(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, table := range sourceTables {
				fmt.Fprintf(out, "%-15s %d rows\n", table, summary.Sources[table])
			}
			printSummary(out, summary)
			return nil
		},
	}
}
