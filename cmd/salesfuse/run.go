package main

import (
	"github.com/JonMunkholm/salesfuse/internal/config"
	"github.com/spf13/cobra"
)

type runFlags struct {
	skipDB   bool
	skipFile bool
	strict   bool
	preview  int
	rounding string
	loadMode string
	output   string
}

func newRunCmd(g *globalFlags) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load, transform and publish the sales table",
		Long: `Run reads the five source files, joins and derives the output rows, prints
a preview, then writes every configured sink. A sink failure does not stop
the others; the command exits non-zero if any sink failed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			changed := cmd.Flags().Changed
			cfg, err := loadConfig(g, cmd.ErrOrStderr(), func(c *config.Config) {
				if flags.skipDB {
					c.Database.Driver = config.DriverNone
				}
				if flags.skipFile {
					c.Output.Enabled = false
				}
				if changed("strict") {
					c.Pipeline.StrictJoins = flags.strict
				}
				if changed("preview") {
					c.Pipeline.PreviewRows = flags.preview
				}
				if flags.rounding != "" {
					c.Pipeline.Rounding = flags.rounding
				}
				if flags.loadMode != "" {
					c.Database.LoadMode = flags.loadMode
				}
				if flags.output != "" {
					c.Output.Path = flags.output
				}
			})
			if err != nil {
				return err
			}

			r, err := newRunner(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			sinks, closeSinks, err := openSinks(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeSinks()

			r.Sinks = sinks
			r.Preview = cfg.Pipeline.PreviewRows
			r.PreviewTo = cmd.OutOrStdout()

			summary, err := r.Run(ctx)
			printSummary(cmd.OutOrStdout(), summary)
			return err
		},
	}

	cmd.Flags().BoolVar(&flags.skipDB, "skip-db", false, "do not write the database table")
	cmd.Flags().BoolVar(&flags.skipFile, "skip-file", false, "do not write the output file")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "fail when a join key matches more than one row")
	cmd.Flags().IntVar(&flags.preview, "preview", 0, "print the first N output rows (0 disables; default PIPELINE_PREVIEW_ROWS)")
	cmd.Flags().StringVar(&flags.rounding, "rounding", "", "money rounding mode: half_even or half_up")
	cmd.Flags().StringVar(&flags.loadMode, "load-mode", "", "database load mode: append or replace")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file path")

	return cmd
}
