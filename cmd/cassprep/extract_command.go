package main

import (
	"github.com/spf13/cobra"

	"cassprep/internal/config"
	"cassprep/internal/ledger"
	"cassprep/internal/pipeline"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var (
		layout    string
		splitMode string
		seed      uint64
		reset     bool
		fixPeriod bool
	)

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract stories from the markup archive and assign splits",
		Long: "Walk the markup archive, write one <id>.story per decision that has both\n" +
			"a text and at least one analysis, and assign every written identifier to\n" +
			"the train, validation, or test list.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := config.Overrides{Layout: layout, SplitMode: splitMode}
			if cmd.Flags().Changed("seed") {
				overrides.Seed = &seed
			}
			if cmd.Flags().Changed("reset") {
				overrides.Reset = &reset
			}
			if cmd.Flags().Changed("fix-missing-period") {
				overrides.FixMissingPeriod = &fixPeriod
			}
			cfg, err := ctx.applyOverrides(overrides)
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			return ctx.withLedger(cmd.Context(), false, func(store *ledger.Store) error {
				result, runErr := pipeline.Extract(cmd.Context(), pipeline.Options{
					Config: cfg,
					Logger: logger,
					Ledger: store,
				})
				if result.RunID != "" {
					renderPassSummary(cmd.OutOrStdout(), pipeline.CommandExtract, cfg.Paths.OutputDir, result, runErr)
				}
				return runErr
			})
		},
	}

	cmd.Flags().StringVar(&layout, "layout", "", "Summary layout: marker_once or marker_per_fragment")
	cmd.Flags().StringVar(&splitMode, "split-mode", "", "Split mode: batch or streaming")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Split seed")
	cmd.Flags().BoolVar(&reset, "reset", false, "Truncate the split lists before a streaming run")
	cmd.Flags().BoolVar(&fixPeriod, "fix-missing-period", false, "Append \" .\" to lines without a sentence terminal")
	return cmd
}
