package main

import (
	"github.com/spf13/cobra"

	"cassprep/internal/config"
	"cassprep/internal/ledger"
	"cassprep/internal/pipeline"
)

func newTokenizeCommand(ctx *commandContext) *cobra.Command {
	var fixPeriod bool

	cmd := &cobra.Command{
		Use:   "tokenize",
		Short: "Re-tokenize and normalize an existing story directory",
		Long: "Read every .story file in --input and write its tokenized, normalized\n" +
			"form under the same name in --output.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var overrides config.Overrides
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
				result, runErr := pipeline.Retokenize(cmd.Context(), pipeline.Options{
					Config: cfg,
					Logger: logger,
					Ledger: store,
				})
				if result.RunID != "" {
					renderPassSummary(cmd.OutOrStdout(), pipeline.CommandTokenize, cfg.Paths.OutputDir, result, runErr)
				}
				return runErr
			})
		},
	}

	cmd.Flags().BoolVar(&fixPeriod, "fix-missing-period", false, "Append \" .\" to lines without a sentence terminal")
	return cmd
}
