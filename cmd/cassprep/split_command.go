package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cassprep/internal/config"
	"cassprep/internal/faults"
	"cassprep/internal/ledger"
	"cassprep/internal/pipeline"
)

func newSplitCommand(ctx *commandContext) *cobra.Command {
	var (
		stories    string
		train      float64
		validation float64
		test       float64
		seed       uint64
	)

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Assign an existing story directory to train, validation, and test lists",
		Long: "Shuffle the identifiers of every .story file with the configured seed and\n" +
			"write all_train.txt, all_val.txt, and all_test.txt. Defaults to the output\n" +
			"directory and the proportions of the [split] section.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var overrides config.Overrides
			if cmd.Flags().Changed("seed") {
				overrides.Seed = &seed
			}
			cfg, err := ctx.applyOverrides(overrides)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("train") {
				cfg.Split.Train = train
			}
			if flags.Changed("validation") {
				cfg.Split.Validation = validation
			}
			if flags.Changed("test") {
				cfg.Split.Test = test
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			dir := cfg.Paths.OutputDir
			if strings.TrimSpace(stories) != "" {
				if dir, err = config.ExpandPath(stories); err != nil {
					return faults.Wrap(faults.ErrConfiguration, "split", "resolve stories", stories, err)
				}
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}

			return ctx.withLedger(cmd.Context(), false, func(store *ledger.Store) error {
				result, runErr := pipeline.Split(cmd.Context(), pipeline.Options{
					Config: cfg,
					Logger: logger,
					Ledger: store,
				}, dir)
				if result.RunID != "" {
					renderPassSummary(cmd.OutOrStdout(), pipeline.CommandSplit, cfg.Paths.SplitDir, result, runErr)
				}
				return runErr
			})
		},
	}

	cmd.Flags().StringVar(&stories, "stories", "", "Story directory to split (defaults to the output directory)")
	cmd.Flags().Float64Var(&train, "train", 0, "Train proportion")
	cmd.Flags().Float64Var(&validation, "validation", 0, "Validation proportion")
	cmd.Flags().Float64Var(&test, "test", 0, "Test proportion")
	cmd.Flags().Uint64Var(&seed, "seed", 0, fmt.Sprintf("Shuffle seed (config default %d)", config.Default().Split.Seed))
	return cmd
}
