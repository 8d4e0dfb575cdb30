package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	flags := &globalFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:           "cassprep",
		Short:         "Prepare the CASS decision corpus for summarization",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	pf.StringVarP(&flags.input, "input", "i", "", "Input directory (markup archive, or stories for tokenize)")
	pf.StringVarP(&flags.output, "output", "o", "", "Output directory for .story files")
	pf.StringVar(&flags.splitDir, "split-dir", "", "Directory for the train/validation/test lists")
	pf.StringVarP(&flags.language, "language", "l", "", "Tokenizer language (fr, en, it, ...)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newExtractCommand(ctx))
	rootCmd.AddCommand(newTokenizeCommand(ctx))
	rootCmd.AddCommand(newSplitCommand(ctx))
	rootCmd.AddCommand(newRunsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
