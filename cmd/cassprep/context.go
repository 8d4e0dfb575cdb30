package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"cassprep/internal/config"
	"cassprep/internal/faults"
	"cassprep/internal/ledger"
	"cassprep/internal/logging"
)

type globalFlags struct {
	config   string
	input    string
	output   string
	splitDir string
	language string
	logLevel string
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

// ensureConfig loads the configuration once and applies the global flags.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = asConfigError(err)
			return
		}
		err = cfg.Apply(config.Overrides{
			InputDir:  c.flags.input,
			OutputDir: c.flags.output,
			SplitDir:  c.flags.splitDir,
			Language:  c.flags.language,
			LogLevel:  c.flags.logLevel,
		})
		if err != nil {
			c.configErr = asConfigError(err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = faults.Wrap(faults.ErrIO, "config", "create directories", "", err)
			return
		}
		c.config = cfg
		c.configPath = path
		c.configSeen = exists
	})
	return c.config, c.configErr
}

// applyOverrides merges command-specific flags into the loaded configuration.
func (c *commandContext) applyOverrides(o config.Overrides) (*config.Config, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Apply(o); err != nil {
		return nil, asConfigError(err)
	}
	return cfg, nil
}

func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, asConfigError(err)
	}
	return logger, nil
}

// withLedger opens the ledger for the duration of fn. A disabled ledger
// yields nil unless required is set.
func (c *commandContext) withLedger(ctx context.Context, required bool, fn func(*ledger.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if !cfg.Ledger.Enabled && !required {
		return fn(nil)
	}
	store, err := ledger.Open(ctx, cfg.Paths.LedgerPath)
	if err != nil {
		if errors.Is(err, ledger.ErrSchemaMismatch) {
			return faults.Wrap(faults.ErrConfiguration, "ledger", "open", cfg.Paths.LedgerPath, err)
		}
		return faults.Wrap(faults.ErrIO, "ledger", "open", cfg.Paths.LedgerPath, err)
	}
	defer store.Close()
	return fn(store)
}

func asConfigError(err error) error {
	if err == nil || faults.Kind(err) != "failed" {
		return err
	}
	return faults.Wrap(faults.ErrConfiguration, "config", "load", "", err)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
