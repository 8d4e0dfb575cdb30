package config

import (
	"fmt"

	"cassprep/internal/faults"
	"cassprep/internal/language"
	"cassprep/internal/split"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTokenizer(); err != nil {
		return err
	}
	if err := c.validateLayout(); err != nil {
		return err
	}
	if err := c.validateSplit(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTokenizer() error {
	if !language.Supported(c.Tokenizer.Language) {
		return faults.Wrap(faults.ErrConfiguration, "config", "tokenizer.language",
			fmt.Sprintf("unsupported language %q", c.Tokenizer.Language), nil)
	}
	return nil
}

func (c *Config) validateLayout() error {
	switch c.Normalize.Layout {
	case LayoutMarkerOnce, LayoutMarkerPerFragment:
		return nil
	default:
		return faults.Wrap(faults.ErrConfiguration, "config", "normalize.layout",
			fmt.Sprintf("must be %q or %q, got %q", LayoutMarkerOnce, LayoutMarkerPerFragment, c.Normalize.Layout), nil)
	}
}

func (c *Config) validateSplit() error {
	switch c.Split.Mode {
	case SplitModeBatch, SplitModeStreaming:
	default:
		return faults.Wrap(faults.ErrConfiguration, "config", "split.mode",
			fmt.Sprintf("must be %q or %q, got %q", SplitModeBatch, SplitModeStreaming, c.Split.Mode), nil)
	}
	batch := split.Batch{Train: c.Split.Train, Validation: c.Split.Validation, Test: c.Split.Test}
	return batch.Validate()
}

// SplitMode converts the split section into the planner mode.
func (c *Config) SplitMode() split.Mode {
	if c.Split.Mode == SplitModeStreaming {
		return split.Streaming{Seed: c.Split.Seed, Reset: c.Split.Reset}
	}
	return split.Batch{
		Train:      c.Split.Train,
		Validation: c.Split.Validation,
		Test:       c.Split.Test,
		Seed:       c.Split.Seed,
	}
}
