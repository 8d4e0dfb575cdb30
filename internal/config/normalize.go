package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTokenizer()
	c.normalizeLayout()
	c.normalizeSplit()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		if value, ok := os.LookupEnv("CASSPREP_INPUT_DIR"); ok {
			c.Paths.InputDir = strings.TrimSpace(value)
		}
	}
	if c.Paths.InputDir, err = expandPath(strings.TrimSpace(c.Paths.InputDir)); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SplitDir) == "" {
		c.Paths.SplitDir = defaultSplitDir
	}
	if c.Paths.SplitDir, err = expandPath(c.Paths.SplitDir); err != nil {
		return fmt.Errorf("paths.split_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LedgerPath) == "" {
		c.Paths.LedgerPath = filepath.Join(c.Paths.LogDir, defaultLedgerName)
	}
	if c.Paths.LedgerPath, err = expandPath(c.Paths.LedgerPath); err != nil {
		return fmt.Errorf("paths.ledger_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeTokenizer() {
	if strings.TrimSpace(c.Tokenizer.Language) == "" {
		if value, ok := os.LookupEnv("CASSPREP_LANGUAGE"); ok {
			c.Tokenizer.Language = value
		}
	}
	c.Tokenizer.Language = strings.ToLower(strings.TrimSpace(c.Tokenizer.Language))
	if c.Tokenizer.Language == "" {
		c.Tokenizer.Language = defaultLanguage
	}
}

func (c *Config) normalizeLayout() {
	layout := strings.ToLower(strings.TrimSpace(c.Normalize.Layout))
	layout = strings.ReplaceAll(layout, "-", "_")
	if layout == "" {
		layout = defaultLayout
	}
	c.Normalize.Layout = layout
}

func (c *Config) normalizeSplit() {
	c.Split.Mode = strings.ToLower(strings.TrimSpace(c.Split.Mode))
	if c.Split.Mode == "" {
		c.Split.Mode = defaultSplitMode
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
