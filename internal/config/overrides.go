package config

import "strings"

// Overrides carries command-line values that take precedence over the file.
// Empty strings and nil pointers leave the loaded value untouched.
type Overrides struct {
	InputDir         string
	OutputDir        string
	SplitDir         string
	Language         string
	Layout           string
	LogLevel         string
	SplitMode        string
	Seed             *uint64
	Reset            *bool
	FixMissingPeriod *bool
}

// Apply merges o into the configuration, then normalizes and validates the
// result again.
func (c *Config) Apply(o Overrides) error {
	setString(&c.Paths.InputDir, o.InputDir)
	setString(&c.Paths.OutputDir, o.OutputDir)
	setString(&c.Paths.SplitDir, o.SplitDir)
	setString(&c.Tokenizer.Language, o.Language)
	setString(&c.Normalize.Layout, o.Layout)
	setString(&c.Logging.Level, o.LogLevel)
	setString(&c.Split.Mode, o.SplitMode)
	if o.Seed != nil {
		c.Split.Seed = *o.Seed
	}
	if o.Reset != nil {
		c.Split.Reset = *o.Reset
	}
	if o.FixMissingPeriod != nil {
		c.Normalize.FixMissingPeriod = *o.FixMissingPeriod
	}
	if err := c.normalize(); err != nil {
		return err
	}
	return c.Validate()
}

func setString(dst *string, value string) {
	if value = strings.TrimSpace(value); value != "" {
		*dst = value
	}
}
