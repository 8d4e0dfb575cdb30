package testsupport

import (
	"path/filepath"
	"testing"

	"cassprep/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The input directory exists but is empty.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.InputDir = filepath.Join(base, "xml")
	cfgVal.Paths.OutputDir = filepath.Join(base, "cleaned_files")
	cfgVal.Paths.SplitDir = filepath.Join(base, "data_split")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.LedgerPath = filepath.Join(base, "logs", "ledger.db")
	cfgVal.Tokenizer.Language = "fr"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	mkdir(t, cfgVal.Paths.InputDir)

	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}

	return builder.cfg
}

// WithLayout selects the summary layout.
func WithLayout(layout string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Normalize.Layout = layout
	}
}

// WithStreamingSplit switches the split section to streaming mode.
func WithStreamingSplit(seed uint64, reset bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Split.Mode = config.SplitModeStreaming
		b.cfg.Split.Seed = seed
		b.cfg.Split.Reset = reset
	}
}

// WithoutLedger disables the run ledger.
func WithoutLedger() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ledger.Enabled = false
	}
}

// WithMissingPeriodRepair enables the optional period repair step.
func WithMissingPeriodRepair() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Normalize.FixMissingPeriod = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.InputDir)
}
