package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Summary layouts understood by the document pipeline.
const (
	LayoutMarkerOnce        = "marker_once"
	LayoutMarkerPerFragment = "marker_per_fragment"
)

// Split modes understood by the split assigner.
const (
	SplitModeBatch     = "batch"
	SplitModeStreaming = "streaming"
)

// Paths contains corpus, output, and bookkeeping locations.
type Paths struct {
	InputDir   string `toml:"input_dir"`
	OutputDir  string `toml:"output_dir"`
	SplitDir   string `toml:"split_dir"`
	LogDir     string `toml:"log_dir"`
	LedgerPath string `toml:"ledger_path"`
}

// Tokenizer selects the tokenization rules applied before normalization.
type Tokenizer struct {
	Language string `toml:"language"`
}

// Normalize contains options for canonical record assembly.
type Normalize struct {
	// Layout is either "marker_once" (one @highlight above all summary
	// fragments) or "marker_per_fragment".
	Layout           string `toml:"layout"`
	FixMissingPeriod bool   `toml:"fix_missing_period"`
}

// Split contains train/validation/test partition settings.
type Split struct {
	Mode       string  `toml:"mode"`
	Train      float64 `toml:"train"`
	Validation float64 `toml:"validation"`
	Test       float64 `toml:"test"`
	Seed       uint64  `toml:"seed"`
	// Reset truncates the split lists before a streaming run. Batch runs
	// always rewrite the lists.
	Reset bool `toml:"reset"`
}

// Ledger controls the SQLite run ledger.
type Ledger struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for cassprep.
//
// Configuration sections by subsystem:
//   - Paths: corpus, output, split list, and log locations
//   - Tokenizer: language-specific tokenization rules
//   - Normalize: canonical record layout
//   - Split: partition mode, proportions, and seed
//   - Ledger: per-run bookkeeping database
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Tokenizer Tokenizer `toml:"tokenizer"`
	Normalize Normalize `toml:"normalize"`
	Split     Split     `toml:"split"`
	Ledger    Ledger    `toml:"ledger"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cassprep/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if os.IsNotExist(err) {
				return "", false, fmt.Errorf("config file %s does not exist", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cassprep.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output, split, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.SplitDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RequireInputDir reports an error when the corpus directory is missing or
// not a directory. Only commands that walk the markup corpus need it.
func (c *Config) RequireInputDir() error {
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		return fmt.Errorf("paths.input_dir is required. Pass --input or set CASSPREP_INPUT_DIR")
	}
	info, err := os.Stat(c.Paths.InputDir)
	if err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("paths.input_dir %s is not a directory", c.Paths.InputDir)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
