package config

const (
	defaultOutputDir  = "cleaned_files"
	defaultSplitDir   = "data_split"
	defaultLogDir     = "~/.local/share/cassprep/logs"
	defaultLedgerName = "ledger.db"
	defaultLanguage   = "fr"
	defaultLayout     = LayoutMarkerOnce
	defaultSplitMode  = SplitModeBatch
	defaultTrain      = 0.8
	defaultValidation = 0.1
	defaultTest       = 0.1
	defaultSeed       = 42
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
)

// Default returns a Config populated with repository defaults. The tokenizer
// language is left empty so normalize can apply CASSPREP_LANGUAGE first.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			SplitDir:  defaultSplitDir,
			LogDir:    defaultLogDir,
		},
		Normalize: Normalize{
			Layout: defaultLayout,
		},
		Split: Split{
			Mode:       defaultSplitMode,
			Train:      defaultTrain,
			Validation: defaultValidation,
			Test:       defaultTest,
			Seed:       defaultSeed,
		},
		Ledger: Ledger{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
