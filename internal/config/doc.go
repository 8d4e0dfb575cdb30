// Package config loads cassprep settings from TOML and resolves them into a
// ready-to-use Config.
//
// Defaults come first, then the file found on the search path, then
// environment fallbacks (CASSPREP_INPUT_DIR, CASSPREP_LANGUAGE) and finally
// command-line overrides through Apply. Paths are expanded to absolute form
// and enumerations are lower-cased before Validate checks them, so callers
// never see a relative directory or a mixed-case layout name.
//
// Invalid settings are reported as faults.ErrConfiguration.
package config
