// Package logging assembles the slog loggers used by the cassprep commands.
//
// A run logs to the terminal in the configured format (a compact "pretty"
// console layout or JSON) and, when a log directory is configured, appends
// JSON lines to cassprep.log as well. Context helpers attach the run and
// document identifiers so every line of a run can be correlated with the
// ledger. NewNop returns a logger for tests and optional wiring.
package logging
