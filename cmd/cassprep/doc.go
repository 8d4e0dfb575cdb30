// Package main hosts the cassprep CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once per invocation, applies
// command-line overrides, opens the run ledger, and hands off to the
// internal pipeline for the extract, tokenize, and split passes. The runs
// commands read the ledger back. The config commands scaffold the sample file,
// print the resolved configuration and run preflight checks.
//
// Keep this package lean: behavior lives in internal packages, and commands
// here only translate flags and render results.
package main
