// Package preflight provides readiness checks for the filesystem paths and
// the run ledger that cassprep depends on.
//
// The CLI "cassprep config validate" command runs every check and renders one
// status line per result. Checks never modify anything: a missing output
// directory is reported, not created.
package preflight
