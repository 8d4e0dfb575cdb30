// Package faults defines the error taxonomy shared by the extraction, split,
// and tokenize commands.
//
// Errors are tagged with one of the exported sentinels through Wrap so callers
// can classify failures with errors.Is: configuration problems are reported
// before any document is touched, I/O failures abort immediately, and
// consistency failures surface once a full corpus pass has finished. A
// malformed document is never an error; the pipeline records it as a
// rejection instead.
package faults
