// Package ledger records every extraction, tokenize, and split run in a
// SQLite database so past runs can be inspected with `cassprep runs`.
//
// Each run gets a UUID and one row per document outcome (accepted or the
// rejection reason) plus one row per split assignment. The pair (run, doc) is
// unique in both tables. The ledger is bookkeeping only: the story files and
// split lists on disk remain the output of record.
//
// Schema changes bump schemaVersion in schema.go; an older database must be
// deleted before the new binary will open it.
package ledger
