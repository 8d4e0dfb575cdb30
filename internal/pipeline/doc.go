// Package pipeline runs the cassprep corpus passes.
//
// Extract walks the markup archive in lexical order, pulls the decision text
// and its analysis fragments out of each file, tokenizes and normalizes them
// into a story, and writes <id>.story into the output directory. Accepted
// identifiers are offered to the configured split planner as they are
// produced. Retokenize applies the same tokenize-and-normalize step to an
// existing story directory, and Split assigns an existing story directory to
// train, validation, and test lists.
//
// Every pass holds an flock on its destination directory, threads a Tally
// through each document, and records the run in the ledger when one is
// supplied. Malformed documents are counted and skipped; I/O failures and a
// story count that does not match the tally end the run.
package pipeline
