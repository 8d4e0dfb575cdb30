// Package split assigns accepted story identifiers to the train, validation,
// and test lists.
//
// Two modes exist. Batch collects every identifier of a run and partitions
// the shuffled list by proportion in two stages, matching the historical
// split files. Streaming decides each identifier as it arrives with a seeded
// draw (8 train : 1 validation : 1 test) and appends it to the list file
// immediately. Both modes are deterministic for a given seed and input order.
package split
