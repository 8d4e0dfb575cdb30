// Package extract locates the decision text and its analysis summaries inside
// a court-decision markup file.
//
// The markup is loosely structured and frequently malformed, so extraction is
// pattern based rather than a full XML parse. Each cleanup step is a named
// Rule applied in a fixed order. A document that does not carry both regions
// yields a Record whose Check reports the rejection reason; extraction itself
// never fails.
package extract
