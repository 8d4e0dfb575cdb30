// Package language provides language code normalization for tokenizer
// selection.
//
// Codes arrive from configuration and CLI flags in several shapes (ISO 639-1,
// ISO 639-2, English words, BCP 47 tags such as "fr-FR"). Everything is
// consolidated here so the tokenizer and the case-folding step agree on the
// language in use.
package language
