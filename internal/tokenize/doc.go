// Package tokenize splits decision text into whitespace-joinable tokens.
//
// The tokenizer is rule based: text is cut on whitespace, then opening
// punctuation, elided articles, closing punctuation, and clitics are peeled
// off each chunk. Language rules only decide which elisions, clitics, and
// abbreviations apply. Line breaks survive as "\n" tokens so paragraph
// structure reaches the normalizer.
package tokenize
