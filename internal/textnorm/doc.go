// Package textnorm turns space-joined token text into the canonical story
// representation: lower-cased, ASCII-only, one sentence fragment per line, with
// the @highlight marker separating the body from its summary.
//
// The steps run in a fixed order because later rules assume earlier ones have
// already fired (the ellipsis and line-break repairs expect ASCII input, and
// the marker placement rule expects collapsed whitespace). Normalizing a text
// twice yields the same result as normalizing it once.
package textnorm
