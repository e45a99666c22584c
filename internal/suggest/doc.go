// Package suggest loads external edit suggestions and resolves them into
// timed edits. Suggestions arrive as (sentence, quoted text, category)
// triples; a suggestion that names an unknown sentence or quotes text that
// cannot be found is a per-item failure, never a fatal error.
package suggest
