// Package edit defines the deletion candidate shared by every detector and
// the consolidated edit document written between stages.
//
// An Edit names the sentence it belongs to, a category, the time range to
// delete, the literal deleted and kept text, and its provenance. Ambiguous
// matches carry NeedsReview with a numeric confidence so a human reviewer
// can decide. Summarize produces the per-category counts and estimated time
// saved reported with every edit document.
package edit
