// Package feedback decodes the reviewer feedback file consumed by the audit:
// restored sentences, sentences deleted by hand, missed catches and the
// ok/flagged status markers left on earlier audit issues.
package feedback
