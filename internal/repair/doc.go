// Package repair applies the audit findings that have a mechanical fix to a
// deletion segment list. It is a separate corrective step; the audit itself
// never edits segments.
package repair
