// Package audit checks final deletion segments against the transcript, the
// consolidated edits and reviewer feedback.
//
// Four independent checks run on every audit: restored sentences that a
// segment still cuts into, manual deletions that never made it into the
// segments, silent gaps left between neighbouring cuts, and deletions long
// enough to need a continuity review. The engine only reports; repairs are
// left to the repair package.
package audit
