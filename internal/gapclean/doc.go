// Package gapclean runs the second silence pass over the merged edit list.
//
// Deleting words can splice two pauses together: the pause before a deleted
// stutter and the pause after it were each short enough to keep, but after the
// cut they sit next to each other. The cleaner simulates the cut timeline and
// trims every kept silence longer than the threshold back to the retained
// pause, which stays right before the next speech.
package gapclean
