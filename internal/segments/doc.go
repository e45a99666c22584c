// Package segments assembles the final deletion segments: the disjoint,
// ascending time ranges handed to the audio cutter.
//
// Segments are the union of the consolidated edits and the whole-sentence
// deletions. Neighbours closer than the join gap are fused unless a kept
// speech word lies between them, and a first segment that starts inside the
// lead-in window is extended back to zero to drop pre-roll chatter.
package segments
