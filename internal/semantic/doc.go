// Package semantic checks the rendered cut against the plan. The
// re-transcription of the cut audio is aligned word by word against the words
// the deletion segments were expected to keep; runs of expected words the
// alignment cannot find are reported as missing content. The re-transcription
// is also scanned directly for fillers and stutters that survived the cut.
package semantic
