// Package pipeline runs podcut's stages against a workspace.
//
// Every stage reads complete inputs from the workspace directory, computes in
// memory and writes one artifact. The Runner wraps a sequence of stages with
// the workspace lock, a run record and per-stage metrics, and stores every
// artifact a stage writes as a new snapshot version. Stages are only
// cancelled between one another; the algorithms themselves run to
// completion.
//
// The audit stage is a soft failure: it writes its report, lets the
// remaining stages run and the run then ends with runctx.ErrAuditFailed.
package pipeline
