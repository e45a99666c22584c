package pipeline

import (
	"context"
	"log/slog"

	"podcut/internal/audit"
	"podcut/internal/config"
	"podcut/internal/edit"
	"podcut/internal/lexicon"
	"podcut/internal/logging"
	"podcut/internal/observe"
	"podcut/internal/repair"
	"podcut/internal/segments"
	"podcut/internal/semantic"
	"podcut/internal/workspace"
)

// Stage names.
const (
	StageSentences = "sentences"
	StageDetect    = "detect"
	StageMerge     = "merge"
	StageSegments  = "segments"
	StageAudit     = "audit"
	StageReview    = "review"
	StageFix       = "fix"
)

// Stage is one step of the pipeline.
type Stage interface {
	Name() string
	Run(ctx context.Context, run *Run) error
}

// Run carries the state shared by the stages of one invocation. Logger is
// scoped to the active stage.
type Run struct {
	ID        string
	Workspace *workspace.Workspace
	Config    *config.Config
	Lexicon   *lexicon.Lexicon
	Logger    *slog.Logger
	Metrics   *observe.Metrics
	Results   Results

	pending []artifact
}

// Results collects what each stage produced for display.
type Results struct {
	Sentences *SentenceStats   `json:"sentences,omitempty"`
	Detect    *edit.Summary    `json:"detect,omitempty"`
	Merge     *edit.Summary    `json:"merge,omitempty"`
	Segments  *segments.Stats  `json:"segments,omitempty"`
	Audit     *audit.Report    `json:"audit,omitempty"`
	Review    *semantic.Report `json:"review,omitempty"`
	Fix       *repair.Result   `json:"fix,omitempty"`
	Skipped   []string         `json:"skipped,omitempty"`
	Ignored   []string         `json:"ignored,omitempty"`
	Artifacts []Artifact       `json:"artifacts,omitempty"`
}

// SentenceStats describes the sentence index.
type SentenceStats struct {
	Sentences int  `json:"sentences"`
	Words     int  `json:"words"`
	Generated bool `json:"generated"`
}

// Artifact is a file written during the run.
type Artifact struct {
	Stage   string `json:"stage"`
	Name    string `json:"name"`
	Version int    `json:"version,omitempty"`
	SHA256  string `json:"sha256"`
}

type artifact struct {
	name string
	data []byte
}

// writeJSON writes v to the workspace and queues it for snapshotting.
func (r *Run) writeJSON(name string, v any) error {
	data, err := r.Workspace.WriteJSON(name, v)
	if err != nil {
		return err
	}
	r.record(name, data)
	return nil
}

// record queues bytes already written to the workspace for snapshotting.
func (r *Run) record(name string, data []byte) {
	r.pending = append(r.pending, artifact{name: name, data: data})
}

func (r *Run) takePending() []artifact {
	out := r.pending
	r.pending = nil
	return out
}

func (r *Run) skip(stage, reason string) {
	r.Results.Skipped = append(r.Results.Skipped, stage)
	r.Logger.Info("stage skipped", logging.String("reason", reason))
}

func categoryCounts(byType map[edit.Category]int) map[string]int {
	out := make(map[string]int, len(byType))
	for k, v := range byType {
		out[string(k)] = v
	}
	return out
}
