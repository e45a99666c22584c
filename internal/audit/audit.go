package audit

import (
	"log/slog"
	"time"

	"podcut/internal/config"
	"podcut/internal/edit"
	"podcut/internal/feedback"
	"podcut/internal/interval"
	"podcut/internal/lexicon"
	"podcut/internal/logging"
	"podcut/internal/transcript"
)

// Options configures an Engine.
type Options struct {
	IntentionalRatio   float64
	IntentionalOverlap float64
	CutGapMin          float64
	CutGapMax          float64
	CutContextWords    int
	CutContextWindow   float64
	LargeDeletion      float64
	LargeContextWords  int
	LargeContextWindow float64

	Lexicon *lexicon.Lexicon
	Logger  *slog.Logger
	Now     func() time.Time
}

// OptionsFromConfig maps the audit config section onto Options.
func OptionsFromConfig(cfg config.Audit, lex *lexicon.Lexicon, logger *slog.Logger) Options {
	return Options{
		IntentionalRatio:   cfg.IntentionalRatio,
		IntentionalOverlap: cfg.IntentionalOverlap,
		CutGapMin:          cfg.CutGapMin,
		CutGapMax:          cfg.CutGapMax,
		CutContextWords:    cfg.CutContextWords,
		CutContextWindow:   cfg.CutContextWindow,
		LargeDeletion:      cfg.LargeDeletion,
		LargeContextWords:  cfg.LargeContextWords,
		LargeContextWindow: cfg.LargeContextWindow,
		Lexicon:            lex,
		Logger:             logger,
	}
}

// Input is everything one audit run looks at. Sentences must be attached to
// Transcript. Edits and Feedback are optional.
type Input struct {
	Workspace  string
	Transcript *transcript.Transcript
	Sentences  []transcript.Sentence
	Segments   []interval.Interval
	Edits      []edit.Edit
	Feedback   *feedback.Feedback
}

// Engine runs the post-cut checks. It never changes the segments it audits.
type Engine struct {
	opts   Options
	lex    *lexicon.Lexicon
	logger *slog.Logger
	now    func() time.Time
}

// New constructs an Engine.
func New(opts Options) *Engine {
	lex := opts.Lexicon
	if lex == nil {
		lex = lexicon.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		opts:   opts,
		lex:    lex,
		logger: logging.NewComponentLogger(opts.Logger, "audit"),
		now:    now,
	}
}

// Run executes the four checks and returns the report. The checks are
// independent of each other.
func (e *Engine) Run(in Input) Report {
	a := newAuditor(e, in)
	report := Report{
		GeneratedAt:   e.now().UTC(),
		Workspace:     in.Workspace,
		TotalSegments: len(a.segments),
		Checks: Checks{
			RestoredSentences: a.restoredSentences(),
			ManualDeletions:   a.manualDeletions(),
			CutPointSilences:  a.cutPointSilences(),
			LargeDeletions:    a.largeDeletions(),
		},
	}
	for _, sec := range []*Section{
		&report.Checks.RestoredSentences,
		&report.Checks.ManualDeletions,
		&report.Checks.CutPointSilences,
		&report.Checks.LargeDeletions,
	} {
		for i := range sec.Issues {
			is := &sec.Issues[i]
			is.Acknowledged = in.Feedback.Acknowledged(is.Type, is.Time)
		}
	}
	report.finalize()

	e.logger.Info("audit complete",
		logging.Int("segments", report.TotalSegments),
		logging.Int("restored_issues", len(report.Checks.RestoredSentences.Issues)),
		logging.Int("manual_issues", len(report.Checks.ManualDeletions.Issues)),
		logging.Int("silence_issues", len(report.Checks.CutPointSilences.Issues)),
		logging.Int("large_deletions", len(report.Checks.LargeDeletions.Issues)),
		logging.Int("acknowledged", report.Acknowledged),
		logging.Int("failures", report.Failures),
		logging.Bool("passed", report.Passed),
	)
	return report
}
