package detect

import (
	"log/slog"

	"podcut/internal/config"
	"podcut/internal/edit"
	"podcut/internal/interval"
	"podcut/internal/lexicon"
	"podcut/internal/logging"
	"podcut/internal/transcript"
)

// Rule labels recorded on detected edits.
const (
	RuleSilence       = "silence-cap"
	RuleStutterExact  = "stutter-exact"
	RuleStutterSuffix = "stutter-suffix"
	RuleRestartCue    = "restart-cue"
)

// Options configures a Detector.
type Options struct {
	SilenceThreshold       float64
	SilenceKeep            float64
	MinSilenceDelete       float64
	SilenceAttachSlack     float64
	RepeatReviewConfidence float64
	SuffixReviewConfidence float64
	MinSuffixChars         int
	RestartMinWords        int
	RestartCompareWords    int
	RestartSimilarity      float64
	RestartDuplicateWindow float64

	Lexicon *lexicon.Lexicon
	Logger  *slog.Logger
}

// OptionsFromConfig maps the detect config section onto Options.
func OptionsFromConfig(cfg config.Detect, lex *lexicon.Lexicon, logger *slog.Logger) Options {
	return Options{
		SilenceThreshold:       cfg.SilenceThreshold,
		SilenceKeep:            cfg.SilenceKeep,
		MinSilenceDelete:       cfg.MinSilenceDelete,
		SilenceAttachSlack:     cfg.SilenceAttachSlack,
		RepeatReviewConfidence: cfg.RepeatReviewConfidence,
		SuffixReviewConfidence: cfg.SuffixReviewConfidence,
		MinSuffixChars:         cfg.MinSuffixChars,
		RestartMinWords:        cfg.RestartMinWords,
		RestartCompareWords:    cfg.RestartCompareWords,
		RestartSimilarity:      cfg.RestartSimilarity,
		RestartDuplicateWindow: cfg.RestartDuplicateWindow,
		Lexicon:                lex,
		Logger:                 logger,
	}
}

// Result is the rule layer output.
type Result struct {
	Edits   []edit.Edit  `json:"edits"`
	Summary edit.Summary `json:"summary"`
}

// Detector runs the rule layer.
type Detector struct {
	opts   Options
	lex    *lexicon.Lexicon
	logger *slog.Logger
}

// New constructs a Detector. A nil lexicon selects the built-in tables.
func New(opts Options) *Detector {
	lex := opts.Lexicon
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Detector{
		opts:   opts,
		lex:    lex,
		logger: logging.NewComponentLogger(opts.Logger, "rules"),
	}
}

type sentenceRule struct {
	name string
	run  func(s transcript.Sentence, l *ledger) []edit.Edit
}

// Detect runs every rule over the attached sentences. Sentences listed in
// deleted were removed upstream and are skipped.
func (d *Detector) Detect(tr *transcript.Transcript, sentences []transcript.Sentence, deleted []int) Result {
	skip := transcript.IndexSet(deleted)
	l := newLedger()

	for _, e := range d.silences(tr, sentences, skip) {
		l.add(e)
	}

	rules := []sentenceRule{
		{name: RuleStutterExact, run: d.exactStutters},
		{name: RuleStutterSuffix, run: d.suffixStutters},
		{name: RuleRestartCue, run: d.restart},
	}
	for _, s := range sentences {
		if skip[s.Index] {
			continue
		}
		for _, rule := range rules {
			for _, e := range rule.run(s, l) {
				l.add(e)
			}
		}
	}

	edits := l.all()
	edit.SortByStart(edits)
	summary := edit.Summarize(edits)
	d.logger.Info("rule layer complete",
		logging.Int("sentences", len(sentences)),
		logging.Int("skipped_sentences", len(skip)),
		logging.Int("edits", summary.TotalEdits),
		logging.Int("needs_review", summary.NeedsReview),
		logging.String("time_saved", summary.EstimatedTimeSaved),
	)
	return Result{Edits: edits, Summary: summary}
}

// ledger tracks the edits accepted so far, grouped by sentence.
type ledger struct {
	order      []edit.Edit
	bySentence map[int][]interval.Interval
}

func newLedger() *ledger {
	return &ledger{bySentence: make(map[int][]interval.Interval)}
}

func (l *ledger) add(e edit.Edit) {
	l.order = append(l.order, e)
	l.bySentence[e.SentenceIndex] = append(l.bySentence[e.SentenceIndex], e.Span())
}

func (l *ledger) all() []edit.Edit {
	return append([]edit.Edit(nil), l.order...)
}

// coverage returns the accepted spans of one sentence as a transcript.Coverage.
func (l *ledger) coverage(sentence int) spans {
	return spans(l.bySentence[sentence])
}

func (l *ledger) overlaps(sentence int, q interval.Interval) bool {
	for _, iv := range l.bySentence[sentence] {
		if iv.Overlaps(q) {
			return true
		}
	}
	return false
}

func (l *ledger) startsNear(sentence int, t, window float64) bool {
	for _, iv := range l.bySentence[sentence] {
		d := iv.Start - t
		if d < 0 {
			d = -d
		}
		if d < window {
			return true
		}
	}
	return false
}

type spans []interval.Interval

func (s spans) Covers(q interval.Interval, eps float64) bool {
	for _, iv := range s {
		if iv.Contains(q, eps) {
			return true
		}
	}
	return false
}
