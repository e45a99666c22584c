package semantic

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"podcut/internal/audit"
	"podcut/internal/config"
	"podcut/internal/interval"
	"podcut/internal/lexicon"
	"podcut/internal/logging"
	"podcut/internal/transcript"
)

// Finding types.
const (
	TypeMissingContent  = "missing_content"
	TypeResidualFiller  = "residual_filler"
	TypeResidualStutter = "residual_stutter"
)

// Options configures Review.
type Options struct {
	MissingRunMin     int
	MissingRunGap     float64
	HighSeverityChars int
	StutterGap        float64

	Lexicon *lexicon.Lexicon
	Logger  *slog.Logger
	Now     func() time.Time
}

// OptionsFromConfig maps the semantic config section onto Options.
func OptionsFromConfig(cfg config.Semantic, lex *lexicon.Lexicon, logger *slog.Logger) Options {
	return Options{
		MissingRunMin:     cfg.MissingRunMin,
		MissingRunGap:     cfg.MissingRunGap,
		HighSeverityChars: cfg.HighSeverityChars,
		StutterGap:        cfg.StutterGap,
		Lexicon:           lex,
		Logger:            logger,
	}
}

// Finding is one semantic issue. Missing content is timed on the source
// timeline; residual findings on the re-transcription timeline.
type Finding struct {
	Type      string             `json:"type"`
	Severity  audit.Severity     `json:"severity"`
	Time      float64            `json:"time"`
	Range     *interval.Interval `json:"timeRange,omitempty"`
	Text      string             `json:"text"`
	WordCount int                `json:"wordCount,omitempty"`
	Context   string             `json:"context,omitempty"`
}

// Stats summarises the alignment.
type Stats struct {
	Original int `json:"original_words"`
	Expected int `json:"expected_kept"`
	Actual   int `json:"actual_words"`
	Matched  int `json:"lcs_matched"`
	Missing  int `json:"lcs_missing"`
}

// Checks groups the findings by kind.
type Checks struct {
	ResidualFillers  []Finding `json:"residual_fillers"`
	ResidualStutters []Finding `json:"residual_stutters"`
	MissingContent   []Finding `json:"missing_content"`
}

// Summary counts findings.
type Summary struct {
	TotalIssues int                    `json:"total_issues"`
	BySeverity  map[audit.Severity]int `json:"by_severity"`
}

// Report is the review_report.json document.
type Report struct {
	GeneratedAt time.Time `json:"timestamp"`
	Stats       Stats     `json:"stats"`
	Checks      Checks    `json:"checks"`
	Summary     Summary   `json:"summary"`
}

// Review aligns the re-transcription of the cut audio against the words the
// segments were expected to keep and scans the re-transcription for leftover
// fillers and stutters.
func Review(actual, original []transcript.Word, segments []interval.Interval, opts Options) Report {
	lex := opts.Lexicon
	if lex == nil {
		lex = lexicon.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := logging.NewComponentLogger(opts.Logger, "semantic")

	origSpeech := speech(original)
	actSpeech := speech(actual)
	expected := Expected(origSpeech, segments)

	expTokens, expWords := tokens(lex, expected)
	actTokens, _ := tokens(lex, actSpeech)
	pairs := align(expTokens, actTokens)

	matched := make([]bool, len(expTokens))
	for _, p := range pairs {
		matched[p.expected] = true
	}
	var missing []transcript.Word
	for i, ok := range matched {
		if !ok {
			missing = append(missing, expWords[i])
		}
	}

	r := Report{
		GeneratedAt: now().UTC(),
		Stats: Stats{
			Original: len(origSpeech),
			Expected: len(expected),
			Actual:   len(actSpeech),
			Matched:  len(pairs),
			Missing:  len(missing),
		},
		Checks: Checks{
			ResidualFillers:  residualFillers(lex, actSpeech),
			ResidualStutters: residualStutters(lex, actSpeech, opts.StutterGap),
			MissingContent:   missingRuns(missing, opts),
		},
	}
	r.Summary = summarize(r.Checks)

	logger.Info("semantic review complete",
		logging.Int("original_words", r.Stats.Original),
		logging.Int("expected_words", r.Stats.Expected),
		logging.Int("actual_words", r.Stats.Actual),
		logging.Int("matched", r.Stats.Matched),
		logging.Int("missing", r.Stats.Missing),
		logging.Int("issues", r.Summary.TotalIssues),
	)
	return r
}

// Expected returns the speech words no deletion segment contains.
func Expected(words []transcript.Word, segments []interval.Interval) []transcript.Word {
	idx := interval.NewIndex(segments)
	var out []transcript.Word
	for _, w := range words {
		if w.IsSpeech() && !idx.Covers(w.Span(), transcript.CoverEpsilon) {
			out = append(out, w)
		}
	}
	return out
}

func speech(words []transcript.Word) []transcript.Word {
	out := make([]transcript.Word, 0, len(words))
	for _, w := range words {
		if w.IsSpeech() {
			out = append(out, w)
		}
	}
	return out
}

// tokens returns the punctuation-free texts used for alignment together with
// the words they came from. Words with no text left are dropped.
func tokens(lex *lexicon.Lexicon, words []transcript.Word) ([]string, []transcript.Word) {
	texts := make([]string, 0, len(words))
	kept := make([]transcript.Word, 0, len(words))
	for _, w := range words {
		if t := lex.Clean(w.Text); t != "" {
			texts = append(texts, t)
			kept = append(kept, w)
		}
	}
	return texts, kept
}

func missingRuns(missing []transcript.Word, opts Options) []Finding {
	out := []Finding{}
	flush := func(run []transcript.Word) {
		if len(run) < opts.MissingRunMin || len(run) == 0 {
			return
		}
		text := joinWords(run)
		sev := audit.SeverityLow
		if len([]rune(text)) > opts.HighSeverityChars {
			sev = audit.SeverityHigh
		}
		span := interval.New(run[0].Start, run[len(run)-1].End)
		out = append(out, Finding{
			Type:      TypeMissingContent,
			Severity:  sev,
			Time:      span.Start,
			Range:     &span,
			Text:      text,
			WordCount: len(run),
		})
	}

	var run []transcript.Word
	for _, w := range missing {
		if len(run) > 0 && w.Start-run[len(run)-1].End >= opts.MissingRunGap {
			flush(run)
			run = nil
		}
		run = append(run, w)
	}
	flush(run)
	return out
}

func residualFillers(lex *lexicon.Lexicon, words []transcript.Word) []Finding {
	out := []Finding{}
	for i, w := range words {
		text := lex.Clean(w.Text)
		if !lex.IsResidualFiller(text) {
			continue
		}
		out = append(out, Finding{
			Type:     TypeResidualFiller,
			Severity: audit.SeverityMedium,
			Time:     w.Start,
			Text:     text,
			Context:  surrounding(words, i, i),
		})
	}
	return out
}

// residualStutters flags adjacent identical tokens spoken less than gap
// seconds apart. Whitelisted reduplications and numerals are natural speech.
func residualStutters(lex *lexicon.Lexicon, words []transcript.Word, gap float64) []Finding {
	out := []Finding{}
	for i := 1; i < len(words); i++ {
		prev, curr := lex.Clean(words[i-1].Text), lex.Clean(words[i].Text)
		if prev == "" || prev != curr {
			continue
		}
		if words[i].Start-words[i-1].End >= gap {
			continue
		}
		if lex.IsReduplication(curr) || lex.IsReduplication(prev+curr) || lex.IsNumeral(curr) {
			continue
		}
		out = append(out, Finding{
			Type:     TypeResidualStutter,
			Severity: audit.SeverityMedium,
			Time:     words[i-1].Start,
			Text:     prev + curr,
			Context:  surrounding(words, i-1, i),
		})
	}
	return out
}

// surrounding renders the words from..to with one neighbour on each side, the
// flagged words in brackets.
func surrounding(words []transcript.Word, from, to int) string {
	var b strings.Builder
	if from > 0 {
		b.WriteString(words[from-1].Text)
	}
	b.WriteString("[")
	b.WriteString(joinWords(words[from : to+1]))
	b.WriteString("]")
	if to+1 < len(words) {
		b.WriteString(words[to+1].Text)
	}
	return b.String()
}

func joinWords(words []transcript.Word) string {
	var b strings.Builder
	for _, w := range words {
		b.WriteString(w.Text)
	}
	return b.String()
}

func summarize(c Checks) Summary {
	s := Summary{BySeverity: map[audit.Severity]int{
		audit.SeverityHigh:   0,
		audit.SeverityMedium: 0,
		audit.SeverityLow:    0,
	}}
	for _, group := range [][]Finding{c.ResidualFillers, c.ResidualStutters, c.MissingContent} {
		for _, f := range group {
			s.TotalIssues++
			s.BySeverity[f.Severity]++
		}
	}
	return s
}

// Headline renders a one-line description of the report.
func (r Report) Headline() string {
	return fmt.Sprintf("%d/%d expected words matched, %d missing run(s), %d filler(s), %d stutter(s)",
		r.Stats.Matched, r.Stats.Expected, len(r.Checks.MissingContent),
		len(r.Checks.ResidualFillers), len(r.Checks.ResidualStutters))
}
