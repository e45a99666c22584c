package selfcorrect

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"podcut/internal/config"
	"podcut/internal/edit"
	"podcut/internal/interval"
	"podcut/internal/lexicon"
	"podcut/internal/logging"
	"podcut/internal/textutil"
	"podcut/internal/transcript"
)

// RuleSamePrefix labels edits produced by the scanner.
const RuleSamePrefix = "same-prefix-expansion"

// Options configures a Scanner.
type Options struct {
	MinActiveWords      int
	MaxPrefixWords      int
	MinPrefixWords      int
	MinPrefixChars      int
	SearchWindow        int
	HighConfidenceChars int
	ListOccurrences     int

	Lexicon *lexicon.Lexicon
	Logger  *slog.Logger
}

// OptionsFromConfig maps the self_correction config section onto Options.
func OptionsFromConfig(cfg config.SelfCorrection, lex *lexicon.Lexicon, logger *slog.Logger) Options {
	return Options{
		MinActiveWords:      cfg.MinActiveWords,
		MaxPrefixWords:      cfg.MaxPrefixWords,
		MinPrefixWords:      cfg.MinPrefixWords,
		MinPrefixChars:      cfg.MinPrefixChars,
		SearchWindow:        cfg.SearchWindow,
		HighConfidenceChars: cfg.HighConfidenceChars,
		ListOccurrences:     cfg.ListOccurrences,
		Lexicon:             lex,
		Logger:              logger,
	}
}

// Scanner detects same-prefix expansions.
type Scanner struct {
	opts    Options
	lex     *lexicon.Lexicon
	logger  *slog.Logger
	filters []filter
}

// New constructs a Scanner. A nil lexicon selects the built-in tables.
func New(opts Options) *Scanner {
	lex := opts.Lexicon
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Scanner{
		opts:    opts,
		lex:     lex,
		logger:  logging.NewComponentLogger(opts.Logger, "self-correction"),
		filters: defaultFilters(),
	}
}

// Scan returns the self-correction edits that do not overlap an accepted edit
// of the same sentence. Words already covered by accepted edits are ignored.
func (s *Scanner) Scan(sentences []transcript.Sentence, accepted []edit.Edit) []edit.Edit {
	cov := interval.NewIndex(edit.Spans(accepted))
	var priors []interval.Interval
	for _, e := range accepted {
		if e.Type == edit.CategorySelfCorrection {
			priors = append(priors, e.Span())
		}
	}
	prior := interval.NewIndex(priors)

	var candidates []edit.Edit
	for _, sentence := range sentences {
		if len(sentence.Words) < s.opts.MinActiveWords {
			continue
		}
		active := transcript.ActiveWords(sentence, cov)
		if len(active) < s.opts.MinActiveWords {
			continue
		}
		candidates = append(candidates, s.scanSentence(sentence, active, prior)...)
	}

	deduped := dedupe(candidates)
	var out []edit.Edit
	for _, c := range deduped {
		if overlapsSentence(accepted, c) {
			continue
		}
		out = append(out, c)
	}
	s.logger.Info("self-correction scan complete",
		logging.Int("candidates", len(candidates)),
		logging.Int("after_dedup", len(deduped)),
		logging.Int("accepted", len(out)),
	)
	return out
}

func (s *Scanner) scanSentence(sentence transcript.Sentence, active []transcript.ActiveWord, prior *interval.Index) []edit.Edit {
	texts := make([]string, len(active))
	for i, w := range active {
		texts[i] = s.lex.Clean(w.Text)
	}
	n := len(texts)
	flagged := make(map[int]bool)
	parallel := make(map[int]bool)

	var out []edit.Edit
	for ai := 0; ai < n; ai++ {
		if flagged[ai] || parallel[ai] {
			continue
		}
	prefixes:
		for k := s.opts.MaxPrefixWords; k >= s.opts.MinPrefixWords; k-- {
			if ai+k > n {
				continue
			}
			prefix := strings.Join(texts[ai:ai+k], "")
			if textutil.RuneLen(prefix) < s.opts.MinPrefixChars {
				continue
			}
			end := min(n, ai+k+s.opts.SearchWindow)
			for aj := ai + k; aj <= end-k; aj++ {
				if strings.Join(texts[aj:aj+k], "") != prefix {
					continue
				}
				if aj+k >= n {
					continue
				}
				w := window{texts: texts, ai: ai, aj: aj, k: k, prefix: prefix}
				switch v, name := s.evaluate(w); v {
				case skipStart:
					s.logger.Debug("prefix repeat rejected",
						logging.Args(append(logging.DecisionAttrs("self_correction", "skip", name),
							logging.Int(logging.FieldSentence, sentence.Index),
							logging.String("prefix", prefix),
						)...)...,
					)
					parallel[ai] = true
					break prefixes
				case skipOccurrence:
					continue
				}

				c := s.candidate(sentence, active, w)
				if prior.Intersects(c.Span()) {
					continue
				}
				for p := ai; p < aj; p++ {
					flagged[p] = true
				}
				out = append(out, c)
				break prefixes
			}
		}
	}
	return out
}

func (s *Scanner) evaluate(w window) (verdict, string) {
	for _, f := range s.filters {
		if v := f.check(s, w); v != pass {
			return v, f.name
		}
	}
	return pass, ""
}

func (s *Scanner) candidate(sentence transcript.Sentence, active []transcript.ActiveWord, w window) edit.Edit {
	first, last := active[w.ai], active[w.aj-1]

	var deleted strings.Builder
	for _, word := range sentence.Words[first.Local : last.Local+1] {
		deleted.WriteString(word.Text)
	}
	var kept strings.Builder
	for i := w.aj; i < len(active) && i < w.aj+w.k+4; i++ {
		kept.WriteString(active[i].Text)
	}
	kept.WriteString("...")

	level := edit.LevelMedium
	prefixLen := textutil.RuneLen(w.prefix)
	if prefixLen >= s.opts.HighConfidenceChars {
		level = edit.LevelHigh
	}
	return edit.Edit{
		SentenceIndex:   sentence.Index,
		Type:            edit.CategorySelfCorrectionRules,
		Rule:            RuleSamePrefix,
		WordRange:       edit.Words(first.Global, last.Global),
		DeleteText:      deleted.String(),
		KeepText:        kept.String(),
		DeleteStart:     first.Start,
		DeleteEnd:       last.End,
		Reason:          fmt.Sprintf("prefix %q repeated, second attempt continues further", w.prefix),
		Source:          edit.SourceSelfCorrection,
		ConfidenceLevel: level,
		PrefixLength:    prefixLen,
		PrefixWords:     w.k,
	}
}

// dedupe keeps the longer of any two time-overlapping candidates.
func dedupe(candidates []edit.Edit) []edit.Edit {
	sorted := append([]edit.Edit(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DeleteStart < sorted[j].DeleteStart
	})
	var out []edit.Edit
	for _, c := range sorted {
		hit := -1
		for i, kept := range out {
			if kept.Span().Overlaps(c.Span()) {
				hit = i
				break
			}
		}
		if hit < 0 {
			out = append(out, c)
			continue
		}
		if c.Duration() > out[hit].Duration() {
			out[hit] = c
		}
	}
	return out
}

func overlapsSentence(accepted []edit.Edit, c edit.Edit) bool {
	for _, e := range accepted {
		if e.SentenceIndex == c.SentenceIndex && e.Span().Overlaps(c.Span()) {
			return true
		}
	}
	return false
}
