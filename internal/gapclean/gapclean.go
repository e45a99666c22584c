package gapclean

import (
	"fmt"
	"log/slog"
	"math"

	"podcut/internal/config"
	"podcut/internal/edit"
	"podcut/internal/interval"
	"podcut/internal/logging"
	"podcut/internal/transcript"
)

// RuleMergedGap labels edits produced by the cleaner.
const RuleMergedGap = "merged-gap"

// unionJoin merges deletion intervals that nearly touch.
const unionJoin = 0.01

// Options configures a Cleaner.
type Options struct {
	Threshold    float64
	Keep         float64
	MinTrim      float64
	MatchEpsilon float64
	// IncludeNeedsReview counts edits flagged for review as deleted. It must
	// agree with the segment builder.
	IncludeNeedsReview bool
	Logger             *slog.Logger
}

// OptionsFromConfig takes the threshold and retained pause from the silence
// rule so both passes agree.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	return Options{
		Threshold:          cfg.Detect.SilenceThreshold,
		Keep:               cfg.Detect.SilenceKeep,
		MinTrim:            cfg.GapCleanup.MinTrim,
		MatchEpsilon:       cfg.GapCleanup.MatchEpsilon,
		IncludeNeedsReview: cfg.Segments.IncludeNeedsReview,
		Logger:             logger,
	}
}

// Cleaner trims silences created by merging deletions.
type Cleaner struct {
	opts   Options
	logger *slog.Logger
}

// New constructs a Cleaner.
func New(opts Options) *Cleaner {
	return &Cleaner{opts: opts, logger: logging.NewComponentLogger(opts.Logger, "gap-cleanup")}
}

// Clean returns the silence_merged edits needed after edits and the
// whole-sentence deletions are applied. Existing edits are not modified.
func (c *Cleaner) Clean(tr *transcript.Transcript, sentences []transcript.Sentence, edits []edit.Edit, sentenceDeletes []interval.Interval) []edit.Edit {
	spans := append(edit.Spans(edit.Applied(edits, c.opts.IncludeNeedsReview)), sentenceDeletes...)
	union := interval.NewIndex(interval.Union(spans, unionJoin))

	var kept []transcript.Word
	for _, w := range tr.Speech() {
		if !union.Covers(w.Span(), transcript.CoverEpsilon) {
			kept = append(kept, w)
		}
	}

	var out []edit.Edit
	for i := 1; i < len(kept); i++ {
		prev, next := kept[i-1], kept[i]
		if next.Start <= prev.End {
			continue
		}
		window := interval.New(prev.End, next.Start)
		silence := window.Duration() - deletedWithin(union, window)
		if silence <= c.opts.Threshold {
			continue
		}
		trim := silence - c.opts.Keep
		if trim < c.opts.MinTrim {
			continue
		}
		cut := edit.RoundTime(cutPoint(union, window, c.opts.Keep))
		if c.matchesExisting(edits, prev.End, cut) {
			continue
		}
		sentence := -1
		if pos := transcript.Containing(sentences, (prev.Start+prev.End)/2, transcript.CoverEpsilon); pos >= 0 {
			sentence = sentences[pos].Index
		}
		out = append(out, edit.Edit{
			SentenceIndex: sentence,
			Type:          edit.CategorySilenceMerged,
			Rule:          RuleMergedGap,
			DeleteStart:   prev.End,
			DeleteEnd:     cut,
			Reason:        fmt.Sprintf("merged gap of %.2fs trimmed to %.1fs", silence, c.opts.Keep),
			Source:        edit.SourceGapCleanup,
			KeepDuration:  c.opts.Keep,
		})
	}
	c.logger.Info("gap cleanup complete",
		logging.Int("kept_words", len(kept)),
		logging.Int("trimmed_gaps", len(out)),
	)
	return out
}

func (c *Cleaner) matchesExisting(edits []edit.Edit, start, end float64) bool {
	for _, e := range edits {
		if math.Abs(e.DeleteStart-start) < c.opts.MatchEpsilon && math.Abs(e.DeleteEnd-end) < c.opts.MatchEpsilon {
			return true
		}
	}
	return false
}

// deletedWithin returns how much of window the union already removes.
func deletedWithin(union *interval.Index, window interval.Interval) float64 {
	return union.OverlapWith(window)
}

// cutPoint walks back from the end of window over the time not yet deleted
// and returns the point from which exactly keep seconds remain.
func cutPoint(union *interval.Index, window interval.Interval, keep float64) float64 {
	remaining := keep
	pos := window.End
	deleted := union.Overlapping(window)
	for i := len(deleted) - 1; i >= 0; i-- {
		iv := interval.New(max(deleted[i].Start, window.Start), min(deleted[i].End, window.End))
		free := pos - iv.End
		if free >= remaining {
			return pos - remaining
		}
		if free > 0 {
			remaining -= free
		}
		pos = min(pos, iv.Start)
	}
	return max(window.Start, pos-remaining)
}
