package segments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"podcut/internal/config"
	"podcut/internal/edit"
	"podcut/internal/fileutil"
	"podcut/internal/interval"
	"podcut/internal/transcript"
)

// Options configures segment assembly.
type Options struct {
	JoinGap            float64
	LeadInSnap         float64
	SentenceGroupGap   float64
	IncludeNeedsReview bool
}

// OptionsFromConfig maps the segments config section onto Options.
func OptionsFromConfig(cfg config.Segments) Options {
	return Options{
		JoinGap:            cfg.JoinGap,
		LeadInSnap:         cfg.LeadInSnap,
		SentenceGroupGap:   cfg.SentenceGroupGap,
		IncludeNeedsReview: cfg.IncludeNeedsReview,
	}
}

// SentenceDeletions converts whole-sentence deletions into intervals. Runs of
// consecutive sentence indices become one interval covering the pauses
// between them; resulting intervals closer than groupGap are fused. Unknown
// indices are ignored.
func SentenceDeletions(indices []int, sentences []transcript.Sentence, groupGap float64) []interval.Interval {
	sorted := append([]int(nil), indices...)
	sort.Ints(sorted)
	positions := transcript.ByIndex(sentences)

	var groups []interval.Interval
	for i := 0; i < len(sorted); {
		j := i
		for j+1 < len(sorted) && sorted[j+1] <= sorted[j]+1 {
			j++
		}
		first, okFirst := positions[sorted[i]]
		last, okLast := positions[sorted[j]]
		if okFirst && okLast {
			groups = append(groups, interval.New(sentences[first].Start, sentences[last].End))
		} else {
			for _, idx := range sorted[i : j+1] {
				if pos, ok := positions[idx]; ok {
					groups = append(groups, sentences[pos].Span())
				}
			}
		}
		i = j + 1
	}
	return interval.UnionFunc(groups, func(prev, next interval.Interval) bool {
		return next.Start-prev.End < groupGap
	})
}

// Build returns the deletion segments for edits and sentence deletions.
// Edits flagged for review are skipped unless opts.IncludeNeedsReview is
// set. The first segment snaps to 0 only when no speech precedes it.
func Build(edits []edit.Edit, sentenceDeletes []interval.Interval, tr *transcript.Transcript, opts Options) []interval.Interval {
	spans := append(edit.Spans(edit.Applied(edits, opts.IncludeNeedsReview)), sentenceDeletes...)
	base := interval.Union(spans, 0)
	speech := tr.Speech()

	segs := interval.UnionFunc(base, func(prev, next interval.Interval) bool {
		return next.Start-prev.End <= opts.JoinGap && !speechBetween(speech, prev.End, next.Start)
	})
	if len(segs) > 0 && segs[0].Start > 0 && segs[0].Start < opts.LeadInSnap && !speechBetween(speech, 0, segs[0].Start) {
		segs[0].Start = 0
	}
	return segs
}

// speechBetween reports whether a speech word lies inside (start, end).
func speechBetween(speech []transcript.Word, start, end float64) bool {
	i := sort.Search(len(speech), func(i int) bool {
		return speech[i].End > start+transcript.CoverEpsilon
	})
	for ; i < len(speech) && speech[i].Start < end-transcript.CoverEpsilon; i++ {
		if speech[i].Duration() > 0 {
			return true
		}
	}
	return false
}

// Decode parses segments given as a bare list or an object holding a
// "segments" or "delete_segments" list.
func Decode(data []byte) ([]interval.Interval, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty segment file")
	}
	var segs []interval.Interval
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &segs); err != nil {
			return nil, fmt.Errorf("decode segments: %w", err)
		}
	} else {
		var wrapped struct {
			Segments       []interval.Interval `json:"segments"`
			DeleteSegments []interval.Interval `json:"delete_segments"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("decode segments: %w", err)
		}
		segs = wrapped.Segments
		if segs == nil {
			segs = wrapped.DeleteSegments
		}
	}
	for i, s := range segs {
		if s.End < s.Start {
			return nil, fmt.Errorf("segment %d: end %.3f before start %.3f", i, s.End, s.Start)
		}
	}
	return segs, nil
}

// Load reads a segment file.
func Load(path string) ([]interval.Interval, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	segs, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return segs, nil
}

// Save writes segments as a bare list and returns the encoded bytes.
func Save(path string, segs []interval.Interval) ([]byte, error) {
	if segs == nil {
		segs = []interval.Interval{}
	}
	return fileutil.WriteJSON(path, segs)
}

// Stats summarizes a segment list.
type Stats struct {
	Segments      int     `json:"segments"`
	DeletedTime   float64 `json:"deletedSeconds"`
	DeletedClock  string  `json:"deleted"`
	LongestLength float64 `json:"longestSeconds"`
}

// Summarize computes Stats for segs.
func Summarize(segs []interval.Interval) Stats {
	st := Stats{Segments: len(segs)}
	for _, s := range segs {
		st.DeletedTime += s.Duration()
		st.LongestLength = max(st.LongestLength, s.Duration())
	}
	st.DeletedTime = edit.RoundTime(st.DeletedTime)
	st.DeletedClock = edit.FormatClock(st.DeletedTime)
	return st
}
