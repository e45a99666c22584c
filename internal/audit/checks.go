package audit

import (
	"fmt"
	"math"
	"strings"

	"podcut/internal/edit"
	"podcut/internal/interval"
	"podcut/internal/logging"
	"podcut/internal/transcript"
)

const (
	sentenceTextRunes = 60
	missedTextRunes   = 40
)

// auditor holds the per-run state shared by the checks.
type auditor struct {
	*Engine
	in        Input
	segments  []interval.Interval
	speech    []transcript.Word
	sentences map[int]transcript.Sentence
	editSpans []interval.Interval
}

func newAuditor(e *Engine, in Input) *auditor {
	segs := append([]interval.Interval(nil), in.Segments...)
	interval.Sort(segs)
	byIndex := make(map[int]transcript.Sentence, len(in.Sentences))
	for _, s := range in.Sentences {
		byIndex[s.Index] = s
	}
	var speech []transcript.Word
	if in.Transcript != nil {
		speech = in.Transcript.Speech()
	}
	return &auditor{
		Engine:    e,
		in:        in,
		segments:  segs,
		speech:    speech,
		sentences: byIndex,
		editSpans: edit.Spans(in.Edits),
	}
}

// overlapping returns the segments sharing time with [start, end]. Zero-length
// words still count as overlapped when they fall strictly inside a segment.
func (a *auditor) overlapping(start, end float64) []interval.Interval {
	var out []interval.Interval
	for _, seg := range a.segments {
		if seg.Start >= end {
			break
		}
		if seg.End > start {
			out = append(out, seg)
		}
	}
	return out
}

// intentional reports whether seg is explained by a recorded edit. Edits of
// any sentence count so disfluencies spanning a sentence boundary are not
// reported.
func (a *auditor) intentional(seg interval.Interval) bool {
	segDur := seg.Duration()
	for _, span := range a.editSpans {
		ov := seg.Overlap(span)
		if ov <= 0 {
			continue
		}
		if (segDur > 0 && ov/segDur > a.opts.IntentionalRatio) || ov > a.opts.IntentionalOverlap {
			return true
		}
	}
	return false
}

func (a *auditor) restoredSentences() Section {
	sec := Section{Issues: []Issue{}}
	restored := a.in.Feedback.Restored()
	sec.Checked = len(restored)

	for _, idx := range restored {
		s, ok := a.sentences[idx]
		if !ok {
			a.logger.Debug("restored sentence not in index", logging.Int(logging.FieldSentence, idx))
			continue
		}
		var order []interval.Interval
		covered := make(map[interval.Interval][]string)
		for _, w := range s.Words {
			for _, seg := range a.overlapping(w.Start, w.End) {
				if _, seen := covered[seg]; !seen {
					order = append(order, seg)
				}
				covered[seg] = append(covered[seg], w.Text)
			}
		}
		for _, seg := range order {
			if a.intentional(seg) {
				continue
			}
			words := covered[seg]
			span := seg
			sec.Issues = append(sec.Issues, Issue{
				Type:          TypeRestoredWordCovered,
				Severity:      SeverityHigh,
				Time:          seg.Start,
				SentenceIndex: intPtr(idx),
				Range:         &span,
				Duration:      round(seg.Duration()),
				Text:          strings.Join(words, ""),
				WordCount:     len(words),
				SentenceText:  truncate(s.Text, sentenceTextRunes),
				Note:          "segment is not explained by any recorded edit",
			})
		}
	}
	sec.Summary = fmt.Sprintf("%d restored sentence(s), %d issue(s)", len(restored), len(sec.Issues))
	return sec
}

func (a *auditor) manualDeletions() Section {
	sec := Section{Issues: []Issue{}}
	if a.in.Feedback == nil {
		sec.Summary = "no feedback"
		return sec
	}

	added := a.in.Feedback.AddedDeletions()
	for _, idx := range added {
		s, ok := a.sentences[idx]
		if !ok {
			continue
		}
		sec.Checked++
		if len(a.overlapping(s.Start, s.End)) > 0 {
			continue
		}
		span := s.Span()
		sec.Issues = append(sec.Issues, Issue{
			Type:          TypeManualNotDeleted,
			Severity:      SeverityHigh,
			Time:          s.Start,
			SentenceIndex: intPtr(idx),
			Range:         &span,
			SentenceText:  truncate(s.Text, sentenceTextRunes),
		})
	}

	for _, mc := range a.in.Feedback.TimedMisses() {
		sec.Checked++
		start, end := mc.Bounds()
		if len(a.overlapping(start, end)) > 0 {
			continue
		}
		span := interval.New(start, end)
		sec.Issues = append(sec.Issues, Issue{
			Type:          TypeMissedNotCovered,
			Severity:      SeverityMedium,
			Time:          span.Start,
			SentenceIndex: intPtr(mc.SentenceIndex),
			Range:         &span,
			Text:          truncate(mc.SelectedText, missedTextRunes),
			Category:      mc.Label(),
		})
	}
	sec.Summary = fmt.Sprintf("%d deletion(s) checked, %d issue(s)", sec.Checked, len(sec.Issues))
	return sec
}

func (a *auditor) cutPointSilences() Section {
	sec := Section{Issues: []Issue{}}
	for i := 0; i+1 < len(a.segments); i++ {
		gapStart, gapEnd := a.segments[i].End, a.segments[i+1].Start
		gap := gapEnd - gapStart
		sec.Checked++
		if gap <= a.opts.CutGapMin || gap > a.opts.CutGapMax {
			continue
		}
		if a.hasSpeech(gapStart, gapEnd) {
			continue
		}
		fix := interval.New(gapStart, gapEnd)
		sec.Issues = append(sec.Issues, Issue{
			Type:       TypeSilenceGap,
			Severity:   SeverityMedium,
			Time:       gapStart,
			Range:      &fix,
			Duration:   round(gap),
			BeforeText: a.textBefore(gapStart, a.opts.CutContextWords, a.opts.CutContextWindow),
			AfterText:  a.textAfter(gapEnd, a.opts.CutContextWords, a.opts.CutContextWindow),
			Fix:        &fix,
			Note:       fmt.Sprintf("extend deletion over [%.2f-%.2f] to remove the pause", gapStart, gapEnd),
		})
	}
	sec.Summary = fmt.Sprintf("%d cut point(s) checked, %d silence gap(s)", sec.Checked, len(sec.Issues))
	return sec
}

func (a *auditor) largeDeletions() Section {
	sec := Section{Issues: []Issue{}}
	for _, seg := range a.segments {
		sec.Checked++
		if seg.Duration() < a.opts.LargeDeletion {
			continue
		}
		span := seg
		sec.Issues = append(sec.Issues, Issue{
			Type:        TypeLargeDeletion,
			Severity:    SeverityLow,
			Time:        seg.Start,
			Range:       &span,
			Duration:    round(seg.Duration()),
			BeforeText:  a.textBefore(seg.Start, a.opts.LargeContextWords, a.opts.LargeContextWindow),
			AfterText:   a.textAfter(seg.End, a.opts.LargeContextWords, a.opts.LargeContextWindow),
			NeedsReview: true,
		})
	}
	sec.Summary = fmt.Sprintf("%d large deletion(s) need a continuity check", len(sec.Issues))
	return sec
}

// hasSpeech reports whether a word with non-punctuation text lies inside
// [start, end].
func (a *auditor) hasSpeech(start, end float64) bool {
	for _, w := range a.speech {
		if w.Start >= start && w.End <= end && a.lex.Clean(w.Text) != "" {
			return true
		}
	}
	return false
}

// textBefore joins the last n words ending within window seconds before t.
func (a *auditor) textBefore(t float64, n int, window float64) string {
	var texts []string
	for _, w := range a.speech {
		if w.End <= t && w.End > t-window {
			texts = append(texts, w.Text)
		}
	}
	if len(texts) > n {
		texts = texts[len(texts)-n:]
	}
	return strings.Join(texts, "")
}

// textAfter joins the first n words starting within window seconds after t.
func (a *auditor) textAfter(t float64, n int, window float64) string {
	var texts []string
	for _, w := range a.speech {
		if w.Start >= t && w.Start < t+window {
			texts = append(texts, w.Text)
			if len(texts) == n {
				break
			}
		}
	}
	return strings.Join(texts, "")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func intPtr(v int) *int {
	return &v
}
