package detect

import (
	"fmt"
	"strings"

	"podcut/internal/edit"
	"podcut/internal/logging"
	"podcut/internal/textutil"
	"podcut/internal/transcript"
)

func (d *Detector) cleanTexts(active []transcript.ActiveWord) []string {
	out := make([]string, len(active))
	for i, w := range active {
		out[i] = d.lex.Clean(w.Text)
	}
	return out
}

// exactStutters flags runs of identical consecutive tokens and deletes all but
// the last occurrence.
func (d *Detector) exactStutters(s transcript.Sentence, l *ledger) []edit.Edit {
	active := transcript.ActiveWords(s, l.coverage(s.Index))
	texts := d.cleanTexts(active)

	var out []edit.Edit
	for i := 0; i < len(active)-1; i++ {
		curr := texts[i]
		if curr == "" || curr != texts[i+1] {
			continue
		}
		end := i + 1
		for end+1 < len(active) && texts[end+1] == curr {
			end++
		}
		count := end - i + 1

		if reason := d.stutterExemption(texts, i, count); reason != "" {
			d.logger.Debug("stutter exempt",
				logging.Args(append(logging.DecisionAttrs("stutter_exemption", "skip", reason),
					logging.Int(logging.FieldSentence, s.Index),
					logging.String("text", curr),
				)...)...,
			)
			i = end
			continue
		}

		first, last := active[i], active[end-1]
		e := edit.Edit{
			SentenceIndex: s.Index,
			Type:          edit.CategoryStutter,
			Rule:          RuleStutterExact,
			WordRange:     edit.Words(first.Global, last.Global),
			DeleteText:    strings.Repeat(curr, end-i),
			KeepText:      curr,
			DeleteStart:   first.Start,
			DeleteEnd:     last.End,
			Reason:        fmt.Sprintf("%q repeated %d times, keep the last", curr, count),
			Source:        edit.SourceRules,
		}
		if hint := d.reviewHint(curr, count); hint != "" {
			e.NeedsReview = true
			e.ReviewHint = hint
			e.Confidence = d.opts.RepeatReviewConfidence
		}
		out = append(out, e)
		i = end
	}
	return out
}

// stutterExemption returns a non-empty reason when the run starting at i is
// natural speech rather than a stutter.
func (d *Detector) stutterExemption(texts []string, i, count int) string {
	curr := texts[i]
	switch {
	case d.lex.IsReduplication(curr+curr) || d.lex.IsReduplication(curr):
		return "reduplication"
	case d.lex.IsNumeral(curr):
		return "numeral"
	case count == 2 && textutil.RuneLen(curr) == 1 && i > 0 && texts[i-1] != curr:
		return "abb_compound"
	}
	return ""
}

func (d *Detector) reviewHint(curr string, count int) string {
	if count != 2 {
		return ""
	}
	switch {
	case textutil.RuneLen(curr) == 1 && d.lex.IsReviewWord(curr):
		return fmt.Sprintf("high-frequency word %q doubled; may be natural emphasis", curr)
	case d.lex.IsReviewPhrase(curr):
		return fmt.Sprintf("common phrase %q doubled; usually a stall but may be deliberate", curr)
	}
	return ""
}

// suffixStutters catches a token whose text repeats the tail of the token
// before it, which happens when the tokenizer splits a stutter across a word
// boundary.
func (d *Detector) suffixStutters(s transcript.Sentence, l *ledger) []edit.Edit {
	active := transcript.ActiveWords(s, l.coverage(s.Index))
	texts := d.cleanTexts(active)

	var out []edit.Edit
	for i := 0; i+1 < len(active); i++ {
		w1, w2 := texts[i], texts[i+1]
		if w1 == "" || w2 == "" || w1 == w2 {
			continue
		}
		if textutil.RuneLen(w1) <= textutil.RuneLen(w2) || textutil.RuneLen(w2) < d.opts.MinSuffixChars {
			continue
		}
		if textutil.IsLatinWord(w1) || textutil.IsLatinWord(w2) {
			continue
		}
		if !strings.HasSuffix(w1, w2) {
			continue
		}
		target := active[i+1]
		if l.overlaps(s.Index, target.Span()) {
			continue
		}
		out = append(out, edit.Edit{
			SentenceIndex: s.Index,
			Type:          edit.CategoryStutter,
			Rule:          RuleStutterSuffix,
			WordRange:     edit.Words(target.Global, target.Global),
			DeleteText:    w2,
			KeepText:      w2,
			DeleteStart:   target.Start,
			DeleteEnd:     target.End,
			Reason:        fmt.Sprintf("%q already ends with %q", w1, w2),
			Source:        edit.SourceRules,
			NeedsReview:   true,
			ReviewHint:    fmt.Sprintf("tokenizer boundary: %q repeats the tail of %q", w2, w1),
			Confidence:    d.opts.SuffixReviewConfidence,
		})
	}
	return out
}
