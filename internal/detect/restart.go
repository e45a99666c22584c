package detect

import (
	"fmt"
	"strings"

	"podcut/internal/edit"
	"podcut/internal/textutil"
	"podcut/internal/transcript"
)

// restart finds a spoken restart cue whose surrounding text repeats, and
// deletes the false start together with the cue. At most one restart is
// reported per sentence.
func (d *Detector) restart(s transcript.Sentence, l *ledger) []edit.Edit {
	active := transcript.ActiveWords(s, l.coverage(s.Index))
	n := len(active)
	if n < d.opts.RestartMinWords {
		return nil
	}
	texts := d.cleanTexts(active)

	for m := 1; m < n-1; m++ {
		cueLen := 0
		switch {
		case m+1 < n-1 && d.lex.IsRestartCue(texts[m]+texts[m+1]):
			cueLen = 2
		case d.lex.IsRestartCue(texts[m]):
			cueLen = 1
		default:
			continue
		}
		after := m + cueLen
		if after >= n {
			continue
		}
		compare := min(m, n-after, d.opts.RestartCompareWords)
		if compare < 1 {
			continue
		}
		before := strings.Join(texts[m-compare:m], "")
		following := strings.Join(texts[after:after+compare], "")
		similarity := textutil.CharOverlap(before, following)
		if similarity < d.opts.RestartSimilarity {
			continue
		}
		if l.startsNear(s.Index, active[0].Start, d.opts.RestartDuplicateWindow) {
			continue
		}

		cue := joinRaw(active[m:after])
		return []edit.Edit{{
			SentenceIndex: s.Index,
			Type:          edit.CategorySelfCorrection,
			Rule:          RuleRestartCue,
			WordRange:     edit.Words(active[0].Global, active[after-1].Global),
			DeleteText:    joinRaw(active[:after]),
			KeepText:      joinRaw(active[after:]),
			DeleteStart:   active[0].Start,
			DeleteEnd:     active[after-1].End,
			Reason:        fmt.Sprintf("restart cue %q with %.0f%% similar text around it", cue, similarity*100),
			Source:        edit.SourceRules,
		}}
	}
	return nil
}

func joinRaw(words []transcript.ActiveWord) string {
	var b strings.Builder
	for _, w := range words {
		b.WriteString(w.Text)
	}
	return b.String()
}
