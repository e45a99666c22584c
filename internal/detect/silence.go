package detect

import (
	"fmt"

	"podcut/internal/edit"
	"podcut/internal/logging"
	"podcut/internal/transcript"
)

// silences trims every gap token longer than the threshold down to the
// retained pause. The pause kept is the tail of the gap, right before the
// next speech.
func (d *Detector) silences(tr *transcript.Transcript, sentences []transcript.Sentence, skip map[int]bool) []edit.Edit {
	var out []edit.Edit
	for _, gap := range tr.Gaps() {
		dur := gap.Duration()
		if dur <= d.opts.SilenceThreshold {
			continue
		}
		owner := d.attachGap(sentences, gap.Start)
		if owner < 0 {
			d.logger.Debug("silence not attributable",
				logging.Seconds("start", gap.Start),
				logging.Seconds("duration", dur),
			)
			continue
		}
		sentence := sentences[owner]
		if skip[sentence.Index] {
			continue
		}
		end := edit.RoundTime(gap.End - d.opts.SilenceKeep)
		if end-gap.Start < d.opts.MinSilenceDelete {
			continue
		}
		out = append(out, edit.Edit{
			SentenceIndex: sentence.Index,
			Type:          edit.CategorySilence,
			Rule:          RuleSilence,
			DeleteStart:   gap.Start,
			DeleteEnd:     end,
			Reason:        fmt.Sprintf("silence of %.1fs capped to %.1fs", dur, d.opts.SilenceKeep),
			Source:        edit.SourceRules,
			KeepDuration:  d.opts.SilenceKeep,
		})
	}
	return out
}

// attachGap returns the position of the last sentence whose span, widened by
// the attach slack and extended to the next sentence start, contains t.
func (d *Detector) attachGap(sentences []transcript.Sentence, t float64) int {
	owner := -1
	slack := d.opts.SilenceAttachSlack
	for i, s := range sentences {
		limit := s.End
		if i+1 < len(sentences) {
			limit = sentences[i+1].Start
		}
		if t >= s.Start-slack && t <= limit+slack {
			owner = i
		}
	}
	return owner
}
