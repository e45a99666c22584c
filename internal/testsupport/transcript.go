package testsupport

import (
	"math"
	"testing"

	"podcut/internal/transcript"
)

// DefaultWordDuration is the token length used by Say.
const DefaultWordDuration = 0.25

// TranscriptBuilder assembles a word stream on a running clock together with
// explicit sentence boundaries.
type TranscriptBuilder struct {
	words     []transcript.Word
	clock     float64
	speaker   string
	speech    int
	start     int
	sentences []transcript.Sentence
}

// NewTranscript starts an empty transcript at time zero.
func NewTranscript() *TranscriptBuilder {
	return &TranscriptBuilder{}
}

// Speaker inserts a speaker-change marker.
func (b *TranscriptBuilder) Speaker(name string) *TranscriptBuilder {
	b.words = append(b.words, transcript.Word{
		Text:           "[" + name + "]",
		Start:          b.clock,
		End:            b.clock,
		IsSpeakerLabel: true,
		Speaker:        name,
	})
	b.speaker = name
	return b
}

// Word appends one speech token lasting dur seconds.
func (b *TranscriptBuilder) Word(text string, dur float64) *TranscriptBuilder {
	end := round(b.clock + dur)
	b.words = append(b.words, transcript.Word{Text: text, Start: b.clock, End: end, Speaker: b.speaker})
	b.clock = end
	b.speech++
	return b
}

// Say appends tokens of DefaultWordDuration each.
func (b *TranscriptBuilder) Say(texts ...string) *TranscriptBuilder {
	for _, text := range texts {
		b.Word(text, DefaultWordDuration)
	}
	return b
}

// Gap appends a silence token lasting dur seconds.
func (b *TranscriptBuilder) Gap(dur float64) *TranscriptBuilder {
	end := round(b.clock + dur)
	b.words = append(b.words, transcript.Word{Start: b.clock, End: end, IsGap: true})
	b.clock = end
	return b
}

// Pause advances the clock without emitting a token.
func (b *TranscriptBuilder) Pause(dur float64) *TranscriptBuilder {
	b.clock = round(b.clock + dur)
	return b
}

// End closes the current sentence. Empty sentences are ignored.
func (b *TranscriptBuilder) End() *TranscriptBuilder {
	if b.speech == b.start {
		return b
	}
	b.sentences = append(b.sentences, transcript.Sentence{
		Index:     len(b.sentences),
		WordStart: b.start,
		WordEnd:   b.speech - 1,
		Speaker:   b.speaker,
	})
	b.start = b.speech
	return b
}

// Clock returns the current time.
func (b *TranscriptBuilder) Clock() float64 {
	return b.clock
}

// Words returns a copy of the word stream.
func (b *TranscriptBuilder) Words() []transcript.Word {
	return append([]transcript.Word(nil), b.words...)
}

// Build closes any open sentence and returns the transcript with its attached
// sentences.
func (b *TranscriptBuilder) Build(t testing.TB) (*transcript.Transcript, []transcript.Sentence) {
	t.Helper()

	b.End()
	tr := transcript.New(b.Words())
	sentences, err := transcript.Attach(tr, b.sentences)
	if err != nil {
		t.Fatalf("attach sentences: %v", err)
	}
	return tr, sentences
}

func round(v float64) float64 {
	return math.Round(v*1000) / 1000
}
