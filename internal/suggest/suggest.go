package suggest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"podcut/internal/edit"
	"podcut/internal/logging"
	"podcut/internal/spanmap"
	"podcut/internal/transcript"
)

// Item is one external suggestion.
type Item struct {
	SentenceIndex int    `json:"s"`
	Text          string `json:"text"`
	Type          string `json:"type,omitempty"`
	Reason        string `json:"reason,omitempty"`
	KeepText      string `json:"keepText,omitempty"`
}

// UnmarshalJSON accepts sentenceIdx as an alias for s.
func (it *Item) UnmarshalJSON(data []byte) error {
	var wire struct {
		S           *int   `json:"s"`
		SentenceIdx *int   `json:"sentenceIdx"`
		Text        string `json:"text"`
		Type        string `json:"type"`
		Reason      string `json:"reason"`
		KeepText    string `json:"keepText"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch {
	case wire.S != nil:
		it.SentenceIndex = *wire.S
	case wire.SentenceIdx != nil:
		it.SentenceIndex = *wire.SentenceIdx
	default:
		return errors.New("suggestion has no sentence index")
	}
	it.Text = wire.Text
	it.Type = wire.Type
	it.Reason = wire.Reason
	it.KeepText = wire.KeepText
	return nil
}

// Decode parses suggestions given as a bare list or as an object with an
// "edits" list.
func Decode(data []byte) ([]Item, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	var items []Item
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode suggestions: %w", err)
		}
		return items, nil
	}
	var wrapped struct {
		Edits []Item `json:"edits"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}
	return wrapped.Edits, nil
}

// Load reads a suggestion file.
func Load(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	items, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return items, nil
}

// Failure records a suggestion that could not be resolved.
type Failure struct {
	Item   Item   `json:"item"`
	Reason string `json:"reason"`
}

// Outcome is the result of resolving a batch of suggestions.
type Outcome struct {
	Edits    []edit.Edit
	Failures []Failure
}

// Resolve maps every item onto the sentences. Failures are logged at WARN and
// collected; they never abort the batch.
func Resolve(items []Item, sentences []transcript.Sentence, mapper *spanmap.Mapper, logger *slog.Logger) Outcome {
	logger = logging.NewComponentLogger(logger, "suggestions")
	positions := transcript.ByIndex(sentences)

	var out Outcome
	for _, item := range items {
		pos, ok := positions[item.SentenceIndex]
		if !ok {
			out.fail(logger, item, fmt.Sprintf("sentence %d not found", item.SentenceIndex))
			continue
		}
		s := sentences[pos]
		e, err := mapper.Resolve(s, spanmap.Suggestion{
			SentenceIndex: item.SentenceIndex,
			Text:          item.Text,
			Type:          item.Type,
			Reason:        item.Reason,
			KeepText:      item.KeepText,
		})
		if err != nil {
			out.fail(logger, item, err.Error())
			continue
		}
		out.Edits = append(out.Edits, e)
	}
	logger.Info("suggestions resolved",
		logging.Int("items", len(items)),
		logging.Int("mapped", len(out.Edits)),
		logging.Int("failed", len(out.Failures)),
	)
	return out
}

func (o *Outcome) fail(logger *slog.Logger, item Item, reason string) {
	o.Failures = append(o.Failures, Failure{Item: item, Reason: reason})
	logging.WarnWithContext(logger, "suggestion not mapped", "suggestion_unmapped",
		logging.Int(logging.FieldSentence, item.SentenceIndex),
		logging.String("text", item.Text),
		logging.String("reason", reason),
		logging.String(logging.FieldImpact, "suggestion dropped"),
	)
}
