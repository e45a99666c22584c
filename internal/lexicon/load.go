package lexicon

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Overlay is the on-disk form of a lexicon customisation. Non-empty lists and
// strings replace the defaults unless Extend is set, in which case they are
// appended.
type Overlay struct {
	Extend bool `yaml:"extend" toml:"extend"`
	Tables `yaml:",inline"`
}

// Load returns the default lexicon with the overlay at path applied. An empty
// path yields Default().
func Load(path string) (*Lexicon, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon %s: %w", path, err)
	}
	overlay, err := decodeOverlay(filepath.Ext(path), data)
	if err != nil {
		return nil, fmt.Errorf("parse lexicon %s: %w", path, err)
	}
	return New(overlay.Apply(DefaultTables())), nil
}

func decodeOverlay(ext string, data []byte) (Overlay, error) {
	var overlay Overlay
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&overlay); err != nil && !errors.Is(err, io.EOF) {
			return Overlay{}, err
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&overlay); err != nil {
			return Overlay{}, err
		}
	default:
		return Overlay{}, fmt.Errorf("unsupported lexicon format %q", ext)
	}
	return overlay, nil
}

// Apply merges the overlay into base and returns the result.
func (o Overlay) Apply(base Tables) Tables {
	out := base.clone()
	out.Reduplications = o.mergeList(out.Reduplications, o.Reduplications)
	out.ReviewWords = o.mergeList(out.ReviewWords, o.ReviewWords)
	out.ReviewPhrases = o.mergeList(out.ReviewPhrases, o.ReviewPhrases)
	out.RestartCues = o.mergeList(out.RestartCues, o.RestartCues)
	out.Hesitations = o.mergeList(out.Hesitations, o.Hesitations)
	out.ResidualFillers = o.mergeList(out.ResidualFillers, o.ResidualFillers)
	out.WholeSentenceTypes = o.mergeList(out.WholeSentenceTypes, o.WholeSentenceTypes)
	out.NumeralChars = o.mergeChars(out.NumeralChars, o.NumeralChars)
	out.Punctuation = o.mergeChars(out.Punctuation, o.Punctuation)
	out.SentenceTerminals = o.mergeChars(out.SentenceTerminals, o.SentenceTerminals)
	return out
}

func (o Overlay) mergeList(base, extra []string) []string {
	if len(extra) == 0 {
		return base
	}
	if !o.Extend {
		return append([]string(nil), extra...)
	}
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, v := range append(append([]string(nil), base...), extra...) {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (o Overlay) mergeChars(base, extra string) string {
	if extra == "" {
		return base
	}
	if !o.Extend {
		return extra
	}
	var b strings.Builder
	b.WriteString(base)
	for _, r := range extra {
		if !strings.ContainsRune(base, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
