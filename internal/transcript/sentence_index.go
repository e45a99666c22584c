package transcript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseSentenceIndex reads the line-oriented sentence index format
// "index|wordStart-wordEnd|speaker|text". Blank lines are ignored.
func ParseSentenceIndex(r io.Reader) ([]Sentence, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var sentences []Sentence
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		s, err := parseSentenceLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		sentences = append(sentences, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read sentence index: %w", err)
	}
	return sentences, nil
}

func parseSentenceLine(line string) (Sentence, error) {
	parts := strings.SplitN(line, "|", 4)
	if len(parts) < 4 {
		return Sentence{}, fmt.Errorf("expected 4 fields, got %d", len(parts))
	}
	idx, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Sentence{}, fmt.Errorf("sentence index %q: %w", parts[0], err)
	}
	bounds := strings.SplitN(strings.TrimSpace(parts[1]), "-", 2)
	if len(bounds) != 2 {
		return Sentence{}, fmt.Errorf("word range %q: expected start-end", parts[1])
	}
	start, err := strconv.Atoi(bounds[0])
	if err != nil {
		return Sentence{}, fmt.Errorf("word range start %q: %w", bounds[0], err)
	}
	end, err := strconv.Atoi(bounds[1])
	if err != nil {
		return Sentence{}, fmt.Errorf("word range end %q: %w", bounds[1], err)
	}
	speaker := strings.TrimSpace(parts[2])
	if speaker == "null" {
		speaker = ""
	}
	return Sentence{Index: idx, WordStart: start, WordEnd: end, Speaker: speaker, Text: parts[3]}, nil
}

// LoadSentenceIndex reads a sentence index file.
func LoadSentenceIndex(path string) ([]Sentence, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseSentenceIndex(f)
}

// WriteSentenceIndex writes sentences in the line-oriented index format.
func WriteSentenceIndex(w io.Writer, sentences []Sentence) error {
	bw := bufio.NewWriter(w)
	for i, s := range sentences {
		if i > 0 {
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(bw, "%d|%d-%d|%s|%s", s.Index, s.WordStart, s.WordEnd, s.Speaker, s.Text); err != nil {
			return err
		}
	}
	return bw.Flush()
}
