package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains state and log directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Lexicon points at an optional overlay for the built-in word tables.
type Lexicon struct {
	Path string `toml:"path"`
}

// Detect contains the rule detector thresholds.
type Detect struct {
	SilenceThreshold       float64 `toml:"silence_threshold"`
	SilenceKeep            float64 `toml:"silence_keep"`
	MinSilenceDelete       float64 `toml:"min_silence_delete"`
	SilenceAttachSlack     float64 `toml:"silence_attach_slack"`
	RepeatReviewConfidence float64 `toml:"repeat_review_confidence"`
	SuffixReviewConfidence float64 `toml:"suffix_review_confidence"`
	MinSuffixChars         int     `toml:"min_suffix_chars"`
	RestartMinWords        int     `toml:"restart_min_words"`
	RestartCompareWords    int     `toml:"restart_compare_words"`
	RestartSimilarity      float64 `toml:"restart_similarity"`
	RestartDuplicateWindow float64 `toml:"restart_duplicate_window"`
}

// SelfCorrection contains the same-prefix expansion scanner settings.
type SelfCorrection struct {
	Enabled             bool `toml:"enabled"`
	MinActiveWords      int  `toml:"min_active_words"`
	MaxPrefixWords      int  `toml:"max_prefix_words"`
	MinPrefixWords      int  `toml:"min_prefix_words"`
	MinPrefixChars      int  `toml:"min_prefix_chars"`
	SearchWindow        int  `toml:"search_window"`
	HighConfidenceChars int  `toml:"high_confidence_chars"`
	ListOccurrences     int  `toml:"list_occurrences"`
}

// GapCleanup contains the post-merge silence trimming settings.
type GapCleanup struct {
	Enabled      bool    `toml:"enabled"`
	MinTrim      float64 `toml:"min_trim"`
	MatchEpsilon float64 `toml:"match_epsilon"`
}

// Segments contains deletion segment assembly settings.
type Segments struct {
	JoinGap          float64 `toml:"join_gap"`
	LeadInSnap       float64 `toml:"lead_in_snap"`
	SentenceGroupGap float64 `toml:"sentence_group_gap"`
	// IncludeNeedsReview cuts edits flagged for review as well.
	IncludeNeedsReview bool `toml:"include_needs_review"`
}

// Audit contains post-cut audit thresholds.
type Audit struct {
	IntentionalRatio   float64 `toml:"intentional_ratio"`
	IntentionalOverlap float64 `toml:"intentional_overlap"`
	CutGapMin          float64 `toml:"cut_gap_min"`
	CutGapMax          float64 `toml:"cut_gap_max"`
	CutContextWords    int     `toml:"cut_context_words"`
	CutContextWindow   float64 `toml:"cut_context_window"`
	LargeDeletion      float64 `toml:"large_deletion"`
	LargeContextWords  int     `toml:"large_context_words"`
	LargeContextWindow float64 `toml:"large_context_window"`
}

// Semantic contains re-transcription alignment settings.
type Semantic struct {
	MissingRunMin     int     `toml:"missing_run_min"`
	MissingRunGap     float64 `toml:"missing_run_gap"`
	HighSeverityChars int     `toml:"high_severity_chars"`
	StutterGap        float64 `toml:"stutter_gap"`
}

// Store contains the snapshot database settings.
type Store struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Config encapsulates all configuration values for podcut.
//
// Configuration sections by subsystem:
//   - Paths: state and log directories
//   - Logging: log format and level
//   - Lexicon: optional word-table overlay file
//   - Detect: silence, stutter and restart rule thresholds
//   - SelfCorrection: same-prefix expansion scanner
//   - GapCleanup: post-merge silence trimming
//   - Segments: deletion segment assembly
//   - Audit: post-cut audit checks
//   - Semantic: re-transcription alignment
//   - Store: versioned snapshot database
type Config struct {
	Paths          Paths          `toml:"paths"`
	Logging        Logging        `toml:"logging"`
	Lexicon        Lexicon        `toml:"lexicon"`
	Detect         Detect         `toml:"detect"`
	SelfCorrection SelfCorrection `toml:"self_correction"`
	GapCleanup     GapCleanup     `toml:"gap_cleanup"`
	Segments       Segments       `toml:"segments"`
	Audit          Audit          `toml:"audit"`
	Semantic       Semantic       `toml:"semantic"`
	Store          Store          `toml:"store"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("podcut.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}
