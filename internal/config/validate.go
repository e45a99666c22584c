package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateDetect(); err != nil {
		return err
	}
	if err := c.validateSelfCorrection(); err != nil {
		return err
	}
	if err := c.validateGapCleanup(); err != nil {
		return err
	}
	if err := c.validateSegments(); err != nil {
		return err
	}
	if err := c.validateAudit(); err != nil {
		return err
	}
	if err := c.validateSemantic(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateDetect() error {
	d := c.Detect
	if d.SilenceThreshold <= 0 {
		return errors.New("detect.silence_threshold must be positive")
	}
	if d.SilenceKeep < 0 || d.SilenceKeep > d.SilenceThreshold {
		return errors.New("detect.silence_keep must be between 0 and detect.silence_threshold")
	}
	if d.MinSilenceDelete < 0 {
		return errors.New("detect.min_silence_delete must be >= 0")
	}
	if d.SilenceAttachSlack < 0 {
		return errors.New("detect.silence_attach_slack must be >= 0")
	}
	if err := ensureUnit("detect.repeat_review_confidence", d.RepeatReviewConfidence); err != nil {
		return err
	}
	if err := ensureUnit("detect.suffix_review_confidence", d.SuffixReviewConfidence); err != nil {
		return err
	}
	if err := ensureUnit("detect.restart_similarity", d.RestartSimilarity); err != nil {
		return err
	}
	if d.MinSuffixChars < 1 {
		return errors.New("detect.min_suffix_chars must be >= 1")
	}
	if d.RestartMinWords < 3 {
		return errors.New("detect.restart_min_words must be >= 3")
	}
	if d.RestartCompareWords < 1 {
		return errors.New("detect.restart_compare_words must be >= 1")
	}
	if d.RestartDuplicateWindow < 0 {
		return errors.New("detect.restart_duplicate_window must be >= 0")
	}
	return nil
}

func (c *Config) validateSelfCorrection() error {
	s := c.SelfCorrection
	if !s.Enabled {
		return nil
	}
	if s.MinPrefixWords < 1 {
		return errors.New("self_correction.min_prefix_words must be >= 1")
	}
	if s.MaxPrefixWords < s.MinPrefixWords {
		return errors.New("self_correction.max_prefix_words must be >= self_correction.min_prefix_words")
	}
	if s.MinPrefixChars < 1 {
		return errors.New("self_correction.min_prefix_chars must be >= 1")
	}
	if s.SearchWindow < 1 {
		return errors.New("self_correction.search_window must be >= 1")
	}
	if s.MinActiveWords < 2 {
		return errors.New("self_correction.min_active_words must be >= 2")
	}
	if s.ListOccurrences < 2 {
		return errors.New("self_correction.list_occurrences must be >= 2")
	}
	return nil
}

func (c *Config) validateGapCleanup() error {
	if c.GapCleanup.MinTrim < 0 {
		return errors.New("gap_cleanup.min_trim must be >= 0")
	}
	if c.GapCleanup.MatchEpsilon < 0 {
		return errors.New("gap_cleanup.match_epsilon must be >= 0")
	}
	return nil
}

func (c *Config) validateSegments() error {
	if c.Segments.JoinGap < 0 {
		return errors.New("segments.join_gap must be >= 0")
	}
	if c.Segments.LeadInSnap < 0 {
		return errors.New("segments.lead_in_snap must be >= 0")
	}
	if c.Segments.SentenceGroupGap < 0 {
		return errors.New("segments.sentence_group_gap must be >= 0")
	}
	return nil
}

func (c *Config) validateAudit() error {
	a := c.Audit
	if err := ensureUnit("audit.intentional_ratio", a.IntentionalRatio); err != nil {
		return err
	}
	if a.IntentionalOverlap < 0 {
		return errors.New("audit.intentional_overlap must be >= 0")
	}
	if a.CutGapMin < 0 || a.CutGapMax <= a.CutGapMin {
		return errors.New("audit.cut_gap_max must be greater than audit.cut_gap_min (>= 0)")
	}
	if a.LargeDeletion <= 0 {
		return errors.New("audit.large_deletion must be positive")
	}
	if a.CutContextWords < 0 || a.LargeContextWords < 0 {
		return errors.New("audit context word counts must be >= 0")
	}
	if a.CutContextWindow < 0 || a.LargeContextWindow < 0 {
		return errors.New("audit context windows must be >= 0")
	}
	return nil
}

func (c *Config) validateSemantic() error {
	s := c.Semantic
	if s.MissingRunMin < 1 {
		return errors.New("semantic.missing_run_min must be >= 1")
	}
	if s.MissingRunGap < 0 {
		return errors.New("semantic.missing_run_gap must be >= 0")
	}
	if s.HighSeverityChars < 0 {
		return errors.New("semantic.high_severity_chars must be >= 0")
	}
	if s.StutterGap < 0 {
		return errors.New("semantic.stutter_gap must be >= 0")
	}
	return nil
}

func ensureUnit(key string, value float64) error {
	if value < 0 || value > 1 {
		return fmt.Errorf("%s must be between 0 and 1", key)
	}
	return nil
}
