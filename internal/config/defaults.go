package config

const (
	defaultConfigPath = "~/.config/podcut/config.toml"
	defaultStateDir   = "~/.local/share/podcut"
	defaultLogDir     = "~/.local/share/podcut/logs"
	defaultStoreFile  = "podcut.db"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Detect: Detect{
			SilenceThreshold:       0.8,
			SilenceKeep:            0.8,
			MinSilenceDelete:       0.1,
			SilenceAttachSlack:     0.5,
			RepeatReviewConfidence: 0.7,
			SuffixReviewConfidence: 0.8,
			MinSuffixChars:         2,
			RestartMinWords:        4,
			RestartCompareWords:    5,
			RestartSimilarity:      0.6,
			RestartDuplicateWindow: 0.1,
		},
		SelfCorrection: SelfCorrection{
			Enabled:             true,
			MinActiveWords:      4,
			MaxPrefixWords:      5,
			MinPrefixWords:      2,
			MinPrefixChars:      3,
			SearchWindow:        8,
			HighConfidenceChars: 4,
			ListOccurrences:     3,
		},
		GapCleanup: GapCleanup{
			Enabled:      true,
			MinTrim:      0.05,
			MatchEpsilon: 0.05,
		},
		Segments: Segments{
			JoinGap:          0.3,
			LeadInSnap:       5.0,
			SentenceGroupGap: 1.0,
		},
		Audit: Audit{
			IntentionalRatio:   0.5,
			IntentionalOverlap: 0.3,
			CutGapMin:          0.3,
			CutGapMax:          3.0,
			CutContextWords:    3,
			CutContextWindow:   2.0,
			LargeDeletion:      5.0,
			LargeContextWords:  8,
			LargeContextWindow: 5.0,
		},
		Semantic: Semantic{
			MissingRunMin:     3,
			MissingRunGap:     1.0,
			HighSeverityChars: 10,
			StutterGap:        0.5,
		},
		Store: Store{
			Enabled: true,
		},
	}
}
