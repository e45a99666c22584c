package testsupport

import (
	"path/filepath"
	"testing"

	"podcut/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Store.Path = filepath.Join(base, "state", "podcut.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithoutStore disables the snapshot store on the test config.
func WithoutStore() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Store.Enabled = false
	}
}

// WithLexicon points the test config at a lexicon overlay file.
func WithLexicon(path string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Lexicon.Path = path
	}
}

// WithSelfCorrection toggles the self-correction scanner.
func WithSelfCorrection(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.SelfCorrection.Enabled = enabled
	}
}
