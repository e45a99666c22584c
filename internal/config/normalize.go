package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeLexicon(); err != nil {
		return err
	}
	if err := c.normalizeStore(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLexicon() error {
	c.Lexicon.Path = strings.TrimSpace(c.Lexicon.Path)
	if c.Lexicon.Path == "" {
		if value, ok := os.LookupEnv("PODCUT_LEXICON"); ok {
			c.Lexicon.Path = strings.TrimSpace(value)
		}
	}
	var err error
	if c.Lexicon.Path, err = expandPath(c.Lexicon.Path); err != nil {
		return fmt.Errorf("lexicon.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeStore() error {
	c.Store.Path = strings.TrimSpace(c.Store.Path)
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(c.Paths.StateDir, defaultStoreFile)
	}
	var err error
	if c.Store.Path, err = expandPath(c.Store.Path); err != nil {
		return fmt.Errorf("store.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("PODCUT_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
