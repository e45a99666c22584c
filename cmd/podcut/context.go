package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"podcut/internal/config"
	"podcut/internal/lexicon"
	"podcut/internal/logging"
	"podcut/internal/observe"
	"podcut/internal/pipeline"
	"podcut/internal/runctx"
	"podcut/internal/store"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	jsonFlag     *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		jsonFlag:     jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = runctx.Wrap(runctx.ErrConfiguration, "", "load config", "", err)
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
			if err := cfg.Validate(); err != nil {
				c.configErr = runctx.Wrap(runctx.ErrConfiguration, "", "apply --log-level", "", err)
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = runctx.Wrap(runctx.ErrConfiguration, "", "ensure directories", "", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = runctx.Wrap(runctx.ErrConfiguration, "", "init logger", "", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

func (c *commandContext) loadLexicon(cfg *config.Config) (*lexicon.Lexicon, error) {
	if cfg.Lexicon.Path == "" {
		return lexicon.Default(), nil
	}
	lex, err := lexicon.Load(cfg.Lexicon.Path)
	if err != nil {
		return nil, runctx.Wrap(runctx.ErrConfiguration, "", "load lexicon", cfg.Lexicon.Path, err)
	}
	return lex, nil
}

func (c *commandContext) openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(cfg)
	if err != nil {
		return nil, runctx.Wrap(runctx.ErrStorage, "", "open snapshot store", cfg.Store.Path, err)
	}
	return st, nil
}

// session holds the resources of one pipeline invocation.
type session struct {
	runner    *pipeline.Runner
	store     *store.Store
	collector *observe.Collector
	logger    *slog.Logger
}

func (c *commandContext) openSession() (*session, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	lex, err := c.loadLexicon(cfg)
	if err != nil {
		return nil, err
	}
	collector, err := observe.NewCollector()
	if err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	s := &session{collector: collector, logger: logger}
	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(collector.Metrics()),
	}
	if cfg.Store.Enabled {
		st, err := c.openStore(cfg)
		if err != nil {
			return nil, errors.Join(err, collector.Shutdown(context.Background()))
		}
		s.store = st
		opts = append(opts, pipeline.WithStore(st))
	}
	s.runner = pipeline.NewRunner(cfg, lex, opts...)
	return s, nil
}

// close logs the metrics gathered during the session and releases the store.
func (s *session) close(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	if points, err := s.collector.Collect(ctx); err != nil {
		s.logger.Debug("metrics collection failed", logging.Error(err))
	} else {
		for _, p := range points {
			attrs := []logging.Attr{
				logging.String("metric", p.Name),
				logging.Float64("value", p.Value),
			}
			if p.Attributes != "" {
				attrs = append(attrs, logging.String("attributes", p.Attributes))
			}
			if p.Count > 0 {
				attrs = append(attrs, logging.Int64("count", int64(p.Count)))
			}
			s.logger.Debug("metric", logging.Args(attrs...)...)
		}
	}
	if err := s.collector.Shutdown(ctx); err != nil {
		s.logger.Debug("metrics shutdown failed", logging.Error(err))
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("snapshot store close failed", logging.Error(err))
		}
	}
}

// execute runs stages against dir and presents the results. The results of a
// run that fails its audit are still printed.
func (c *commandContext) execute(cmd *cobra.Command, dir string, stages []pipeline.Stage) error {
	s, err := c.openSession()
	if err != nil {
		return err
	}
	defer s.close(cmd.Context())

	run, runErr := s.runner.Execute(cmd.Context(), dir, stages)
	if run != nil {
		if err := c.present(cmd, run, runErr); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}

func (c *commandContext) present(cmd *cobra.Command, run *pipeline.Run, runErr error) error {
	if c.jsonOutput() {
		return writeJSON(cmd, run.Results)
	}
	out := cmd.OutOrStdout()
	_, err := fmt.Fprint(out, renderRun(run, runErr, shouldColorize(out)))
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
