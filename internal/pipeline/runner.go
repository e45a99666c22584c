package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"podcut/internal/config"
	"podcut/internal/fileutil"
	"podcut/internal/lexicon"
	"podcut/internal/logging"
	"podcut/internal/observe"
	"podcut/internal/preflight"
	"podcut/internal/runctx"
	"podcut/internal/store"
	"podcut/internal/workspace"
)

// Runner executes stages against a workspace.
type Runner struct {
	cfg     *config.Config
	lex     *lexicon.Lexicon
	store   *store.Store
	metrics *observe.Metrics
	logger  *slog.Logger
	newID   func() string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithStore records runs and artifact snapshots in st.
func WithStore(st *store.Store) Option {
	return func(r *Runner) { r.store = st }
}

// WithMetrics records stage metrics on m.
func WithMetrics(m *observe.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithRunIDs overrides run identifier generation.
func WithRunIDs(fn func() string) Option {
	return func(r *Runner) { r.newID = fn }
}

// NewRunner constructs a Runner. A nil lexicon uses the built-in tables.
func NewRunner(cfg *config.Config, lex *lexicon.Lexicon, opts ...Option) *Runner {
	r := &Runner{
		cfg:     cfg,
		lex:     lex,
		metrics: observe.Discard(),
		logger:  logging.NewNop(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.lex == nil {
		r.lex = lexicon.Default()
	}
	return r
}

// Execute runs stages in order against the workspace in dir. It stops at the
// first hard failure; an audit failure lets the remaining stages run and is
// returned at the end. The returned Run is non-nil whenever the workspace
// could be locked.
func (r *Runner) Execute(ctx context.Context, dir string, stages []Stage) (*Run, error) {
	if len(stages) == 0 {
		return nil, errors.New("no stages to run")
	}
	ws, err := workspace.Open(dir)
	if err != nil {
		return nil, err
	}
	if err := r.preflight(ws.Dir()); err != nil {
		return nil, err
	}
	if err := ws.Lock(); err != nil {
		return nil, err
	}
	defer func() {
		if err := ws.Unlock(); err != nil {
			r.logger.Warn("workspace unlock failed", logging.Error(err))
		}
	}()

	run := &Run{
		ID:        r.newID(),
		Workspace: ws,
		Config:    r.cfg,
		Lexicon:   r.lex,
		Metrics:   r.metrics,
	}
	ctx = runctx.WithRunID(ctx, run.ID)
	ctx = runctx.WithWorkspace(ctx, ws.Dir())
	runLogger := logging.WithContext(ctx, r.logger)
	run.Logger = runLogger

	names := Names(stages)
	if r.store != nil {
		if err := r.store.BeginRun(ctx, run.ID, ws.Dir(), names); err != nil {
			return nil, runctx.Wrap(runctx.ErrStorage, "", "begin run", "", err)
		}
	}
	runLogger.Info("run started", logging.String("stages", strings.Join(names, ",")))

	runErr := r.runStages(ctx, run, stages)

	if r.store != nil {
		if err := r.store.FinishRun(context.WithoutCancel(ctx), run.ID, runErr); err != nil {
			runLogger.Warn("failed to record run result", logging.Error(err))
		}
	}
	if runErr != nil {
		runLogger.Error("run failed", logging.Error(runErr))
	} else {
		runLogger.Info("run complete", logging.Int("artifacts", len(run.Results.Artifacts)))
	}
	return run, runErr
}

func (r *Runner) runStages(ctx context.Context, run *Run, stages []Stage) error {
	var soft error
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		stageCtx := runctx.WithStage(ctx, st.Name())
		run.Logger = logging.WithContext(stageCtx, r.logger)
		run.Logger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))

		started := time.Now()
		err := st.Run(stageCtx, run)
		elapsed := time.Since(started)
		r.metrics.RecordStage(stageCtx, st.Name(), stageStatus(err), elapsed)

		if snapErr := r.saveArtifacts(stageCtx, run, st.Name()); snapErr != nil {
			return snapErr
		}

		switch {
		case err == nil:
			run.Logger.Info("stage completed",
				logging.String(logging.FieldEventType, "stage_complete"),
				logging.Duration("elapsed", elapsed),
			)
		case errors.Is(err, runctx.ErrAuditFailed):
			logging.WarnWithContext(run.Logger, "stage reported open issues", "stage_soft_failure",
				logging.String(logging.FieldImpact, "run will exit non-zero"),
				logging.Error(err),
			)
			if soft == nil {
				soft = err
			}
		default:
			run.Logger.Error("stage failed",
				logging.String(logging.FieldEventType, "stage_failure"),
				logging.Error(err),
			)
			return err
		}
	}
	return soft
}

// saveArtifacts stores the files written by a stage as snapshot versions.
func (r *Runner) saveArtifacts(ctx context.Context, run *Run, stage string) error {
	for _, a := range run.takePending() {
		art := Artifact{Stage: stage, Name: a.name, SHA256: fileutil.Checksum(a.data)}
		if r.store != nil {
			snap, err := r.store.SaveSnapshot(ctx, store.SnapshotInput{
				Workspace: run.Workspace.Dir(),
				Artifact:  a.name,
				RunID:     run.ID,
				Stage:     stage,
				Payload:   a.data,
			})
			if err != nil {
				return runctx.Wrap(runctx.ErrStorage, stage, "save snapshot", a.name, err)
			}
			art.Version = snap.Version
			r.metrics.RecordSnapshot(ctx, a.name)
			run.Logger.Debug("snapshot stored",
				logging.String("artifact", a.name),
				logging.Int("version", snap.Version),
			)
		}
		run.Results.Artifacts = append(run.Results.Artifacts, art)
	}
	return nil
}

func (r *Runner) preflight(dir string) error {
	if err := r.cfg.EnsureDirectories(); err != nil {
		return runctx.Wrap(runctx.ErrConfiguration, "preflight", "ensure directories", "", err)
	}
	failed := preflight.Failed(preflight.RunAll(r.cfg, dir))
	if len(failed) == 0 {
		return nil
	}
	details := make([]string, len(failed))
	for i, res := range failed {
		details[i] = fmt.Sprintf("%s: %s", res.Name, res.Detail)
	}
	return runctx.Wrap(runctx.ErrConfiguration, "preflight", "check access", strings.Join(details, "; "), nil)
}

func stageStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, runctx.ErrAuditFailed):
		return "issues"
	default:
		return "error"
	}
}
