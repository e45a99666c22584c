package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// RunStatus is the lifecycle state of a run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Run is one invocation of the pipeline against a workspace.
type Run struct {
	ID         string
	Workspace  string
	Stages     []string
	Status     RunStatus
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// BeginRun records the start of a run.
func (s *Store) BeginRun(ctx context.Context, id, workspace string, stages []string) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("run id is required")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, workspace, stages, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, workspace, nullableString(strings.Join(stages, ",")), RunRunning, now,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun marks a run finished. A nil runErr records success.
func (s *Store) FinishRun(ctx context.Context, id string, runErr error) error {
	status := RunSucceeded
	msg := ""
	if runErr != nil {
		status = RunFailed
		msg = runErr.Error()
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if err := s.execWithRetry(ctx,
		`UPDATE runs SET status = ?, error_message = ?, finished_at = ? WHERE id = ? AND finished_at IS NULL`,
		status, nullableString(msg), now, id,
	); err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// GetRun fetches a run by identifier. It returns nil when the run is unknown.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs of a workspace, newest first.
func (s *Store) ListRuns(ctx context.Context, workspace string, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE workspace = ? ORDER BY started_at DESC, id DESC LIMIT ?`,
		workspace, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, *run)
	}
	return out, rows.Err()
}

const runColumns = `id, workspace, stages, status, error_message, started_at, finished_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		run      Run
		stages   sql.NullString
		status   string
		errMsg   sql.NullString
		started  sql.NullString
		finished sql.NullString
	)
	if err := row.Scan(&run.ID, &run.Workspace, &stages, &status, &errMsg, &started, &finished); err != nil {
		return nil, err
	}
	if stages.Valid && stages.String != "" {
		run.Stages = strings.Split(stages.String, ",")
	}
	run.Status = RunStatus(status)
	run.Error = errMsg.String
	run.StartedAt = parseTime(started)
	run.FinishedAt = parseTime(finished)
	return &run, nil
}
