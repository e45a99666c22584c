package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Snapshot is one stored version of a workspace artifact.
type Snapshot struct {
	ID        int64
	Workspace string
	Artifact  string
	Version   int
	RunID     string
	Stage     string
	CreatedAt time.Time
	SHA256    string
	Size      int

	// Payload is nil for snapshots returned by List.
	Payload []byte
}

// SnapshotInput describes an artifact to store.
type SnapshotInput struct {
	Workspace string
	Artifact  string
	RunID     string
	Stage     string
	Payload   []byte
}

// SaveSnapshot stores payload as the next version of the artifact.
func (s *Store) SaveSnapshot(ctx context.Context, in SnapshotInput) (*Snapshot, error) {
	ctx = ensureContext(ctx)
	if strings.TrimSpace(in.Workspace) == "" || strings.TrimSpace(in.Artifact) == "" {
		return nil, errors.New("snapshot workspace and artifact are required")
	}
	sum := sha256.Sum256(in.Payload)
	digest := hex.EncodeToString(sum[:])
	now := time.Now().UTC()

	var snap *Snapshot
	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		var version int
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(version), 0) + 1 FROM snapshots WHERE workspace = ? AND artifact = ?`,
			in.Workspace, in.Artifact,
		).Scan(&version); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots (workspace, artifact, version, run_id, stage, created_at, sha256, payload)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			in.Workspace, in.Artifact, version, nullableString(in.RunID), nullableString(in.Stage),
			now.Format(time.RFC3339Nano), digest, in.Payload,
		)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		snap = &Snapshot{
			ID:        id,
			Workspace: in.Workspace,
			Artifact:  in.Artifact,
			Version:   version,
			RunID:     in.RunID,
			Stage:     in.Stage,
			CreatedAt: now,
			SHA256:    digest,
			Size:      len(in.Payload),
			Payload:   append([]byte(nil), in.Payload...),
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save snapshot %s: %w", in.Artifact, err)
	}
	return snap, nil
}

// Latest returns the newest version of an artifact.
func (s *Store) Latest(ctx context.Context, workspace, artifact string) (*Snapshot, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE workspace = ? AND artifact = ? ORDER BY version DESC LIMIT 1`,
		workspace, artifact,
	)
	return scanSnapshotRow(row, artifact)
}

// Get returns one version of an artifact.
func (s *Store) Get(ctx context.Context, workspace, artifact string, version int) (*Snapshot, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM snapshots WHERE workspace = ? AND artifact = ? AND version = ?`,
		workspace, artifact, version,
	)
	return scanSnapshotRow(row, artifact)
}

// List returns snapshot metadata for a workspace in version order. Payloads
// are not loaded. An empty artifact lists every artifact.
func (s *Store) List(ctx context.Context, workspace, artifact string) ([]Snapshot, error) {
	ctx = ensureContext(ctx)
	query := `SELECT id, workspace, artifact, version, run_id, stage, created_at, sha256, length(payload)
              FROM snapshots WHERE workspace = ?`
	args := []any{workspace}
	if artifact != "" {
		query += ` AND artifact = ?`
		args = append(args, artifact)
	}
	query += ` ORDER BY artifact, version`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var (
			snap    Snapshot
			runID   sql.NullString
			stage   sql.NullString
			created sql.NullString
		)
		if err := rows.Scan(&snap.ID, &snap.Workspace, &snap.Artifact, &snap.Version, &runID, &stage, &created, &snap.SHA256, &snap.Size); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.RunID = runID.String
		snap.Stage = stage.String
		snap.CreatedAt = parseTime(created)
		out = append(out, snap)
	}
	return out, rows.Err()
}

const snapshotColumns = `id, workspace, artifact, version, run_id, stage, created_at, sha256, payload`

func scanSnapshotRow(row scanner, artifact string) (*Snapshot, error) {
	var (
		snap    Snapshot
		runID   sql.NullString
		stage   sql.NullString
		created sql.NullString
	)
	err := row.Scan(&snap.ID, &snap.Workspace, &snap.Artifact, &snap.Version, &runID, &stage, &created, &snap.SHA256, &snap.Payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, artifact)
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	snap.RunID = runID.String
	snap.Stage = stage.String
	snap.CreatedAt = parseTime(created)
	snap.Size = len(snap.Payload)
	return &snap, nil
}
