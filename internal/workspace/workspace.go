package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"podcut/internal/fileutil"
	"podcut/internal/runctx"
)

// Artifact file names.
const (
	WordsFile          = "words.json"
	SentencesFile      = "sentences.txt"
	DecisionsFile      = "sentence_decisions.json"
	RuleEditsFile      = "edits_rules.json"
	SuggestionsFile    = "suggestions.json"
	EditsFile          = "edits.json"
	SegmentsFile       = "delete_segments.json"
	SegmentsBackupFile = "delete_segments_backup.json"
	FeedbackFile       = "feedback.json"
	AuditReportFile    = "audit_report.json"
	RetranscriptFile   = "retranscript_words.json"
	ReviewReportFile   = "review_report.json"

	lockFile = ".podcut.lock"
)

// ErrLocked indicates another run holds the workspace lock.
var ErrLocked = errors.New("workspace is locked by another run")

// Workspace is an opened workspace directory.
type Workspace struct {
	dir  string
	lock *flock.Flock
}

// Open resolves dir and verifies it is an existing directory.
func Open(dir string) (*Workspace, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, runctx.Wrap(runctx.ErrMissingInput, "", "open workspace", "workspace directory not specified", nil)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve workspace: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, runctx.Wrap(runctx.ErrMissingInput, "", "open workspace", abs+" does not exist", nil)
		}
		return nil, fmt.Errorf("stat workspace: %w", err)
	}
	if !info.IsDir() {
		return nil, runctx.Wrap(runctx.ErrValidation, "", "open workspace", abs+" is not a directory", nil)
	}
	return &Workspace{dir: abs, lock: flock.New(filepath.Join(abs, lockFile))}, nil
}

// Dir returns the absolute workspace path.
func (w *Workspace) Dir() string {
	return w.dir
}

// Path returns the absolute path of an artifact.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// Has reports whether an artifact exists.
func (w *Workspace) Has(name string) bool {
	return fileutil.Exists(w.Path(name))
}

// Lock acquires the workspace lock without blocking.
func (w *Workspace) Lock() error {
	ok, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire workspace lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLocked, w.dir)
	}
	return nil
}

// Unlock releases the workspace lock.
func (w *Workspace) Unlock() error {
	if err := w.lock.Unlock(); err != nil {
		return fmt.Errorf("release workspace lock: %w", err)
	}
	return nil
}

// Require returns a missing-input error naming the first absent artifact.
func (w *Workspace) Require(stage string, names ...string) error {
	for _, name := range names {
		if !w.Has(name) {
			return runctx.Wrap(runctx.ErrMissingInput, stage, "check inputs", "missing "+name, nil)
		}
	}
	return nil
}

// RequireAny returns a missing-input error unless at least one artifact exists.
func (w *Workspace) RequireAny(stage string, names ...string) error {
	for _, name := range names {
		if w.Has(name) {
			return nil
		}
	}
	return runctx.Wrap(runctx.ErrMissingInput, stage, "check inputs",
		"need at least one of "+strings.Join(names, ", "), nil)
}

// WriteJSON atomically writes v as an indented JSON artifact and returns the
// bytes written.
func (w *Workspace) WriteJSON(name string, v any) ([]byte, error) {
	data, err := fileutil.WriteJSON(w.Path(name), v)
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", name, err)
	}
	return data, nil
}

// WriteFile atomically writes raw bytes to an artifact.
func (w *Workspace) WriteFile(name string, data []byte) error {
	if err := fileutil.WriteFileAtomic(w.Path(name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Backup copies an artifact to backupName unless the backup already exists.
// It reports whether a copy was made.
func (w *Workspace) Backup(name, backupName string) (bool, error) {
	if w.Has(backupName) {
		return false, nil
	}
	if err := fileutil.CopyFile(w.Path(name), w.Path(backupName)); err != nil {
		return false, fmt.Errorf("backup %s: %w", name, err)
	}
	return true, nil
}
