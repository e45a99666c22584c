package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"podcut/internal/fileutil"
	"podcut/internal/transcript"
)

// WriteJSON marshals v into dir/name.
func WriteJSON(t testing.TB, dir, name string, v any) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if _, err := fileutil.WriteJSON(path, v); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteText writes content into dir/name.
func WriteText(t testing.TB, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteSentenceIndex writes sentences into dir/name in the line format.
func WriteSentenceIndex(t testing.TB, dir, name string, sentences []transcript.Sentence) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := transcript.WriteSentenceIndex(f, sentences); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ReadJSON decodes dir/name into v.
func ReadJSON(t testing.TB, dir, name string, v any) {
	t.Helper()

	if err := fileutil.ReadJSON(filepath.Join(dir, name), v); err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
}
