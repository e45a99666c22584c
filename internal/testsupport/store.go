package testsupport

import (
	"context"
	"testing"

	"podcut/internal/config"
	"podcut/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// BeginRun records a run for tests using the provided store.
func BeginRun(t testing.TB, st *store.Store, id, workspace string) {
	t.Helper()

	if err := st.BeginRun(context.Background(), id, workspace, nil); err != nil {
		t.Fatalf("store.BeginRun: %v", err)
	}
}
