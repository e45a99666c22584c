package runctx_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"podcut/internal/runctx"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := runctx.Wrap(runctx.ErrMissingInput, "detect", "load transcript", "words.json not found", base)
	if !errors.Is(err, runctx.ErrMissingInput) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	for _, fragment := range []string{"detect", "load transcript", "words.json"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in error string %q", fragment, err.Error())
		}
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := runctx.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, runctx.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "stage failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "missing input", err: runctx.Wrap(runctx.ErrMissingInput, "audit", "", "", nil), want: 2},
		{name: "configuration", err: runctx.Wrap(runctx.ErrConfiguration, "", "load", "", nil), want: 2},
		{name: "audit failed", err: runctx.Wrap(runctx.ErrAuditFailed, "audit", "", "3 issues", nil), want: 1},
		{name: "plain", err: errors.New("io"), want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := runctx.ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = runctx.WithRunID(ctx, "run-1")
	ctx = runctx.WithStage(ctx, "merge")
	ctx = runctx.WithWorkspace(ctx, "/tmp/ep1")

	if id, ok := runctx.RunIDFromContext(ctx); !ok || id != "run-1" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if stage, ok := runctx.StageFromContext(ctx); !ok || stage != "merge" {
		t.Fatalf("unexpected stage: %v %v", stage, ok)
	}
	if dir, ok := runctx.WorkspaceFromContext(ctx); !ok || dir != "/tmp/ep1" {
		t.Fatalf("unexpected workspace: %v %v", dir, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := runctx.WithStage(context.Background(), "")
	ctx = runctx.WithRunID(ctx, "")
	if _, ok := runctx.StageFromContext(ctx); ok {
		t.Fatal("expected no stage value")
	}
	if _, ok := runctx.RunIDFromContext(ctx); ok {
		t.Fatal("expected no run id value")
	}
}
