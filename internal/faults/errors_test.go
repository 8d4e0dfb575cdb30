package faults_test

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"cassprep/internal/faults"
)

func TestWrapPreservesMarkerAndCause(t *testing.T) {
	err := faults.Wrap(faults.ErrIO, "pipeline", "write", "doc-1.story", fs.ErrPermission)
	if !errors.Is(err, faults.ErrIO) {
		t.Fatalf("expected ErrIO marker, got %v", err)
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "pipeline: write: doc-1.story") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := faults.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, faults.ErrIO) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "cassprep failure") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestExitCodeAndKind(t *testing.T) {
	cases := []struct {
		err  error
		code int
		kind string
	}{
		{nil, 0, "ok"},
		{faults.Wrap(faults.ErrConfiguration, "split", "validate", "", nil), 2, "configuration"},
		{faults.Wrap(faults.ErrConsistency, "pipeline", "verify", "", nil), 3, "consistency"},
		{faults.Wrap(faults.ErrLocked, "pipeline", "lock", "", nil), 4, "locked"},
		{faults.Wrap(faults.ErrIO, "pipeline", "read", "", nil), 1, "io"},
		{errors.New("boom"), 1, "failed"},
	}
	for _, tc := range cases {
		if got := faults.ExitCode(tc.err); got != tc.code {
			t.Fatalf("ExitCode(%v) = %d, want %d", tc.err, got, tc.code)
		}
		if got := faults.Kind(tc.err); got != tc.kind {
			t.Fatalf("Kind(%v) = %q, want %q", tc.err, got, tc.kind)
		}
	}
}
