package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.story")

	if err := WriteFileAtomic(path, []byte("premier"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(path, []byte("second"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Fatalf("content mismatch: got %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the target file, found %d entries", len(entries))
	}
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "doc.story")
	if err := WriteFileAtomic(path, []byte("x"), 0o644); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestAppendLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "all_train.txt")
	for _, id := range []string{"a", "b"} {
		if err := AppendLine(path, id); err != nil {
			t.Fatal(err)
		}
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "a\nb\n" {
		t.Fatalf("content mismatch: got %q", got)
	}

	if err := Truncate(path); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected empty file after truncate, got %d bytes", info.Size())
	}
}

func TestWriteLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "all_val.txt")
	if err := WriteLines(path, []string{"x", "y"}); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "x\ny\n" {
		t.Fatalf("content mismatch: got %q", got)
	}
	if err := WriteLines(path, nil); err != nil {
		t.Fatal(err)
	}
	got, _ = os.ReadFile(path)
	if len(got) != 0 {
		t.Fatalf("expected empty list file, got %q", got)
	}
}

func TestCountFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.story", "b.story", "c.txt", ".cassprep.lock"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.story"), 0o755); err != nil {
		t.Fatal(err)
	}

	n, err := CountFiles(dir, ".story")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("CountFiles = %d, want 2", n)
	}

	n, err = CountFiles(filepath.Join(dir, "missing"), ".story")
	if err != nil || n != 0 {
		t.Fatalf("missing dir: n=%d err=%v", n, err)
	}

	ok, err := Exists(filepath.Join(dir, "a.story"))
	if err != nil || !ok {
		t.Fatalf("Exists a.story = %v, %v", ok, err)
	}
	ok, err = Exists(filepath.Join(dir, "z.story"))
	if err != nil || ok {
		t.Fatalf("Exists z.story = %v, %v", ok, err)
	}
}
