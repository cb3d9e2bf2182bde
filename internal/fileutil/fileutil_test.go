package fileutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFileCreatesParents(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.rpm")
	dst := filepath.Join(dir, "after", "x86_64", "dst.rpm")

	content := []byte("hello world")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyFile(src, dst, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestCopyFileSetsMode(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	if err := os.WriteFile(src, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CopyFile(src, dst, 0o755); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Fatalf("mode = %v, want 0755", info.Mode().Perm())
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst"), 0o644); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestWriteAtomicLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "pkg.rpm")
	n, err := WriteAtomic(dst, bytes.NewReader([]byte("payload")), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if n != 7 {
		t.Fatalf("written = %d, want 7", n)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "pkg.rpm" {
		t.Fatalf("unexpected directory contents %v", entries)
	}
}

func TestPruneEmptyDirs(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"x86_64", "aarch64", "src"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "src", "foo.src.rpm"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	removed := PruneEmptyDirs(root)
	if len(removed) != 2 {
		t.Fatalf("removed = %v, want two arch dirs", removed)
	}
	if _, err := os.Stat(filepath.Join(root, "src")); err != nil {
		t.Fatalf("non-empty dir must stay: %v", err)
	}
	if PruneEmptyDirs(filepath.Join(root, "missing")) != nil {
		t.Fatal("missing root prunes nothing")
	}
}
