package workdir_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"rpminspect/internal/logging"
	"rpminspect/internal/workdir"
)

func acquire(t *testing.T, path string) *workdir.Lease {
	t.Helper()
	lease, err := workdir.Acquire(context.Background(), path, workdir.DefaultMode, logging.NewNop())
	if err != nil {
		t.Fatalf("Acquire(%s): %v", path, err)
	}
	return lease
}

func mkRun(t *testing.T, root, name string) string {
	t.Helper()
	sub := filepath.Join(root, name)
	if err := os.MkdirAll(filepath.Join(sub, "after", "x86_64"), 0o755); err != nil {
		t.Fatalf("mkdir run: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sub, "after", "x86_64", "foo.rpm"), []byte("rpm"), 0o644); err != nil {
		t.Fatalf("write run file: %v", err)
	}
	return sub
}

func TestAcquireCreatesNestedPathAndReleaseRemovesIt(t *testing.T) {
	root := filepath.Join(t.TempDir(), "a", "b", "work")
	lease := acquire(t, root)

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		t.Fatalf("workdir not created: %v", err)
	}

	sub := mkRun(t, root, "local.abc123")
	res := lease.Release(false, sub)
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected cleanup errors: %+v", res.Errors)
	}
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Fatalf("expected workdir to be removed, stat err = %v", err)
	}
}

func TestAcquireAcceptsExistingDirectory(t *testing.T) {
	root := t.TempDir()
	keepMe := filepath.Join(root, "unrelated.txt")
	if err := os.WriteFile(keepMe, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	lease := acquire(t, root)
	sub := mkRun(t, root, "foo-1.0.xyz")

	lease.Release(false, sub)

	if _, err := os.Stat(sub); !os.IsNotExist(err) {
		t.Fatalf("run subdirectory should be gone, stat err = %v", err)
	}
	if _, err := os.Stat(keepMe); err != nil {
		t.Fatalf("unrelated content must survive: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, workdir.LockName)); !os.IsNotExist(err) {
		t.Fatalf("lock file should be removed, stat err = %v", err)
	}
}

func TestReleaseKeepLeavesEverything(t *testing.T) {
	root := filepath.Join(t.TempDir(), "work")
	lease := acquire(t, root)
	sub := mkRun(t, root, "local.keep")

	res := lease.Release(true, sub)
	if res.Kept != sub {
		t.Fatalf("Kept = %q, want %q", res.Kept, sub)
	}
	if _, err := os.Stat(filepath.Join(sub, "after", "x86_64", "foo.rpm")); err != nil {
		t.Fatalf("kept run should be intact: %v", err)
	}
}

func TestReleaseKeepWithoutSubdirReportsRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "work")
	lease := acquire(t, root)
	if res := lease.Release(true, ""); res.Kept != root {
		t.Fatalf("Kept = %q, want %q", res.Kept, root)
	}
}

func TestSharedRootSurvivesUntilLastRelease(t *testing.T) {
	root := filepath.Join(t.TempDir(), "work")
	first := acquire(t, root)
	second := acquire(t, root)
	subA := mkRun(t, root, "local.a")
	subB := mkRun(t, root, "local.b")

	first.Release(false, subA)
	if _, err := os.Stat(subB); err != nil {
		t.Fatalf("other run's directory must survive: %v", err)
	}
	if _, err := os.Stat(root); err != nil {
		t.Fatalf("root must survive while another run holds it: %v", err)
	}

	second.Release(false, subB)
	if _, err := os.Stat(root); !os.IsNotExist(err) {
		t.Fatalf("root should be removed after last release, stat err = %v", err)
	}
}

func TestAcquireFailsBelowRegularFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := workdir.Acquire(context.Background(), filepath.Join(file, "work"), 0, nil)
	if !errors.Is(err, workdir.ErrCreateFailed) {
		t.Fatalf("expected ErrCreateFailed, got %v", err)
	}
}

func TestReleaseIgnoresSubdirOutsideRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "work")
	outside := t.TempDir()
	lease := acquire(t, root)
	lease.Release(false, outside)
	if _, err := os.Stat(outside); err != nil {
		t.Fatalf("paths outside the workdir must never be removed: %v", err)
	}
}

func TestNilLeaseRelease(t *testing.T) {
	var lease *workdir.Lease
	if res := lease.Release(false, "/nonexistent"); len(res.Removed) != 0 || len(res.Errors) != 0 {
		t.Fatalf("nil lease should be a no-op: %+v", res)
	}
}

func TestListRuns(t *testing.T) {
	root := t.TempDir()
	mkRun(t, root, "local.one")
	if err := os.WriteFile(filepath.Join(root, "stray"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	runs, err := workdir.ListRuns(root)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Name != "local.one" || runs[0].Size != 3 {
		t.Fatalf("unexpected runs %+v", runs)
	}
	if runs, err := workdir.ListRuns(filepath.Join(root, "missing")); err != nil || runs != nil {
		t.Fatalf("missing root should list nothing: %v %v", runs, err)
	}
}
