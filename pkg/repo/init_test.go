package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func assertDir(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if !info.IsDir() {
		t.Fatalf("%s is not a directory", path)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()

	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init(%q): %v", dir, err)
	}
	if r.Root != dir {
		t.Errorf("Root = %q, want %q", r.Root, dir)
	}
	if r.HoardDir != filepath.Join(dir, ".hoard") {
		t.Errorf("HoardDir = %q, want %q", r.HoardDir, filepath.Join(dir, ".hoard"))
	}

	assertDir(t, filepath.Join(dir, ".hoard"))
	assertDir(t, filepath.Join(dir, ".hoard", "objects", "by-hash"))
	assertDir(t, filepath.Join(dir, ".hoard", "objects", "by-name"))

	if r.Store == nil {
		t.Error("Store is nil after Init")
	}
}

func TestInit_ExistingRepo_Error(t *testing.T) {
	dir := t.TempDir()

	if _, err := Init(dir); err != nil {
		t.Fatalf("first Init: %v", err)
	}
	if _, err := Init(dir); err == nil {
		t.Fatal("second Init should fail on existing repository")
	}
}

func TestOpen_FromSubdirectory(t *testing.T) {
	dir := t.TempDir()

	if _, err := Init(dir); err != nil {
		t.Fatalf("Init: %v", err)
	}

	sub := filepath.Join(dir, "a", "b", "c")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	r, err := Open(sub)
	if err != nil {
		t.Fatalf("Open(%q): %v", sub, err)
	}
	if r.Root != dir {
		t.Errorf("Root = %q, want %q", r.Root, dir)
	}
}

func TestOpen_NoRepository(t *testing.T) {
	_, err := Open(t.TempDir())
	if !errors.Is(err, ErrNotARepository) {
		t.Fatalf("Open = %v, want ErrNotARepository", err)
	}
}

func TestOpen_RescansPool(t *testing.T) {
	dir := t.TempDir()

	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	writeFile(t, filepath.Join(dir, "file.txt"), "scan me back in")
	if _, err := r.Add([]string{filepath.Join(dir, "file.txt")}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if reopened.Store.Len() != 1 {
		t.Errorf("Store.Len = %d after reopen, want 1", reopened.Store.Len())
	}
}
