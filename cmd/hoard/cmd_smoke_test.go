package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/odvcencio/hoard/pkg/repo"
	"github.com/spf13/cobra"
)

func chdirForTest(t *testing.T, dir string) func() {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	return func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatalf("Chdir back: %v", err)
		}
	}
}

func runCmd(t *testing.T, build func() *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := build()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%s: %v\noutput:\n%s", cmd.Use, err, out.String())
	}
	return out.String()
}

func TestCLI_InitAddApplyFlow(t *testing.T) {
	dir := t.TempDir()

	out := runCmd(t, newInitCmd, dir)
	if !strings.Contains(out, "initialized new hoard repository") {
		t.Fatalf("init output = %q", out)
	}

	restore := chdirForTest(t, dir)
	defer restore()

	if err := os.WriteFile(filepath.Join(dir, "book.epub"), []byte("an ebook"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out = runCmd(t, newAddCmd, "book.epub")
	if !strings.Contains(out, "stored: ") || !strings.Contains(out, "book.epub") {
		t.Fatalf("add output = %q", out)
	}

	out = runCmd(t, newQueryCmd)
	if strings.TrimSpace(out) != "book.epub" {
		t.Fatalf("query output = %q, want book.epub", out)
	}

	out = runCmd(t, newInfoCmd, "book.epub")
	if !strings.Contains(out, "name:  book.epub") || !strings.Contains(out, "hash:  ") {
		t.Fatalf("info output = %q", out)
	}

	// Converged tree: status has nothing to report, apply does nothing.
	r, err := repo.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	manifest := filepath.Join(r.HoardDir, "manifest.json")
	if err := os.WriteFile(manifest, []byte(`{"book.epub": ["book.epub"]}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out = runCmd(t, newStatusCmd)
	if !strings.Contains(out, "nothing to do") {
		t.Fatalf("status output = %q, want nothing to do", out)
	}

	// Move the book into a shelf via the manifest.
	if err := os.WriteFile(manifest, []byte(`{"book.epub": ["shelf/book.epub"]}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	out = runCmd(t, newApplyCmd)
	if !strings.Contains(out, "create: ") || !strings.Contains(out, "delete: ") {
		t.Fatalf("apply output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "shelf", "book.epub")); err != nil {
		t.Fatalf("manifest location missing after apply: %v", err)
	}
}

func TestCLI_MvRm(t *testing.T) {
	dir := t.TempDir()
	runCmd(t, newInitCmd, dir)

	restore := chdirForTest(t, dir)
	defer restore()

	if err := os.WriteFile(filepath.Join(dir, "track.flac"), []byte("audio"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	runCmd(t, newAddCmd, "track.flac")

	out := runCmd(t, newMvCmd, "track.flac", "song.flac")
	if !strings.Contains(out, "renamed track.flac to song.flac") {
		t.Fatalf("mv output = %q", out)
	}

	out = runCmd(t, newRmCmd, "song.flac")
	if !strings.Contains(out, "removed song.flac") {
		t.Fatalf("rm output = %q", out)
	}

	if out := runCmd(t, newQueryCmd); strings.TrimSpace(out) != "" {
		t.Fatalf("query output = %q, want empty", out)
	}
}
