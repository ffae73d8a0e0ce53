package object

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Link ensures dst is a hardlink to src, creating parent directories as
// needed. It reports whether dst was newly created: re-linking a path that
// already shares src's inode is a no-op, and replacing a path that holds
// different content reports created = false.
//
// Replacement removes dst before linking so the pool copy is never the one
// removed. A crash between the remove and the link leaves dst missing
// entirely; that narrow window is accepted (single-process operation, no
// recovery logic).
func Link(src, dst string) (created bool, err error) {
	if parent := filepath.Dir(dst); parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return false, fmt.Errorf("link %s: mkdir: %w", dst, err)
		}
	}

	if _, err := os.Lstat(dst); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("link %s: %w", dst, err)
		}
		if err := os.Link(src, dst); err != nil {
			return false, fmt.Errorf("link %s: %w", dst, err)
		}
		return true, nil
	}

	srcIno, err := InodeOf(src)
	if err != nil {
		return false, fmt.Errorf("link %s: %w", dst, err)
	}
	dstIno, err := InodeOf(dst)
	if err != nil {
		return false, fmt.Errorf("link %s: %w", dst, err)
	}
	if srcIno == dstIno {
		// Already the same object.
		return false, nil
	}

	if err := os.Remove(dst); err != nil {
		return false, fmt.Errorf("link %s: %w", dst, err)
	}
	if err := os.Link(src, dst); err != nil {
		return false, fmt.Errorf("link %s: %w", dst, err)
	}
	return false, nil
}
