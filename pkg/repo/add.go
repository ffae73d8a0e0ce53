package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/odvcencio/hoard/pkg/object"
	"github.com/odvcencio/hoard/pkg/state"
)

// OutsideRepositoryError reports a pathspec outside of the working tree.
type OutsideRepositoryError struct {
	Path string
}

func (e *OutsideRepositoryError) Error() string {
	return fmt.Sprintf("pathspec is not inside the hoard repository: %s", e.Path)
}

// ErrNameTaken indicates an operation that would bind an existing name to
// different content.
var ErrNameTaken = errors.New("name already bound to different content")

// AddResult records what happened to one added file.
type AddResult struct {
	Path   string // the file as given (absolute)
	Name   string // the durable name it is bound to
	Hash   object.Hash
	Stored bool // false when the content was already in the pool
}

// Add ingests the files at the given paths into the content pool,
// expanding directories recursively and skipping the marker directory.
// Every path must lie inside the repository root.
//
// Each file's base name becomes its durable name in the index, so new
// content is queryable by name immediately; no separate naming step is
// needed. Adding a file whose base name is already bound to different
// content fails with ErrNameTaken. After ingest the source path is
// relinked to the canonical object, so it shares the pool's inode.
func (r *Repository) Add(paths []string) ([]AddResult, error) {
	var files []string
	for _, p := range paths {
		if err := r.expand(&files, p); err != nil {
			return nil, err
		}
	}

	index, err := r.LoadIndex()
	if err != nil {
		return nil, err
	}
	byName := index.ByName()

	var results []AddResult
	for _, file := range files {
		before := r.Store.Len()
		hash, err := r.Store.Ingest(file)
		if err != nil {
			return results, err
		}
		stored := r.Store.Len() > before

		name := filepath.Base(file)
		if existing, ok := byName[name]; ok {
			if existing.Hash != hash {
				return results, fmt.Errorf("add %s: name %q: %w", file, name, ErrNameTaken)
			}
		} else {
			if err := r.bindName(name, hash); err != nil {
				return results, err
			}
			// Record locally so a second file with the same base name in
			// this batch is checked against it.
			poolPath := r.Store.PathFor(hash)
			ino, err := object.InodeOf(poolPath)
			if err != nil {
				return results, err
			}
			byName[name] = &state.NamedObject{Name: name, Path: poolPath, Hash: hash, Ino: ino}
		}

		// Relink the source so it is a hardlink of the canonical object.
		if _, err := object.Link(r.Store.PathFor(hash), file); err != nil {
			return results, err
		}

		results = append(results, AddResult{Path: file, Name: name, Hash: hash, Stored: stored})
	}
	return results, nil
}

// expand resolves path, verifies it is inside the repository, and appends
// every regular file under it (skipping the marker directory).
func (r *Repository) expand(out *[]string, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("add %s: %w", path, err)
	}
	if abs != r.Root && !strings.HasPrefix(abs, r.Root+string(filepath.Separator)) {
		return &OutsideRepositoryError{Path: abs}
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("add %s: %w", path, err)
	}

	return filepath.WalkDir(abs, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if d.Name() == markerDir {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			*out = append(*out, p)
		}
		return nil
	})
}

// bindName records a durable name for a stored object: a relative symlink
// in the by-name directory pointing into the pool, so the repository can
// move as a whole.
func (r *Repository) bindName(name string, h object.Hash) error {
	ref := filepath.Join(r.NamesDir(), name)
	target := filepath.Join("..", "by-hash", h.StoragePath())
	if err := os.Symlink(target, ref); err != nil {
		return fmt.Errorf("bind name %q: %w", name, err)
	}
	return nil
}
