// Package repo implements hoard repository operations: creating and
// discovering repositories, ingesting files into the content pool, and
// converging the working tree on the manifest.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/hoard/pkg/object"
	"github.com/odvcencio/hoard/pkg/state"
)

const markerDir = ".hoard"

// ErrNotARepository indicates no marker directory was found while
// searching upward from the starting path.
var ErrNotARepository = errors.New("not a hoard repository (or any parent up to /)")

// Repository is an opened hoard: a working tree root with a .hoard/ marker
// directory holding the content pool and the name index.
type Repository struct {
	Root     string        // working tree root
	HoardDir string        // .hoard/ marker directory
	Store    *object.Store // content-addressed pool under .hoard/objects/by-hash
}

// ObjectsDir returns the content pool root.
func (r *Repository) ObjectsDir() string {
	return filepath.Join(r.HoardDir, "objects", "by-hash")
}

// NamesDir returns the name index reference directory.
func (r *Repository) NamesDir() string {
	return filepath.Join(r.HoardDir, "objects", "by-name")
}

// Init creates a new hoard repository at path: the .hoard/ marker with the
// objects/by-hash pool and objects/by-name index underneath. It fails if a
// .hoard/ directory already exists there.
func Init(path string) (*Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("init: abs path: %w", err)
	}

	hoardDir := filepath.Join(abs, markerDir)
	if _, err := os.Stat(hoardDir); err == nil {
		return nil, fmt.Errorf("init: repository already exists at %s", hoardDir)
	}

	r := &Repository{Root: abs, HoardDir: hoardDir}
	for _, d := range []string{r.ObjectsDir(), r.NamesDir()} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	r.Store, err = object.NewStore(r.ObjectsDir())
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Open searches upward from path for a .hoard/ directory and opens the
// repository, scanning the content pool. Returns ErrNotARepository if no
// marker is found up to the filesystem root.
func Open(path string) (*Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		hoardDir := filepath.Join(cur, markerDir)
		info, err := os.Stat(hoardDir)
		if err == nil && info.IsDir() {
			r := &Repository{Root: cur, HoardDir: hoardDir}
			r.Store, err = object.NewStore(r.ObjectsDir())
			if err != nil {
				return nil, err
			}
			return r, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, ErrNotARepository
		}
		cur = parent
	}
}

// LoadIndex scans the by-name reference directory into a fresh Index.
func (r *Repository) LoadIndex() (*state.Index, error) {
	return state.LoadIndex(r.NamesDir())
}
