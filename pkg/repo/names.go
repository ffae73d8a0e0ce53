package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/hoard/pkg/object"
	"github.com/odvcencio/hoard/pkg/state"
)

// ErrNoSuchObject indicates a name, hash, or path that matches nothing in
// the index.
var ErrNoSuchObject = errors.New("no such object")

// Info describes one named object for display.
type Info struct {
	Name  string
	Hash  object.Hash
	Pool  string   // canonical path in the content pool
	Ino   uint64
	Paths []string // current working tree locations, sorted
}

// Lookup resolves spec as an object name, a full content hash, or a
// working tree path, in that order, and reports where the object currently
// lives in the tree.
func (r *Repository) Lookup(spec string) (*Info, error) {
	index, err := r.LoadIndex()
	if err != nil {
		return nil, err
	}

	obj, ok := index.ByName()[spec]
	if !ok {
		if h, err := object.ParseHash(spec); err == nil {
			obj, ok = index.ByHash()[h]
		}
	}
	if !ok {
		if abs, err := filepath.Abs(spec); err == nil {
			if ino, err := object.InodeOf(abs); err == nil {
				obj, ok = index.ByInode()[ino]
			}
		}
	}
	if !ok {
		return nil, fmt.Errorf("lookup %q: %w", spec, ErrNoSuchObject)
	}

	actual, err := state.StateFromFilesystem(r.Root, r.HoardDir, index)
	if err != nil {
		return nil, err
	}

	return &Info{
		Name:  obj.Name,
		Hash:  obj.Hash,
		Pool:  obj.Path,
		Ino:   obj.Ino,
		Paths: actual.Objects[obj.Name],
	}, nil
}

// Names returns all object names in the index, sorted.
func (r *Repository) Names() ([]string, error) {
	index, err := r.LoadIndex()
	if err != nil {
		return nil, err
	}
	return index.Names(), nil
}

// Rename rebinds an object to a new unique name. The underlying reference
// is renamed in place; working tree links are unaffected.
func (r *Repository) Rename(oldName, newName string) error {
	oldRef := filepath.Join(r.NamesDir(), oldName)
	newRef := filepath.Join(r.NamesDir(), newName)

	if _, err := os.Lstat(oldRef); err != nil {
		return fmt.Errorf("rename %q: %w", oldName, ErrNoSuchObject)
	}
	if _, err := os.Lstat(newRef); err == nil {
		return fmt.Errorf("rename %q to %q: %w", oldName, newName, ErrNameTaken)
	}
	if err := os.Rename(oldRef, newRef); err != nil {
		return fmt.Errorf("rename %q to %q: %w", oldName, newName, err)
	}
	return nil
}

// Remove drops an object's name binding. The stored content stays in the
// pool; working tree links keep working and a later apply can still clean
// them up by inode.
func (r *Repository) Remove(name string) error {
	ref := filepath.Join(r.NamesDir(), name)
	if _, err := os.Lstat(ref); err != nil {
		return fmt.Errorf("remove %q: %w", name, ErrNoSuchObject)
	}
	if err := os.Remove(ref); err != nil {
		return fmt.Errorf("remove %q: %w", name, err)
	}
	return nil
}
