// Package state holds the in-memory picture of a hoard: the name index
// over durable object references, the desired and actual layout states,
// and the reconciler that turns their difference into executable changes.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/odvcencio/hoard/pkg/object"
)

// NamedObject binds a user-assigned unique name to a stored object: the
// resolved pool path, its content hash, and its inode number.
type NamedObject struct {
	Name string
	Path string
	Hash object.Hash
	Ino  uint64
}

// BrokenReferenceError reports a name entry whose target no longer exists.
type BrokenReferenceError struct {
	Name   string
	Target string
	Err    error
}

func (e *BrokenReferenceError) Error() string {
	return fmt.Sprintf("name %q: broken reference %s: %v", e.Name, e.Target, e.Err)
}

func (e *BrokenReferenceError) Unwrap() error { return e.Err }

// Index is an in-memory view of the by-name reference directory: one
// symlink per logical name, each resolving into the content pool. Its
// projections answer "which object is this?" by inode, name, or hash.
type Index struct {
	objects []NamedObject
}

// LoadIndex scans the reference directory. A missing directory is an empty
// index. Every entry must resolve to an existing target; a dangling
// reference fails the whole load with a BrokenReferenceError.
func LoadIndex(dir string) (*Index, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Index{}, nil
		}
		return nil, fmt.Errorf("load index %s: %w", dir, err)
	}

	idx := &Index{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ref := filepath.Join(dir, name)

		target, err := filepath.EvalSymlinks(ref)
		if err != nil {
			return nil, &BrokenReferenceError{Name: name, Target: ref, Err: err}
		}
		hash, err := object.HashFromPathOrContent(target)
		if err != nil {
			return nil, fmt.Errorf("load index: name %q: %w", name, err)
		}
		ino, err := object.InodeOf(target)
		if err != nil {
			return nil, fmt.Errorf("load index: name %q: %w", name, err)
		}

		idx.objects = append(idx.objects, NamedObject{
			Name: name,
			Path: target,
			Hash: hash,
			Ino:  ino,
		})
	}
	return idx, nil
}

// ByInode projects the index by inode number. The projections are derived
// views, not the source of truth; on duplicate keys the last write wins.
func (x *Index) ByInode() map[uint64]*NamedObject {
	out := make(map[uint64]*NamedObject, len(x.objects))
	for i := range x.objects {
		out[x.objects[i].Ino] = &x.objects[i]
	}
	return out
}

// ByName projects the index by object name.
func (x *Index) ByName() map[string]*NamedObject {
	out := make(map[string]*NamedObject, len(x.objects))
	for i := range x.objects {
		out[x.objects[i].Name] = &x.objects[i]
	}
	return out
}

// ByHash projects the index by content hash.
func (x *Index) ByHash() map[object.Hash]*NamedObject {
	out := make(map[object.Hash]*NamedObject, len(x.objects))
	for i := range x.objects {
		out[x.objects[i].Hash] = &x.objects[i]
	}
	return out
}

// Objects returns a snapshot of all indexed objects.
func (x *Index) Objects() []NamedObject {
	out := make([]NamedObject, len(x.objects))
	copy(out, x.objects)
	return out
}

// Names returns all object names, sorted.
func (x *Index) Names() []string {
	names := make([]string, 0, len(x.objects))
	for i := range x.objects {
		names = append(names, x.objects[i].Name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of indexed objects.
func (x *Index) Len() int { return len(x.objects) }
