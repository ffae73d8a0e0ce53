package object

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
)

// StoredObject is one entry in the content pool.
type StoredObject struct {
	Path string // canonical path inside the pool
	Hash Hash
}

// Store is a content-addressed pool of files under a root directory with a
// two-character fan-out layout: root/ab/cdef0123... It deduplicates two
// ways, by filesystem inode and by content hash. Both lookup indices point
// into a shared object slice and are owned exclusively by the store.
type Store struct {
	root    string
	objects []StoredObject
	byIno   map[uint64]int // index into objects
	byHash  map[Hash]int
}

// NewStore opens the pool rooted at dir and builds both indices with one
// recursive scan. A missing root is an empty pool; the directory tree is
// created lazily on first ingest. The fan-out subdirectories are scanned
// concurrently, with results assembled under a lock; all lookups are by
// key, so assembly order does not matter.
func NewStore(dir string) (*Store, error) {
	s := &Store{
		root:   dir,
		byIno:  make(map[uint64]int),
		byHash: make(map[Hash]int),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("store scan %s: %w", dir, err)
	}

	var mu sync.Mutex
	var g errgroup.Group
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sub := filepath.Join(dir, entry.Name())
		g.Go(func() error {
			return filepath.WalkDir(sub, func(path string, d fs.DirEntry, walkErr error) error {
				if walkErr != nil {
					return walkErr
				}
				if !d.Type().IsRegular() {
					return nil
				}
				h, err := HashFromPathOrContent(path)
				if err != nil {
					return err
				}
				ino, err := InodeOf(path)
				if err != nil {
					return err
				}
				mu.Lock()
				s.register(StoredObject{Path: path, Hash: h}, ino)
				mu.Unlock()
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("store scan %s: %w", dir, err)
	}
	return s, nil
}

func (s *Store) register(obj StoredObject, ino uint64) {
	idx := len(s.objects)
	s.objects = append(s.objects, obj)
	s.byIno[ino] = idx
	s.byHash[obj.Hash] = idx
}

// Root returns the pool's root directory.
func (s *Store) Root() string { return s.root }

// Len returns the number of stored objects.
func (s *Store) Len() int { return len(s.objects) }

// Objects returns a snapshot of all stored objects.
func (s *Store) Objects() []StoredObject {
	out := make([]StoredObject, len(s.objects))
	copy(out, s.objects)
	return out
}

// GetByInode looks an object up by inode number.
func (s *Store) GetByInode(ino uint64) (StoredObject, bool) {
	idx, ok := s.byIno[ino]
	if !ok {
		return StoredObject{}, false
	}
	return s.objects[idx], true
}

// GetByHash looks an object up by content hash.
func (s *Store) GetByHash(h Hash) (StoredObject, bool) {
	idx, ok := s.byHash[h]
	if !ok {
		return StoredObject{}, false
	}
	return s.objects[idx], true
}

// PathFor returns the canonical pool path for a hash, whether or not an
// object with that hash is currently stored.
func (s *Store) PathFor(h Hash) string {
	return filepath.Join(s.root, h.StoragePath())
}

// Ingest registers the file at path in the pool and returns its content
// hash. Dedup goes inode first, content hash second:
//
//  1. A source whose inode is already tracked is returned as-is, without
//     rehashing.
//  2. A source whose content is already stored under another inode needs
//     no new storage; the caller decides whether to relink it.
//  3. Genuinely new content is hardlinked into the pool at its canonical
//     storage path and registered in both indices.
func (s *Store) Ingest(path string) (Hash, error) {
	ino, err := InodeOf(path)
	if err != nil {
		return "", fmt.Errorf("ingest %s: %w", path, err)
	}
	if obj, ok := s.GetByInode(ino); ok {
		return obj.Hash, nil
	}

	h, err := ComputeHash(path)
	if err != nil {
		return "", fmt.Errorf("ingest %s: %w", path, err)
	}
	if _, ok := s.GetByHash(h); ok {
		return h, nil
	}

	dst := s.PathFor(h)
	if _, err := Link(path, dst); err != nil {
		return "", fmt.Errorf("ingest %s: %w", path, err)
	}
	poolIno, err := InodeOf(dst)
	if err != nil {
		return "", fmt.Errorf("ingest %s: %w", path, err)
	}
	s.register(StoredObject{Path: dst, Hash: h}, poolIno)

	return h, nil
}
