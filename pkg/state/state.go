package state

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/odvcencio/hoard/pkg/object"
)

// State is a snapshot of a directory tree projected through the name
// index: each object name maps to the sorted set of paths holding (or
// meant to hold) that object's content, and Extra collects paths that
// resolve to no known object. Desired and actual states share this shape
// so they can be diffed.
type State struct {
	Objects map[string][]string
	Extra   []string
}

// NewState returns an empty state.
func NewState() *State {
	return &State{Objects: make(map[string][]string)}
}

// AmbiguousManifestError reports manifest paths claimed by more than one
// name. Conflicts maps each multiply-claimed path to its sorted claimants.
type AmbiguousManifestError struct {
	Conflicts map[string][]string
}

func (e *AmbiguousManifestError) Error() string {
	paths := make([]string, 0, len(e.Conflicts))
	for p := range e.Conflicts {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var b strings.Builder
	b.WriteString("ambiguous manifest:")
	for _, p := range paths {
		fmt.Fprintf(&b, "\n  %s claimed by %s", p, strings.Join(e.Conflicts[p], ", "))
	}
	return b.String()
}

// StateFromManifest builds the desired state from a manifest file: a
// mapping from object name to the paths where that object should be
// materialized. JSON is the native format; a .yaml/.yml manifest decodes
// the same shape. Relative paths are taken relative to root.
//
// Names not present in known are dropped with a warning. After filtering,
// no single path may be claimed by more than one name.
func StateFromManifest(path, root string, known map[string]bool) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}

	manifest := make(map[string][]string)
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &manifest); err != nil {
			return nil, fmt.Errorf("manifest %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &manifest); err != nil {
			return nil, fmt.Errorf("manifest %s: %w", path, err)
		}
	}

	st := NewState()
	for name, paths := range manifest {
		if !known[name] {
			slog.Warn("manifest names an unknown object", "name", name)
			continue
		}
		resolved := make([]string, 0, len(paths))
		for _, p := range paths {
			if !filepath.IsAbs(p) {
				p = filepath.Join(root, p)
			}
			resolved = append(resolved, filepath.Clean(p))
		}
		st.Objects[name] = sortedUnique(resolved)
	}

	claims := make(map[string][]string)
	for name, paths := range st.Objects {
		for _, p := range paths {
			claims[p] = append(claims[p], name)
		}
	}
	conflicts := make(map[string][]string)
	for p, names := range claims {
		if len(names) > 1 {
			sort.Strings(names)
			conflicts[p] = names
		}
	}
	if len(conflicts) > 0 {
		return nil, &AmbiguousManifestError{Conflicts: conflicts}
	}

	return st, nil
}

// StateFromFilesystem builds the actual state by walking every regular
// file under root and resolving each through the index's by-inode view.
// Files whose inode is unknown to the index land in Extra. The subtree at
// skipDir (the repository's marker directory) is excluded from the walk.
func StateFromFilesystem(root, skipDir string, index *Index) (*State, error) {
	byIno := index.ByInode()
	st := NewState()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if skipDir != "" && path == skipDir {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		ino, err := object.InodeOf(path)
		if err != nil {
			return err
		}
		if obj, ok := byIno[ino]; ok {
			st.Objects[obj.Name] = append(st.Objects[obj.Name], path)
		} else {
			st.Extra = append(st.Extra, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	for name, paths := range st.Objects {
		st.Objects[name] = sortedUnique(paths)
	}
	sort.Strings(st.Extra)
	return st, nil
}

// Paths returns the union of all object paths in the state.
func (s *State) Paths() map[string]bool {
	out := make(map[string]bool)
	for _, paths := range s.Objects {
		for _, p := range paths {
			out[p] = true
		}
	}
	return out
}

func sortedUnique(paths []string) []string {
	sort.Strings(paths)
	out := paths[:0]
	var prev string
	for i, p := range paths {
		if i == 0 || p != prev {
			out = append(out, p)
		}
		prev = p
	}
	return out
}
