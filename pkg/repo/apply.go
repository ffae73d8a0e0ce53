package repo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/odvcencio/hoard/pkg/object"
	"github.com/odvcencio/hoard/pkg/state"
)

// Action describes one filesystem effect performed by Apply, for
// reporting. Verb is one of "create", "delete", "modify".
type Action struct {
	Verb string
	Path string
}

func (a Action) String() string {
	return fmt.Sprintf("%s: %s", a.Verb, a.Path)
}

// Apply converges the working tree on the manifest: it resolves the
// desired state against the actual one and executes the resulting changes
// in order, then sweeps the tree for redundant hardlink copies and empty
// directories. Changes already executed stay executed if a later step
// fails; there is no transaction around the batch.
func (r *Repository) Apply() ([]Action, error) {
	index, err := r.LoadIndex()
	if err != nil {
		return nil, err
	}

	changes, desired, err := r.plan(index)
	if err != nil {
		return nil, err
	}

	var actions []Action
	for _, c := range changes {
		if err := c.Execute(); err != nil {
			return actions, err
		}
		if c.Kind == state.Ignore {
			continue
		}
		actions = append(actions, Action{Verb: c.Kind.String(), Path: c.Path})
	}

	swept, err := r.sweep(desired)
	actions = append(actions, swept...)
	return actions, err
}

// plan builds the desired and actual states and resolves them. Without a
// manifest the desired state is empty and the reconciler has nothing to
// converge; the sweep still runs.
func (r *Repository) plan(index *state.Index) ([]state.Change, *state.State, error) {
	known := make(map[string]bool, index.Len())
	for _, name := range index.Names() {
		known[name] = true
	}

	desired := state.NewState()
	manifest, err := r.ManifestPath()
	if err != nil {
		return nil, nil, err
	}
	if _, err := os.Stat(manifest); err == nil {
		desired, err = state.StateFromManifest(manifest, r.Root, known)
		if err != nil {
			return nil, nil, err
		}
	}

	actual, err := state.StateFromFilesystem(r.Root, r.HoardDir, index)
	if err != nil {
		return nil, nil, err
	}

	return state.Resolve(desired, actual, index), desired, nil
}

// sweep removes redundant duplicate copies and then empty directories.
// A path is redundant when its inode was already seen during the sweep and
// the desired state does not claim the path; paths the desired state does
// claim count as the canonical occurrence regardless of walk order.
func (r *Repository) sweep(desired *state.State) ([]Action, error) {
	keep := desired.Paths()

	var files, dirs []string
	err := filepath.WalkDir(r.Root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == r.Root {
			return nil
		}
		if d.IsDir() {
			if path == r.HoardDir {
				return fs.SkipDir
			}
			dirs = append(dirs, path)
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sweep %s: %w", r.Root, err)
	}

	seen := make(map[uint64]bool)
	for _, path := range files {
		if !keep[path] {
			continue
		}
		ino, err := object.InodeOf(path)
		if err != nil {
			return nil, err
		}
		seen[ino] = true
	}

	var actions []Action
	for _, path := range files {
		if keep[path] {
			continue
		}
		ino, err := object.InodeOf(path)
		if err != nil {
			return actions, err
		}
		if seen[ino] {
			if err := os.Remove(path); err != nil {
				return actions, fmt.Errorf("sweep %s: %w", path, err)
			}
			actions = append(actions, Action{Verb: "delete", Path: path})
			continue
		}
		seen[ino] = true
	}

	// Empty directories go deepest-first so a cleaned child empties its
	// parent before the parent is considered.
	for i := len(dirs) - 1; i >= 0; i-- {
		if !isEmptyDir(dirs[i]) {
			continue
		}
		if err := os.Remove(dirs[i]); err != nil {
			return actions, fmt.Errorf("sweep %s: %w", dirs[i], err)
		}
		actions = append(actions, Action{Verb: "delete", Path: dirs[i] + string(filepath.Separator)})
	}

	return actions, nil
}

func isEmptyDir(path string) bool {
	entries, err := os.ReadDir(path)
	return err == nil && len(entries) == 0
}
