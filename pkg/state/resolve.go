package state

import "sort"

// Resolve diffs the desired state against the actual state and returns the
// ordered list of changes that converges the actual layout on the desired
// one. Only names known to both states and to the index participate; each
// desired path emits a Create, each actual path a Delete, and each extra
// path an Ignore. Same-path pairs are then merged:
//
//   - a Create and Delete of the same object cancel exactly (the path
//     already agrees, no change at all);
//   - a Create and Delete of different objects collapse into a Modify
//     whose Old is the path's prior content and whose New is the desired
//     content;
//   - an Ignore wins its path outright (untracked content is left alone).
//
// The state builders guarantee at most one Create and one Delete land on
// any single path, so merging only ever has to look one change back.
func Resolve(desired, actual *State, index *Index) []Change {
	byName := index.ByName()
	shared := make(map[string]*NamedObject)
	for name := range desired.Objects {
		if _, ok := actual.Objects[name]; !ok {
			continue
		}
		if obj, ok := byName[name]; ok {
			shared[name] = obj
		}
	}

	var changes []Change
	for name, obj := range shared {
		for _, p := range desired.Objects[name] {
			changes = append(changes, Change{Path: p, Kind: Create, New: obj})
		}
		for _, p := range actual.Objects[name] {
			changes = append(changes, Change{Path: p, Kind: Delete, Old: obj})
		}
	}
	for _, p := range actual.Extra {
		changes = append(changes, Change{Path: p, Kind: Ignore})
	}

	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Path != changes[j].Path {
			return changes[i].Path < changes[j].Path
		}
		return changes[i].Kind < changes[j].Kind
	})

	merged := make([]Change, 0, len(changes))
	for _, cur := range changes {
		if len(merged) == 0 || merged[len(merged)-1].Path != cur.Path {
			merged = append(merged, cur)
			continue
		}
		prev := merged[len(merged)-1]
		merged = merged[:len(merged)-1]
		switch {
		case prev.Kind == Ignore:
			merged = append(merged, prev)
		// Object identity is pointer identity: shared holds exactly one
		// NamedObject per name.
		case prev.Kind == Create && cur.Kind == Delete && prev.New != cur.Old:
			merged = append(merged, Change{
				Path: prev.Path,
				Kind: Modify,
				Old:  cur.Old,
				New:  prev.New,
			})
		default:
			// Create/Delete of the same object: cancel to nothing.
		}
	}
	return merged
}
