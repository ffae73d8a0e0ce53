package repo

import "github.com/odvcencio/hoard/pkg/state"

// Status returns the ordered changes Apply would execute, without touching
// the filesystem. Ignore changes are included so callers can report
// untracked content.
func (r *Repository) Status() ([]state.Change, error) {
	index, err := r.LoadIndex()
	if err != nil {
		return nil, err
	}
	changes, _, err := r.plan(index)
	return changes, err
}
