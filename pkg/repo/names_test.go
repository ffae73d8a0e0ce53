package repo

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLookup_ByNameHashAndPath(t *testing.T) {
	r := initRepo(t)
	file := path(r, "report.pdf")
	writeFile(t, file, "pdf bytes")
	results := mustAdd(t, r, file)
	hash := results[0].Hash

	byName, err := r.Lookup("report.pdf")
	if err != nil {
		t.Fatalf("Lookup by name: %v", err)
	}
	byHash, err := r.Lookup(string(hash))
	if err != nil {
		t.Fatalf("Lookup by hash: %v", err)
	}
	byPath, err := r.Lookup(file)
	if err != nil {
		t.Fatalf("Lookup by path: %v", err)
	}

	for _, info := range []*Info{byName, byHash, byPath} {
		if info.Name != "report.pdf" || info.Hash != hash {
			t.Errorf("info = %+v, want report.pdf/%s", info, hash.Short())
		}
	}
	if !reflect.DeepEqual(byName.Paths, []string{file}) {
		t.Errorf("Paths = %v, want [%s]", byName.Paths, file)
	}
}

func TestLookup_Unknown(t *testing.T) {
	r := initRepo(t)
	_, err := r.Lookup("never-heard-of-it")
	if !errors.Is(err, ErrNoSuchObject) {
		t.Fatalf("Lookup = %v, want ErrNoSuchObject", err)
	}
}

func TestRename(t *testing.T) {
	r := initRepo(t)
	file := path(r, "old-name")
	writeFile(t, file, "content")
	mustAdd(t, r, file)

	if err := r.Rename("old-name", "new-name"); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	if _, err := r.Lookup("new-name"); err != nil {
		t.Errorf("Lookup(new-name): %v", err)
	}
	if _, err := r.Lookup("old-name"); !errors.Is(err, ErrNoSuchObject) {
		t.Errorf("Lookup(old-name) = %v, want ErrNoSuchObject", err)
	}
}

func TestRename_TargetTaken(t *testing.T) {
	r := initRepo(t)
	a := path(r, "a")
	b := path(r, "b")
	writeFile(t, a, "content a")
	writeFile(t, b, "content b")
	mustAdd(t, r, a, b)

	if err := r.Rename("a", "b"); !errors.Is(err, ErrNameTaken) {
		t.Fatalf("Rename = %v, want ErrNameTaken", err)
	}
}

func TestRemove(t *testing.T) {
	r := initRepo(t)
	file := path(r, "doomed")
	writeFile(t, file, "content")
	results := mustAdd(t, r, file)

	if err := r.Remove("doomed"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := r.Lookup("doomed"); !errors.Is(err, ErrNoSuchObject) {
		t.Errorf("Lookup after remove = %v, want ErrNoSuchObject", err)
	}

	// The content itself stays in the pool.
	if _, ok := r.Store.GetByHash(results[0].Hash); !ok {
		t.Error("stored object vanished with its name binding")
	}

	if err := r.Remove("doomed"); !errors.Is(err, ErrNoSuchObject) {
		t.Errorf("second Remove = %v, want ErrNoSuchObject", err)
	}
}

func path(r *Repository, name string) string {
	return filepath.Join(r.Root, name)
}
