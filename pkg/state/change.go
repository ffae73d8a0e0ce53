package state

import (
	"fmt"
	"os"

	"github.com/odvcencio/hoard/pkg/object"
)

// ChangeKind tags the intended filesystem mutation of a Change.
type ChangeKind int

// Kinds in merge-precedence order: at one path, an Ignore sorts first and
// wins the path, and a Create sorts before the Delete it may pair with.
const (
	Ignore ChangeKind = iota
	Create
	Delete
	Modify
)

func (k ChangeKind) String() string {
	switch k {
	case Ignore:
		return "ignore"
	case Create:
		return "create"
	case Delete:
		return "delete"
	case Modify:
		return "modify"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// Change is one intended mutation at a single path, produced by resolving
// a desired state against the actual state. Old is the object currently at
// the path (Delete, Modify); New is the object that should end up there
// (Create, Modify).
type Change struct {
	Path string
	Kind ChangeKind
	Old  *NamedObject
	New  *NamedObject
}

// Execute applies the change as a filesystem side effect. There is no
// rollback across a batch: changes already executed stay executed when a
// later one fails.
func (c Change) Execute() error {
	switch c.Kind {
	case Ignore:
		return nil
	case Delete:
		if err := os.Remove(c.Path); err != nil {
			return fmt.Errorf("delete %s: %w", c.Path, err)
		}
		return nil
	case Create, Modify:
		// Link handles both the fresh hardlink and the redirect of an
		// existing path to different content.
		if _, err := object.Link(c.New.Path, c.Path); err != nil {
			return fmt.Errorf("%s %s: %w", c.Kind, c.Path, err)
		}
		return nil
	default:
		return fmt.Errorf("execute %s: unknown change kind %d", c.Path, int(c.Kind))
	}
}

func (c Change) String() string {
	switch c.Kind {
	case Modify:
		return fmt.Sprintf("modify: %s (%s -> %s)", c.Path, c.Old.Hash.Short(), c.New.Hash.Short())
	default:
		return fmt.Sprintf("%s: %s", c.Kind, c.Path)
	}
}
