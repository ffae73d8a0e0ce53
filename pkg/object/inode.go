package object

import (
	"fmt"
	"os"
	"syscall"
)

// InodeOf returns the inode number of the file at path. All hardlinks to
// the same underlying storage share one inode, which is how the store
// recognizes files it already tracks without rehashing them.
func InodeOf(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, fmt.Errorf("stat %s: no inode information", path)
	}
	return st.Ino, nil
}
