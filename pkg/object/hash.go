package object

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Hash is a 64-character lowercase hex-encoded SHA-256 digest of a file's
// content. The zero value is not a valid hash; construct one with
// ComputeHash or ParseHash.
type Hash string

// ErrInvalidHash indicates a string that does not spell a content hash.
var ErrInvalidHash = errors.New("not a valid content hash")

const hashHexLen = 64

// ComputeHash streams the file at path through SHA-256 and returns the
// digest of its full content.
func ComputeHash(path string) (Hash, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return Hash(hex.EncodeToString(h.Sum(nil))), nil
}

// ParseHash validates an untrusted string as a content hash: exactly 64
// characters, all lowercase hex.
func ParseHash(s string) (Hash, error) {
	if len(s) != hashHexLen {
		return "", fmt.Errorf("parse hash %q: %w", s, ErrInvalidHash)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", fmt.Errorf("parse hash %q: %w", s, ErrInvalidHash)
		}
	}
	return Hash(s), nil
}

// HashFromPathOrContent derives a hash from a path inside the store's
// two-level layout: the last two path segments, concatenated, are tried as
// a hash literal first ("ab/cdef..." spells "abcdef..."). Paths that do not
// spell a hash fall back to hashing the file's content. This lets the store
// recognize its own files without rereading them.
func HashFromPathOrContent(path string) (Hash, error) {
	dir, name := filepath.Split(filepath.Clean(path))
	prefix := filepath.Base(filepath.Clean(dir))
	if h, err := ParseHash(prefix + name); err == nil {
		return h, nil
	}
	return ComputeHash(path)
}

// StoragePath returns the hash's canonical location relative to the store
// root: the first two characters as a directory, the remainder as the
// filename. The split bounds directory fan-out.
func (h Hash) StoragePath() string {
	return filepath.Join(string(h[:2]), string(h[2:]))
}

// Short returns an abbreviated form for display.
func (h Hash) Short() string {
	if len(h) < 8 {
		return string(h)
	}
	return string(h[:8])
}

func (h Hash) String() string { return string(h) }
