package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// nextName returns the n-th candidate for safe: n == 0 is safe itself,
// then "base (1).ext", "base (2).ext" and so on.
func nextName(safe string, n int) string {
	if n == 0 {
		return safe
	}
	ext := filepath.Ext(safe)
	base := strings.TrimSuffix(safe, ext)
	suffix := fmt.Sprintf(" (%d)", n)
	over := len(base) + len(suffix) + len(ext) - MaxNameBytes
	switch {
	case over <= 0:
		return base + suffix + ext
	case over <= len(base):
		return cutRunes(base, len(base)-over) + suffix + ext
	default:
		// the extension alone leaves no room for the suffix
		return cutRunes(safe, MaxNameBytes-len(suffix)) + suffix
	}
}

// firstFree walks candidates starting at index n and returns the first one
// taken reports as free, along with its index.
func firstFree(safe string, n int, taken func(name string) (bool, error)) (string, int, error) {
	for ; ; n++ {
		name := nextName(safe, n)
		used, err := taken(name)
		if err != nil {
			return "", 0, err
		}
		if !used {
			return name, n, nil
		}
	}
}

// AllocateUniqueName returns the first variant of safe that does not exist
// in dir. The result is deterministic for a given directory listing.
func AllocateUniqueName(dir, safe string) (string, error) {
	name, _, err := firstFree(safe, 0, localTaken(dir))
	return name, err
}

func localTaken(dir string) func(string) (bool, error) {
	return func(name string) (bool, error) {
		_, err := os.Lstat(filepath.Join(dir, name))
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, fs.ErrNotExist):
			return false, nil
		default:
			return false, err
		}
	}
}
