package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/filex"
)

// LocalStore keeps each owner's files under <root>/<ownerID>.
type LocalStore struct {
	root string
}

// NewLocalStore creates root if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	abs, err := filex.EnsureDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorStorage, err)
	}
	return &LocalStore{root: abs}, nil
}

func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) dir(ownerID int64) string {
	return filepath.Join(s.root, strconv.FormatInt(ownerID, 10))
}

func (s *LocalStore) path(ownerID int64, storedName string) (string, error) {
	if err := checkStoredName(storedName); err != nil {
		return "", err
	}
	return filepath.Join(s.dir(ownerID), storedName), nil
}

func (s *LocalStore) Resolve(ctx context.Context, ownerID int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir, err := filex.EnsureDir(s.dir(ownerID))
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrorStorage, err)
	}
	return dir, nil
}

// Save creates the target with O_EXCL so two concurrent uploads of the same
// name can never land on one file; the loser re-allocates.
func (s *LocalStore) Save(ctx context.Context, ownerID int64, safeName string, r io.Reader) (string, error) {
	if err := checkStoredName(safeName); err != nil {
		return "", err
	}
	dir, err := s.Resolve(ctx, ownerID)
	if err != nil {
		return "", err
	}

	n := 0
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		name, idx, err := firstFree(safeName, n, localTaken(dir))
		if err != nil {
			return "", fmt.Errorf("%w: %w", common.ErrorStorage, err)
		}

		full := filepath.Join(dir, name)
		f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
		if errors.Is(err, fs.ErrExist) {
			n = idx + 1
			continue
		}
		if err != nil {
			return "", fmt.Errorf("%w: create %s: %w", common.ErrorStorage, name, err)
		}

		if err := writeAndSync(f, r); err != nil {
			_ = os.Remove(full)
			return "", fmt.Errorf("%w: write %s: %w", common.ErrorStorage, name, err)
		}
		if err := filex.SyncDir(dir); err != nil {
			return "", fmt.Errorf("%w: %w", common.ErrorStorage, err)
		}
		return name, nil
	}

	return "", fmt.Errorf("%w: could not allocate a name for %q", common.ErrorStorage, safeName)
}

func writeAndSync(f *os.File, r io.Reader) error {
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (s *LocalStore) Size(ctx context.Context, ownerID int64, storedName string) (int64, error) {
	p, err := s.path(ownerID, storedName)
	if err != nil {
		return 0, err
	}
	fi, err := os.Stat(p)
	if err != nil {
		return 0, mapFSError(err, storedName)
	}
	return fi.Size(), nil
}

func (s *LocalStore) Exists(ctx context.Context, ownerID int64, storedName string) (bool, error) {
	p, err := s.path(ownerID, storedName)
	if err != nil {
		return false, err
	}
	fi, err := os.Stat(p)
	switch {
	case err == nil:
		return fi.Mode().IsRegular(), nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("%w: stat %s: %w", common.ErrorStorage, storedName, err)
	}
}

func (s *LocalStore) Open(ctx context.Context, ownerID int64, storedName string) (io.ReadCloser, int64, error) {
	p, err := s.path(ownerID, storedName)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, 0, mapFSError(err, storedName)
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, mapFSError(err, storedName)
	}
	if !fi.Mode().IsRegular() {
		_ = f.Close()
		return nil, 0, fmt.Errorf("%w: %s", common.ErrorNotFound, storedName)
	}
	return f, fi.Size(), nil
}

func (s *LocalStore) Remove(ctx context.Context, ownerID int64, storedName string) error {
	p, err := s.path(ownerID, storedName)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		return mapFSError(err, storedName)
	}
	return nil
}

func mapFSError(err error, name string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", common.ErrorNotFound, name)
	}
	return fmt.Errorf("%w: %s: %w", common.ErrorStorage, name, err)
}
