// Package storage implements the per-user storage namespace: where an
// owner's bytes live, how upload names are made safe and how collisions
// are resolved.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophdrive/internal/common"
)

const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// maxCreateAttempts bounds how often Save re-runs allocation after losing an
// exclusive-create race.
const maxCreateAttempts = 16

// Store is one storage backend. Every method is scoped to ownerID; a stored
// name is only meaningful inside that owner's namespace.
type Store interface {
	// Resolve returns the owner's namespace location, creating it if absent.
	Resolve(ctx context.Context, ownerID int64) (string, error)
	// Save writes r under a collision-free variant of safeName and returns the
	// name actually used. An existing object is never overwritten.
	Save(ctx context.Context, ownerID int64, safeName string, r io.Reader) (string, error)
	// Size re-reads the stored object's length. Missing objects yield common.ErrorNotFound.
	Size(ctx context.Context, ownerID int64, storedName string) (int64, error)
	// Exists distinguishes "absent" (false, nil) from an inconclusive check (err != nil).
	Exists(ctx context.Context, ownerID int64, storedName string) (bool, error)
	// Open streams the object. The caller closes the reader.
	Open(ctx context.Context, ownerID int64, storedName string) (io.ReadCloser, int64, error)
	// Remove deletes the object; a missing object yields common.ErrorNotFound.
	Remove(ctx context.Context, ownerID int64, storedName string) error
}

// checkStoredName rejects names that could escape the namespace.
func checkStoredName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: invalid stored name %q", common.ErrorValidation, name)
	}
	return nil
}
