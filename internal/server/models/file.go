// Package models defines server-side data models persisted in the database.
package models

import "time"

// File is the metadata row mirroring one stored object in an owner's namespace.
type File struct {
	ID int64
	// OwnerID is the user the bytes belong to; it also selects the namespace.
	OwnerID int64
	// StoredName is the collision-free name inside the namespace.
	StoredName string
	// OriginalName is the display name the user uploaded under. Not unique.
	OriginalName string
	Size         int64
	UploadedAt   time.Time
}

// DisplayName returns the name shown to the user, falling back to the
// stored name for rows without an original name.
func (f *File) DisplayName() string {
	if f.OriginalName != "" {
		return f.OriginalName
	}
	return f.StoredName
}
