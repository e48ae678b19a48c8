// Package models defines the client-side views of server responses.
package models

import "time"

// File is one row of the remote file listing.
type File struct {
	Filename   string    `json:"filename"`
	StoredName string    `json:"stored_name"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// UploadResult reports the stored names the server chose.
type UploadResult struct {
	Message string   `json:"message"`
	Count   int      `json:"count"`
	Files   []string `json:"files"`
}
