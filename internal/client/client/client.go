package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
)

// Download is an open response body. The caller closes Body.
type Download struct {
	// Filename is the display name the server suggested.
	Filename string
	Size     int64
	Body     io.ReadCloser
}

// FileRef names a file on the server. A plain Name is a display name and
// resolves to the most recent upload under it; with Stored set, Name is the
// exact stored name shown by List.
type FileRef struct {
	Name   string
	Stored bool
}

type Client interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, username string, password []byte) error
	Login(ctx context.Context, username string, password []byte) error
	Logout(ctx context.Context) error
	List(ctx context.Context) ([]models.File, error)
	Upload(ctx context.Context, paths []string) (*models.UploadResult, error)
	Download(ctx context.Context, ref FileRef) (*Download, error)
	Delete(ctx context.Context, ref FileRef) error
}
