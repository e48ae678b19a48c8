package netx

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// MultipartFiles streams the named local files as a multipart/form-data body,
// each under the form field `field`. It returns the body and the matching
// Content-Type header. Read errors surface from the returned reader.
func MultipartFiles(field string, paths []string) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeFiles(mw, field, paths)
		if err == nil {
			err = mw.Close()
		}
		_ = pw.CloseWithError(err)
	}()

	return pr, mw.FormDataContentType()
}

func writeFiles(mw *multipart.Writer, field string, paths []string) error {
	for _, p := range paths {
		if err := writeFile(mw, field, p); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(mw *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	part, err := mw.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copy %s: %w", path, err)
	}
	return nil
}
