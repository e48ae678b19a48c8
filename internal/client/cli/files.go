package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/client/client"
	"github.com/dmitrijs2005/gophdrive/internal/common"
)

// parseRef takes an optional leading --stored off args. Without it the name
// is a display name.
func parseRef(args []string) (client.FileRef, []string) {
	if len(args) > 0 && args[0] == "--stored" {
		args = args[1:]
		if len(args) == 0 {
			return client.FileRef{Stored: true}, nil
		}
		return client.FileRef{Name: args[0], Stored: true}, args[1:]
	}
	if len(args) == 0 {
		return client.FileRef{}, nil
	}
	return client.FileRef{Name: args[0]}, args[1:]
}

func (a *App) List(ctx context.Context) error {
	files, err := a.client.List(ctx)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		fmt.Fprintln(a.out, "No files")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tUPLOADED\tSTORED AS")
	for _, f := range files {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", f.Filename, f.Size, f.UploadedAt.Local().Format(time.DateTime), f.StoredName)
	}
	return w.Flush()
}

func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: upload <path> [path...]", errUsage)
	}

	res, err := a.client.Upload(ctx, args)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Uploaded %d file(s)\n", res.Count)
	for _, f := range res.Files {
		fmt.Fprintf(a.out, "  %s\n", f)
	}
	return nil
}

// Download saves a file. The destination defaults to the configured
// download directory; an existing directory receives the server's file
// name, any other path is used as the target file.
func (a *App) Download(ctx context.Context, args []string) error {
	ref, rest := parseRef(args)
	if ref.Name == "" || len(rest) > 1 {
		return fmt.Errorf("%w: download [--stored] <name> [destination]", errUsage)
	}

	dest := a.config.DownloadDir
	if len(rest) == 1 {
		dest = rest[0]
	}

	d, err := a.client.Download(ctx, ref)
	if err != nil {
		return err
	}
	defer d.Body.Close()

	target := dest
	if fi, err := os.Stat(dest); err == nil && fi.IsDir() {
		name := filepath.Base(d.Filename)
		if name == "." || name == string(filepath.Separator) {
			name = filepath.Base(ref.Name)
		}
		target = filepath.Join(dest, name)
	}

	n, err := saveFile(target, d.Body)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Saved %s (%d bytes)\n", target, n)
	return nil
}

// saveFile writes r next to target and renames it into place so that an
// interrupted transfer never leaves a truncated file behind.
func saveFile(target string, r io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".gophdrive-*")
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), target)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return 0, err
	}
	return n, nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	ref, rest := parseRef(args)
	if ref.Name == "" || len(rest) != 0 {
		return fmt.Errorf("%w: delete [--stored] <name>", errUsage)
	}

	if err := a.client.Delete(ctx, ref); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("file %q not found", ref.Name)
		}
		return err
	}

	fmt.Fprintf(a.out, "Deleted %s\n", ref.Name)
	return nil
}
