package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/client/client"
	"github.com/dmitrijs2005/gophdrive/internal/client/config"
	"github.com/dmitrijs2005/gophdrive/internal/client/models"
)

type fakeClient struct {
	pingErr error

	regUser string
	regPass []byte
	regErr  error

	loginUser string
	loginPass []byte
	loginErr  error

	logoutCalled bool
	logoutErr    error

	listOut []models.File
	listErr error

	uploadPaths []string
	uploadOut   *models.UploadResult
	uploadErr   error

	downloadRef client.FileRef
	downloadOut *client.Download
	downloadErr error

	deleteRef client.FileRef
	deleteErr error
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Ping(context.Context) error { return f.pingErr }

func (f *fakeClient) Register(_ context.Context, user string, pass []byte) error {
	f.regUser, f.regPass = user, append([]byte(nil), pass...)
	return f.regErr
}

func (f *fakeClient) Login(_ context.Context, user string, pass []byte) error {
	f.loginUser, f.loginPass = user, append([]byte(nil), pass...)
	return f.loginErr
}

func (f *fakeClient) Logout(context.Context) error {
	f.logoutCalled = true
	return f.logoutErr
}

func (f *fakeClient) List(context.Context) ([]models.File, error) { return f.listOut, f.listErr }

func (f *fakeClient) Upload(_ context.Context, paths []string) (*models.UploadResult, error) {
	f.uploadPaths = paths
	return f.uploadOut, f.uploadErr
}

func (f *fakeClient) Download(_ context.Context, ref client.FileRef) (*client.Download, error) {
	f.downloadRef = ref
	return f.downloadOut, f.downloadErr
}

func (f *fakeClient) Delete(_ context.Context, ref client.FileRef) error {
	f.deleteRef = ref
	return f.deleteErr
}

func newTestApp(fc *fakeClient) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{
		config: &config.Config{ServerURL: "http://127.0.0.1:8080", Timeout: time.Second, DownloadDir: "."},
		client: fc,
		reader: bufio.NewReader(strings.NewReader("")),
		out:    &out,
	}, &out
}

func stubInputs(t *testing.T, username string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return username, nil }
	getPassword = func(_ io.Writer, _ string) ([]byte, error) { return append([]byte(nil), password...), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, len(a))
		for i, v := range a {
			parts[i] = fmtAny(v)
		}
		lines = append(lines, strings.Join(parts, " "))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func fmtAny(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case error:
		return x.Error()
	default:
		return ""
	}
}
