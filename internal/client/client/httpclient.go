package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/client/models"
	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/netx"
	"github.com/dmitrijs2005/gophdrive/internal/server/api/apierrors"
)

// HTTPClient is the Client implementation over the server's HTTP API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	// timeout bounds calls that exchange small JSON bodies; transfers are
	// bounded only by the caller's context.
	timeout time.Duration
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(serverURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(serverURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", serverURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{Jar: jar},
		timeout: timeout,
	}, nil
}

func (c *HTTPClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// send performs req and turns transport failures and error envelopes into
// errors. On success the caller owns resp.Body.
func (c *HTTPClient) send(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body apierrors.Body
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body); err == nil {
		apiErr.Code = body.Error.Code
		apiErr.Message = body.Error.Message
	}
	if apiErr.Code == "" && resp.StatusCode == http.StatusUnauthorized {
		apiErr.Code = apierrors.CodeUnauthorized
	}
	if apiErr.Code == "" && resp.StatusCode == http.StatusNotFound {
		apiErr.Code = apierrors.CodeNotFound
	}
	return apiErr
}

// call runs a short request and decodes a JSON response into out when out
// is not nil.
func (c *HTTPClient) call(ctx context.Context, method, path string, form url.Values, out any) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.call(ctx, http.MethodGet, "/ping", nil, nil)
}

func (c *HTTPClient) Register(ctx context.Context, username string, password []byte) error {
	form := url.Values{"username": {username}, "password": {string(password)}}
	return c.call(ctx, http.MethodPost, "/register", form, nil)
}

// Login stores the session cookie in the client's jar.
func (c *HTTPClient) Login(ctx context.Context, username string, password []byte) error {
	form := url.Values{"username": {username}, "password": {string(password)}}
	return c.call(ctx, http.MethodPost, "/login", form, nil)
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/logout", nil, nil)
}

func (c *HTTPClient) List(ctx context.Context) ([]models.File, error) {
	var files []models.File
	if err := c.call(ctx, http.MethodGet, "/files", nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// Upload streams the local files in one multipart request.
func (c *HTTPClient) Upload(ctx context.Context, paths []string) (*models.UploadResult, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no files given", common.ErrorValidation)
	}
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !fi.Mode().IsRegular() {
			return nil, fmt.Errorf("%w: %s is not a regular file", common.ErrorValidation, p)
		}
	}

	body, contentType := netx.MultipartFiles(common.FilesFormField, paths)
	defer body.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var res models.UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &res, nil
}

func refPath(op string, ref FileRef) string {
	if ref.Stored {
		return "/" + op + "?stored=" + url.QueryEscape(ref.Name)
	}
	return "/" + op + "/" + url.PathEscape(ref.Name)
}

// Download opens the referenced file.
func (c *HTTPClient) Download(ctx context.Context, ref FileRef) (*Download, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+refPath("download", ref), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(req)
	if err != nil {
		return nil, err
	}

	filename := ref.Name
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		filename = params["filename"]
	}
	return &Download{Filename: filename, Size: resp.ContentLength, Body: resp.Body}, nil
}

func (c *HTTPClient) Delete(ctx context.Context, ref FileRef) error {
	return c.call(ctx, http.MethodDelete, refPath("delete", ref), nil, nil)
}
