package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/server/api/apierrors"
	"github.com/dmitrijs2005/gophdrive/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// multipartMemory is how much of an upload is buffered in memory before
// parts spill to temporary files.
const multipartMemory = 32 << 20

type messageResponse struct {
	Message string `json:"message"`
}

type registerResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type loginResponse struct {
	Message   string    `json:"message"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FileInfo is one entry of the file listing.
type FileInfo struct {
	Filename   string    `json:"filename"`
	StoredName string    `json:"stored_name"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type uploadResponse struct {
	Message string   `json:"message"`
	Count   int      `json:"count"`
	Files   []string `json:"files"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error onto the error envelope.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		apierrors.ValidationError(w, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		apierrors.AlreadyExists(w, err.Error())
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		apierrors.Unauthorized(w, "invalid username or password")
	case errors.Is(err, common.ErrorNotFound):
		apierrors.NotFound(w, "file not found")
	case errors.Is(err, common.ErrorStorage):
		s.logger.Error(r.Context(), "storage failure", "path", r.URL.Path, "error", err)
		apierrors.StorageError(w, "storage failure, try again later")
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		apierrors.InternalError(w, "internal error")
	}
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		apierrors.ValidationError(w, "malformed form")
		return
	}

	u, err := s.users.Register(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{Message: "registration successful", ID: u.ID})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		apierrors.ValidationError(w, "malformed form")
		return
	}

	sess, err := s.users.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, loginResponse{Message: "logged in", Username: sess.Username, ExpiresAt: sess.ExpiresAt})
}

// handleLogout only clears the cookie; tokens are not tracked server side.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, messageResponse{Message: "logged out"})
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := UserIDFromContext(r.Context())

	files, err := s.files.List(r.Context(), ownerID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := make([]FileInfo, 0, len(files))
	for _, f := range files {
		resp = append(resp, FileInfo{
			Filename:   f.DisplayName(),
			StoredName: f.StoredName,
			Size:       f.Size,
			UploadedAt: f.UploadedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := UserIDFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.ValidationError(w, fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		apierrors.ValidationError(w, "expected a multipart form with files")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File[common.FilesFormField]
	if len(headers) == 0 {
		apierrors.ValidationError(w, "no file selected")
		return
	}

	uploads := make([]services.UploadFile, 0, len(headers))
	for _, fh := range headers {
		uploads = append(uploads, services.UploadFile{
			Name: fh.Filename,
			Open: openPart(fh),
		})
	}

	res, err := s.files.Upload(r.Context(), ownerID, uploads)
	if err != nil {
		if res != nil && res.Count > 0 && errors.Is(err, common.ErrorStorage) {
			s.logger.Error(r.Context(), "storage failure", "path", r.URL.Path, "stored", res.Files, "error", err)
			apierrors.StorageError(w, fmt.Sprintf("storage failure after %d file(s) were stored: %s",
				res.Count, strings.Join(res.Files, ", ")))
			return
		}
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Message: fmt.Sprintf("%d file(s) uploaded", res.Count),
		Count:   res.Count,
		Files:   res.Files,
	})
}

func openPart(fh *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) { return fh.Open() }
}

// fileRef reads the file a request addresses: the wildcard segment is a
// display name, unescaped when the request path carried escapes chi matched
// against; "?stored=<name>" on the bare route selects an exact stored name.
func fileRef(r *http.Request) (services.FileRef, error) {
	name := chi.URLParam(r, "*")
	if r.URL.Query().Has("stored") {
		if name != "" {
			return services.FileRef{}, errors.New("either a display name or ?stored=, not both")
		}
		return services.ByStoredName(r.URL.Query().Get("stored")), nil
	}
	if r.URL.RawPath != "" {
		var err error
		if name, err = url.PathUnescape(name); err != nil {
			return services.FileRef{}, errors.New("malformed file name")
		}
	}
	return services.ByName(name), nil
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := UserIDFromContext(r.Context())

	ref, err := fileRef(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	d, err := s.files.Download(r.Context(), ownerID, ref)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer d.Body.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": d.Name})
	if disposition == "" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.FormatInt(d.Size, 10))
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, d.Body); err != nil {
		s.logger.Warn(r.Context(), "download interrupted", "owner_id", ownerID, "name", ref.Name, "error", err)
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ownerID, _ := UserIDFromContext(r.Context())

	ref, err := fileRef(r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	if err := s.files.Delete(r.Context(), ownerID, ref); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: fmt.Sprintf("%s deleted", ref.Name)})
}
