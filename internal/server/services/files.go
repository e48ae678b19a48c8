package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
	"github.com/dmitrijs2005/gophdrive/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophdrive/internal/server/storage"
)

// UploadFile is one submitted part: the name the client claimed and a way
// to read its bytes.
type UploadFile struct {
	Name string
	Open func() (io.ReadCloser, error)
}

type UploadResult struct {
	Count int
	// Files holds the stored names, in submission order.
	Files []string
}

// Download is an open stored file. The caller closes Body.
type Download struct {
	Name string
	Size int64
	Body io.ReadCloser
}

// FileService orders storage and metadata operations: bytes are written
// before a row is inserted, and removed before a row is deleted.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.Store
	reconciler  *Reconciler
	logger      logging.Logger
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, store storage.Store, logger logging.Logger) *FileService {
	return &FileService{
		db:          db,
		repomanager: m,
		store:       store,
		reconciler:  NewReconciler(db, m, store, logger),
		logger:      logger.With("module", "files"),
	}
}

// Upload stores every named part. Parts with an empty name are skipped; if
// none is left the request is invalid. Names are all sanitized before the
// first byte is written so one bad name rejects the whole batch. When a
// later part fails, the parts already committed stay stored and recorded;
// they are reported in the returned result alongside the error.
func (s *FileService) Upload(ctx context.Context, ownerID int64, files []UploadFile) (res *UploadResult, err error) {
	defer func() { fileOperationsTotal.WithLabelValues("upload", result(err)).Inc() }()

	type pending struct {
		UploadFile
		safe string
	}

	var batch []pending
	for _, f := range files {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			continue
		}
		safe, err := storage.SanitizeName(name)
		if err != nil {
			return nil, err
		}
		batch = append(batch, pending{UploadFile: UploadFile{Name: name, Open: f.Open}, safe: safe})
	}
	if len(batch) == 0 {
		return nil, fmt.Errorf("%w: no file selected", common.ErrorValidation)
	}

	if _, err := s.store.Resolve(ctx, ownerID); err != nil {
		return nil, err
	}

	res = &UploadResult{Files: make([]string, 0, len(batch))}
	for _, p := range batch {
		stored, err := s.uploadOne(ctx, ownerID, p.Name, p.safe, p.Open)
		if err != nil {
			if res.Count > 0 {
				s.logger.Warn(ctx, "upload batch stopped after partial success",
					"owner_id", ownerID, "committed", res.Count, "submitted", len(batch), "stored", res.Files)
			}
			return res, err
		}
		res.Files = append(res.Files, stored)
		res.Count = len(res.Files)
	}
	return res, nil
}

func (s *FileService) uploadOne(ctx context.Context, ownerID int64, original, safe string, open func() (io.ReadCloser, error)) (string, error) {
	body, err := open()
	if err != nil {
		return "", fmt.Errorf("%w: read upload %q: %w", common.ErrorValidation, original, err)
	}
	stored, err := s.store.Save(ctx, ownerID, safe, body)
	_ = body.Close()
	if err != nil {
		s.logger.Error(ctx, "saving file failed", "owner_id", ownerID, "name", safe, "error", err)
		return "", err
	}

	size, err := s.store.Size(ctx, ownerID, stored)
	if err != nil {
		s.logger.Error(ctx, "saved file failed verification", "owner_id", ownerID, "stored_name", stored, "error", err)
		return "", fmt.Errorf("%w: verify %s: %w", common.ErrorStorage, stored, err)
	}

	file := &models.File{OwnerID: ownerID, StoredName: stored, OriginalName: original, Size: size}
	if _, err := s.repomanager.Files(s.db).Insert(ctx, file); err != nil {
		if rmErr := s.store.Remove(ctx, ownerID, stored); rmErr != nil {
			s.logger.Error(ctx, "removing unrecorded file failed", "owner_id", ownerID, "stored_name", stored, "error", rmErr)
		}
		return "", fmt.Errorf("%w: record %s: %w", common.ErrorStorage, stored, err)
	}

	uploadedBytesTotal.Add(float64(size))
	s.logger.Info(ctx, "file uploaded", "owner_id", ownerID, "file_id", file.ID, "stored_name", stored, "size", size)
	return stored, nil
}

// List returns the owner's files after reconciling them against storage.
func (s *FileService) List(ctx context.Context, ownerID int64) (files []*models.File, err error) {
	defer func() { fileOperationsTotal.WithLabelValues("list", result(err)).Inc() }()
	return s.reconciler.Reconcile(ctx, ownerID)
}

// FileRef addresses a file of one owner. By default Name is a display name
// and resolves to the most recent upload carrying it; with Stored set it is
// the exact stored name, which is unique per owner.
type FileRef struct {
	Name   string
	Stored bool
}

func ByName(name string) FileRef { return FileRef{Name: name} }

func ByStoredName(name string) FileRef { return FileRef{Name: name, Stored: true} }

func (s *FileService) lookup(ctx context.Context, ownerID int64, ref FileRef) (*models.File, error) {
	if ref.Name == "" {
		return nil, fmt.Errorf("%w: file name is required", common.ErrorNotFound)
	}
	repo := s.repomanager.Files(s.db)
	if ref.Stored {
		return repo.FindByOwnerAndStoredName(ctx, ownerID, ref.Name)
	}
	return repo.FindByOwnerAndOriginalName(ctx, ownerID, ref.Name)
}

// Download opens the file for streaming. Missing rows and missing bytes
// both report common.ErrorNotFound.
func (s *FileService) Download(ctx context.Context, ownerID int64, ref FileRef) (d *Download, err error) {
	defer func() { fileOperationsTotal.WithLabelValues("download", result(err)).Inc() }()

	f, err := s.lookup(ctx, ownerID, ref)
	if err != nil {
		return nil, err
	}

	body, size, err := s.store.Open(ctx, ownerID, f.StoredName)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "download of missing file", "owner_id", ownerID, "stored_name", f.StoredName)
		}
		return nil, err
	}
	return &Download{Name: f.DisplayName(), Size: size, Body: body}, nil
}

// Delete removes the bytes and then the row. When removal fails the row is
// kept; when the bytes were already gone the row is pruned and NotFound is
// reported.
func (s *FileService) Delete(ctx context.Context, ownerID int64, ref FileRef) (err error) {
	defer func() { fileOperationsTotal.WithLabelValues("delete", result(err)).Inc() }()

	f, err := s.lookup(ctx, ownerID, ref)
	if err != nil {
		return err
	}
	repo := s.repomanager.Files(s.db)

	if err := s.store.Remove(ctx, ownerID, f.StoredName); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "stored file already missing, pruning row", "owner_id", ownerID, "stored_name", f.StoredName)
			if delErr := repo.DeleteByID(ctx, f.ID); delErr == nil {
				reconcilePrunedTotal.Inc()
			}
			return err
		}
		s.logger.Error(ctx, "removing file failed", "owner_id", ownerID, "stored_name", f.StoredName, "error", err)
		return err
	}

	if err := repo.DeleteByID(ctx, f.ID); err != nil && !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%w: unrecord %s: %w", common.ErrorStorage, f.StoredName, err)
	}

	s.logger.Info(ctx, "file deleted", "owner_id", ownerID, "file_id", f.ID, "stored_name", f.StoredName)
	return nil
}
