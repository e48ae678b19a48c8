package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/dbx"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/server/config"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
	"github.com/dmitrijs2005/gophdrive/internal/server/repositories/files"
	"github.com/dmitrijs2005/gophdrive/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophdrive/internal/server/repositories/sqlitetest"
	"github.com/dmitrijs2005/gophdrive/internal/server/storage"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	store  *storage.LocalStore
	logger logging.Logger
	cfg    *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	logger, err := logging.New(logging.FormatText, "error", io.Discard)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	cfg.BcryptCost = 4
	cfg.SessionValidityDuration = time.Hour

	return &testEnv{
		db:     sqlitetest.Open(t),
		rm:     repomanager.NewSQLiteRepositoryManager(),
		store:  store,
		logger: logger,
		cfg:    cfg,
	}
}

func (e *testEnv) fileService(t *testing.T) *FileService {
	t.Helper()
	return NewFileService(e.db, e.rm, e.store, e.logger)
}

func textFile(name, body string) UploadFile {
	return UploadFile{
		Name: name,
		Open: func() (io.ReadCloser, error) { return io.NopCloser(strings.NewReader(body)), nil },
	}
}

var errBoom = errors.New("boom")

// faultyStore injects failures into an otherwise real store.
type faultyStore struct {
	storage.Store
	sizeErr   error
	existsErr error
	removeErr error
	// sizeErrOn limits sizeErr to one stored name when set.
	sizeErrOn string
}

func (f *faultyStore) Size(ctx context.Context, ownerID int64, name string) (int64, error) {
	if f.sizeErr != nil && (f.sizeErrOn == "" || f.sizeErrOn == name) {
		return 0, f.sizeErr
	}
	return f.Store.Size(ctx, ownerID, name)
}

func (f *faultyStore) Exists(ctx context.Context, ownerID int64, name string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.Store.Exists(ctx, ownerID, name)
}

func (f *faultyStore) Remove(ctx context.Context, ownerID int64, name string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	return f.Store.Remove(ctx, ownerID, name)
}

// failingInsertManager hands out file repositories whose Insert always fails.
type failingInsertManager struct {
	repomanager.RepositoryManager
}

func (m failingInsertManager) Files(db dbx.DBTX) files.Repository {
	return failingInsertRepo{m.RepositoryManager.Files(db)}
}

type failingInsertRepo struct {
	files.Repository
}

func (failingInsertRepo) Insert(context.Context, *models.File) (int64, error) {
	return 0, errBoom
}
