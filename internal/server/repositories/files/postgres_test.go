package files

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/dmitrijs2005/gophdrive/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	insertQuery = `(?s)^\s*INSERT\s+INTO\s+files\s*\(owner_id,\s*stored_name,\s*original_name,\s*size,\s*uploaded_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id\s*$`
	listQuery   = `(?s)^\s*SELECT\s+id,\s*owner_id,\s*stored_name,\s*original_name,\s*size,\s*uploaded_at\s+FROM\s+files\s+WHERE\s+owner_id\s*=\s*\$1\s+ORDER\s+BY\s+uploaded_at\s+DESC,\s*id\s+DESC\s*$`
	findQuery   = `(?s)^\s*SELECT\s+id,.*FROM\s+files\s+WHERE\s+owner_id\s*=\s*\$1\s+AND\s+original_name\s*=\s*\$2\s+ORDER\s+BY\s+uploaded_at\s+DESC,\s*id\s+DESC\s+LIMIT\s+1\s*$`
	findStored  = `(?s)^\s*SELECT\s+id,.*FROM\s+files\s+WHERE\s+owner_id\s*=\s*\$1\s+AND\s+stored_name\s*=\s*\$2\s*$`
	deleteByID  = `^DELETE\s+FROM\s+files\s+WHERE\s+id\s*=\s*\$1$`
)

var fileCols = []string{"id", "owner_id", "stored_name", "original_name", "size", "uploaded_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestInsert_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).
		WithArgs(int64(1), "report (1).txt", "report.txt", int64(5), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))

	f := &models.File{OwnerID: 1, StoredName: "report (1).txt", OriginalName: "report.txt", Size: 5}
	id, err := repo.Insert(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 10 || f.ID != 10 {
		t.Fatalf("id = %d, file.ID = %d, want 10", id, f.ID)
	}
	if f.UploadedAt.IsZero() {
		t.Fatal("UploadedAt must be set")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsert_Errors(t *testing.T) {
	t.Run("unique violation", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(insertQuery).WillReturnError(&pgconn.PgError{Code: "23505"})

		_, err := repo.Insert(context.Background(), &models.File{OwnerID: 1, StoredName: "a.txt"})
		if !errors.Is(err, common.ErrorAlreadyExists) {
			t.Fatalf("want ErrorAlreadyExists, got %v", err)
		}
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(insertQuery).WillReturnError(errors.New("disk full"))

		_, err := repo.Insert(context.Background(), &models.File{OwnerID: 1, StoredName: "a.txt"})
		if err == nil || !regexp.MustCompile(`db error: .*disk full`).MatchString(err.Error()) {
			t.Fatalf("expected wrapped db error, got %v", err)
		}
	})
}

func TestListByOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	t2 := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	t1 := t2.Add(-time.Hour)
	mock.ExpectQuery(listQuery).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(fileCols).
			AddRow(int64(2), int64(3), "b.txt", "b.txt", int64(2), t2).
			AddRow(int64(1), int64(3), "a.txt", "a.txt", int64(1), t1))

	got, err := repo.ListByOwner(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].StoredName != "b.txt" || got[1].StoredName != "a.txt" {
		t.Fatalf("unexpected rows: %+v", got)
	}
	if !got[0].UploadedAt.Equal(t2) {
		t.Fatalf("uploaded_at = %v, want %v", got[0].UploadedAt, t2)
	}
}

func TestListByOwner_Errors(t *testing.T) {
	t.Run("query error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(listQuery).WillReturnError(errors.New("boom"))
		if _, err := repo.ListByOwner(context.Background(), 3); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("scan error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(listQuery).
			WillReturnRows(sqlmock.NewRows(fileCols).AddRow("x", int64(3), "a", "a", int64(1), time.Now()))
		if _, err := repo.ListByOwner(context.Background(), 3); err == nil {
			t.Fatal("expected scan error")
		}
	})

	t.Run("rows error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		rows := sqlmock.NewRows(fileCols).
			AddRow(int64(1), int64(3), "a", "a", int64(1), time.Now()).
			RowError(0, errors.New("row failed"))
		mock.ExpectQuery(listQuery).WillReturnRows(rows)
		if _, err := repo.ListByOwner(context.Background(), 3); err == nil {
			t.Fatal("expected rows error")
		}
	})
}

func TestFindByOwnerAndOriginalName(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(findQuery).
		WithArgs(int64(3), "a.txt").
		WillReturnRows(sqlmock.NewRows(fileCols).AddRow(int64(9), int64(3), "a (1).txt", "a.txt", int64(4), now))

	got, err := repo.FindByOwnerAndOriginalName(context.Background(), 3, "a.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 9 || got.StoredName != "a (1).txt" {
		t.Fatalf("unexpected row: %+v", got)
	}

	mock.ExpectQuery(findQuery).
		WithArgs(int64(3), "missing.txt").
		WillReturnError(sql.ErrNoRows)
	if _, err := repo.FindByOwnerAndOriginalName(context.Background(), 3, "missing.txt"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestFindByOwnerAndStoredName(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(findStored).
		WithArgs(int64(3), "a (1).txt").
		WillReturnRows(sqlmock.NewRows(fileCols).AddRow(int64(9), int64(3), "a (1).txt", "a.txt", int64(4), time.Now()))

	got, err := repo.FindByOwnerAndStoredName(context.Background(), 3, "a (1).txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 9 || got.OriginalName != "a.txt" {
		t.Fatalf("unexpected row: %+v", got)
	}

	mock.ExpectQuery(findStored).
		WithArgs(int64(3), "nope").
		WillReturnError(sql.ErrNoRows)
	if _, err := repo.FindByOwnerAndStoredName(context.Background(), 3, "nope"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestDeleteByID(t *testing.T) {
	tests := []struct {
		name    string
		result  sql.Result
		execErr error
		wantErr error
		wantAny bool
	}{
		{name: "deleted", result: sqlmock.NewResult(0, 1)},
		{name: "missing", result: sqlmock.NewResult(0, 0), wantErr: common.ErrorNotFound},
		{name: "too many", result: sqlmock.NewResult(0, 2), wantAny: true},
		{name: "exec error", execErr: errors.New("boom"), wantAny: true},
		{name: "rows affected error", result: sqlmock.NewErrorResult(errors.New("ra")), wantAny: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			exp := mock.ExpectExec(deleteByID).WithArgs(int64(5))
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(tt.result)
			}

			err := repo.DeleteByID(context.Background(), 5)
			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
			case tt.wantAny:
				if err == nil {
					t.Fatal("expected error")
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
		})
	}
}
