package attachments

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/mpavlovs/attachd/internal/common"
	"github.com/mpavlovs/attachd/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func sampleAttachment() *models.Attachment {
	return &models.Attachment{
		ID:          "a1",
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		Size:        2048,
		StorageKey:  "attachments/a1/report.pdf",
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+attachments\b.*VALUES\b`

	mock.ExpectExec(q).
		WithArgs("a1", "report.pdf", "application/pdf", int64(2048), "attachments/a1/report.pdf").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), sampleAttachment()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^\s*INSERT\s+INTO\s+attachments\b`).
		WithArgs("a1", "report.pdf", "application/pdf", int64(2048), "attachments/a1/report.pdf").
		WillReturnError(errors.New("connection refused"))

	err := repo.Create(context.Background(), sampleAttachment())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestUpdate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*UPDATE\s+attachments\s+SET\b.*WHERE\s+id=\$1`

	mock.ExpectExec(q).
		WithArgs("a1", "report.pdf", "application/pdf", int64(2048), "attachments/a1/report.pdf").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Update(context.Background(), sampleAttachment()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^\s*UPDATE\s+attachments\s+SET\b`).
		WithArgs("a1", "report.pdf", "application/pdf", int64(2048), "attachments/a1/report.pdf").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), sampleAttachment())
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestGetByID_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "filename", "content_type", "size", "storage_key", "created_at", "updated_at"}).
		AddRow("a1", "report.pdf", "application/pdf", int64(2048), "attachments/a1/report.pdf", now, now)

	mock.ExpectQuery(`(?s)^\s*SELECT\b.*FROM\s+attachments\s+WHERE\s+id=\$1`).
		WithArgs("a1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Filename != "report.pdf" || got.Size != 2048 {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^\s*SELECT\b.*FROM\s+attachments\s+WHERE\s+id=\$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestList_ReturnsRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "filename", "content_type", "size", "storage_key", "created_at", "updated_at"}).
		AddRow("a1", "one.png", "image/png", int64(1), "k1", now, now).
		AddRow("a2", "two.png", "image/png", int64(2), "k2", now, now)

	mock.ExpectQuery(`(?s)^\s*SELECT\b.*FROM\s+attachments\s+ORDER\s+BY\s+created_at\s+DESC`).
		WillReturnRows(rows)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 rows, got %d", len(got))
	}
	if got[0].ID != "a1" || got[1].ID != "a2" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^\s*DELETE\s+FROM\s+attachments\s+WHERE\s+id=\$1`).
		WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "a1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^\s*DELETE\s+FROM\s+attachments\s+WHERE\s+id=\$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}
