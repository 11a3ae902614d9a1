package content

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestPGRepoLoadFirstRow(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT content FROM site_content ORDER BY id ASC LIMIT 1").
		WillReturnRows(sqlmock.NewRows([]string{"content"}).AddRow([]byte(`{"fr":{"nav":{"home":"Début"}}}`)))

	doc, err := (&PGRepo{DB: db}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	home := doc["fr"].(map[string]any)["nav"].(map[string]any)["home"]
	if home != "Début" {
		t.Fatalf("unexpected home %v", home)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoLoadEmptyTable(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT content FROM site_content").WillReturnRows(sqlmock.NewRows([]string{"content"}))

	if _, err := (&PGRepo{DB: db}).Load(context.Background()); err != ErrNoOverrides {
		t.Fatalf("expected ErrNoOverrides, got %v", err)
	}
}

func TestPGRepoSaveInsertsWhenEmpty(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM site_content").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO site_content").
		WithArgs([]byte(`{"fr":{"nav":{"home":"Début"}}}`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	doc := map[string]any{"fr": map[string]any{"nav": map[string]any{"home": "Début"}}}
	if err := (&PGRepo{DB: db}).Save(context.Background(), doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSaveUpdatesFirstRow(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM site_content").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec("UPDATE site_content SET content").
		WithArgs(sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := (&PGRepo{DB: db}).Save(context.Background(), map[string]any{"en": map[string]any{}}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
