package referrals

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateInsertsAllColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	ref := Referral{
		ID:         "3f1c1d2e-0000-4000-8000-000000000001",
		Submission: jeanPaul,
		FilePath:   "1700000000000_jean_paul_o_brien.pdf",
		Status:     StatusNew,
		CreatedAt:  fixedNow.UTC(),
	}

	mock.ExpectExec("INSERT INTO referrals").
		WithArgs(
			ref.ID,
			ref.FullName,
			ref.BirthDate,
			ref.Address,
			ref.Phone,
			ref.Email,
			sql.NullString{String: ref.Message, Valid: true},
			ref.FilePath,
			"new",
			ref.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), ref); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateStoresEmptyMessageAsNull(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ref := Referral{ID: "id", FilePath: "k.pdf", Status: StatusNew, CreatedAt: fixedNow.UTC()}
	mock.ExpectExec("INSERT INTO referrals").
		WithArgs(ref.ID, "", "", "", "", "", nil, ref.FilePath, "new", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := (&PGRepo{DB: db}).Create(context.Background(), ref); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "full_name", "birth_date", "address", "phone", "email", "message", "file_path", "status", "created_at"}).
		AddRow("r2", "Bob", "1960-01-01", "addr", "555", "b@example.com", nil, "2_bob.pdf", "new", created).
		AddRow("r1", "Ana", "1970-01-01", "addr", "555", "a@example.com", "hello", "1_ana.pdf", "new", created.Add(-time.Hour))
	mock.ExpectQuery("SELECT id, full_name").WithArgs(10, 0).WillReturnRows(rows)

	got, err := (&PGRepo{DB: db}).ListRecent(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].ID != "r2" || got[0].Message != "" {
		t.Fatalf("unexpected first row %+v", got[0])
	}
	if got[1].Message != "hello" || got[1].FilePath != "1_ana.pdf" {
		t.Fatalf("unexpected second row %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

const aliceID = "3f1c1d2e-0000-4000-8000-000000000001"

func TestPGRepoGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "full_name", "birth_date", "address", "phone", "email", "message", "file_path", "status", "created_at"}).
		AddRow(aliceID, "Alice", "1970-05-05", "addr", "555", "a@example.com", "hello", "1_alice.pdf", "new", created)
	mock.ExpectQuery(`SELECT (.+) FROM referrals WHERE id = \$1`).WithArgs(aliceID).WillReturnRows(rows)

	ref, err := (&PGRepo{DB: db}).Get(context.Background(), aliceID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ref.FullName != "Alice" || ref.Message != "hello" || !ref.CreatedAt.Equal(created) {
		t.Fatalf("unexpected referral: %+v", ref)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetMissingIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	const missing = "3f1c1d2e-0000-4000-8000-0000000000ff"
	mock.ExpectQuery(`SELECT (.+) FROM referrals WHERE id = \$1`).WithArgs(missing).WillReturnError(sql.ErrNoRows)

	if _, err := (&PGRepo{DB: db}).Get(context.Background(), missing); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetMalformedIDIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for _, id := range []string{"nope", "", "ref-1"} {
		if _, err := (&PGRepo{DB: db}).Get(context.Background(), id); err != ErrNotFound {
			t.Fatalf("Get(%q): expected ErrNotFound, got %v", id, err)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
