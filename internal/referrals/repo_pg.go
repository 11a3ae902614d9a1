package referrals

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

const selectColumns = `id, full_name, birth_date, address, phone, email, message, file_path, status, created_at`

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new referral row.
func (r *PGRepo) Create(ctx context.Context, ref Referral) error {
	const query = `
INSERT INTO referrals (
    id,
    full_name,
    birth_date,
    address,
    phone,
    email,
    message,
    file_path,
    status,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	var message sql.NullString
	if ref.Message != "" {
		message = sql.NullString{String: ref.Message, Valid: true}
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		ref.ID,
		ref.FullName,
		ref.BirthDate,
		ref.Address,
		ref.Phone,
		ref.Email,
		message,
		ref.FilePath,
		ref.Status,
		ref.CreatedAt,
	)
	return err
}

// Get loads one referral by id.
func (r *PGRepo) Get(ctx context.Context, id string) (Referral, error) {
	// The id column is a uuid; anything else can never match.
	if _, err := uuid.Parse(id); err != nil {
		return Referral{}, ErrNotFound
	}
	const query = `SELECT ` + selectColumns + ` FROM referrals WHERE id = $1`

	ref, err := scanReferral(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Referral{}, ErrNotFound
	}
	return ref, err
}

// ListRecent returns referrals newest first.
func (r *PGRepo) ListRecent(ctx context.Context, limit, offset int) ([]Referral, error) {
	const query = `
SELECT ` + selectColumns + `
FROM referrals
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Referral
	for rows.Next() {
		ref, err := scanReferral(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReferral(row rowScanner) (Referral, error) {
	var ref Referral
	var message sql.NullString
	if err := row.Scan(
		&ref.ID,
		&ref.FullName,
		&ref.BirthDate,
		&ref.Address,
		&ref.Phone,
		&ref.Email,
		&message,
		&ref.FilePath,
		&ref.Status,
		&ref.CreatedAt,
	); err != nil {
		return Referral{}, err
	}
	ref.Message = message.String
	return ref, nil
}

var _ Repo = (*PGRepo)(nil)
