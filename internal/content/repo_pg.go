package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo keeps overrides in the first row of site_content.
type PGRepo struct {
	DB *sql.DB
}

// Load returns the content of the lowest-id row.
func (r *PGRepo) Load(ctx context.Context) (map[string]any, error) {
	const query = `SELECT content FROM site_content ORDER BY id ASC LIMIT 1`

	var raw []byte
	if err := r.DB.QueryRowContext(ctx, query).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoOverrides
		}
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrNoOverrides
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode site_content: %w", err)
	}
	return doc, nil
}

// Save updates the first row, inserting one when the table is empty.
func (r *PGRepo) Save(ctx context.Context, doc map[string]any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var id int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM site_content ORDER BY id ASC LIMIT 1 FOR UPDATE`).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.ExecContext(ctx, `INSERT INTO site_content (content, updated_at) VALUES ($1, now())`, payload); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if _, err := tx.ExecContext(ctx, `UPDATE site_content SET content = $1, updated_at = now() WHERE id = $2`, payload, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

var _ Repo = (*PGRepo)(nil)
