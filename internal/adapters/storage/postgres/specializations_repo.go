package postgres

import (
	"context"
	"database/sql"
	"errors"

	"paw-connect/internal/domain/specializations"
)

type SpecializationsRepo struct {
	db *sql.DB
}

func NewSpecializationsRepo(db *sql.DB) *SpecializationsRepo {
	return &SpecializationsRepo{db: db}
}

func (r *SpecializationsRepo) List(ctx context.Context) ([]specializations.Specialization, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, short_description
		FROM specializations
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]specializations.Specialization, 0)
	for rows.Next() {
		var s specializations.Specialization
		if err := rows.Scan(&s.ID, &s.Title, &s.ShortDescription); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SpecializationsRepo) GetByID(ctx context.Context, id string) (specializations.Specialization, error) {
	var s specializations.Specialization
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, short_description
		FROM specializations
		WHERE id = $1
	`, id).Scan(&s.ID, &s.Title, &s.ShortDescription)
	if errors.Is(err, sql.ErrNoRows) {
		return specializations.Specialization{}, specializations.ErrNotFound
	}
	return s, err
}

func (r *SpecializationsRepo) Create(ctx context.Context, s specializations.Specialization) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO specializations (id, title, short_description)
		VALUES ($1, $2, $3)
	`, s.ID, s.Title, s.ShortDescription)
	return err
}

func (r *SpecializationsRepo) Update(ctx context.Context, s specializations.Specialization) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE specializations
		SET title = $2, short_description = $3
		WHERE id = $1
	`, s.ID, s.Title, s.ShortDescription)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return specializations.ErrNotFound
	}
	return nil
}

// Delete: las filas de profile_specialization caen por ON DELETE CASCADE.
func (r *SpecializationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM specializations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return specializations.ErrNotFound
	}
	return nil
}

func (r *SpecializationsRepo) Existing(ctx context.Context, ids []string) (map[string]bool, error) {
	out := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id FROM specializations WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out[id] = true
	}
	return out, rows.Err()
}
