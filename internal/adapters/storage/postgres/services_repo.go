package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"paw-connect/internal/domain/media"
	"paw-connect/internal/domain/services"
)

type ServicesRepo struct {
	db *sql.DB
}

func NewServicesRepo(db *sql.DB) *ServicesRepo {
	return &ServicesRepo{db: db}
}

const serviceColumns = `
	id, profile_id, name, description, price, times, created_at, updated_at`

func (r *ServicesRepo) Create(ctx context.Context, s services.Service) error {
	times, err := encodeTimes(s.Times)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO services (`+serviceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8)
	`, s.ID, s.ProfileID, s.Name, s.Description, s.Price, times, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *ServicesRepo) GetByID(ctx context.Context, id string) (services.Service, error) {
	s, err := scanService(r.db.QueryRowContext(ctx, `
		SELECT`+serviceColumns+`
		FROM services
		WHERE id::text = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return services.Service{}, services.ErrNotFound
	}
	return s, err
}

func (r *ServicesRepo) List(ctx context.Context) ([]services.Service, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT`+serviceColumns+`
		FROM services
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]services.Service, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ServicesRepo) Update(ctx context.Context, s services.Service) error {
	times, err := encodeTimes(s.Times)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE services
		SET name = $2, description = $3, price = $4, times = $5::jsonb, updated_at = $6
		WHERE id::text = $1
	`, s.ID, s.Name, s.Description, s.Price, times, s.UpdatedAt)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return services.ErrNotFound
	}
	return nil
}

// Delete: service_media cae por ON DELETE CASCADE.
func (r *ServicesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id::text = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return services.ErrNotFound
	}
	return nil
}

func (r *ServicesRepo) AddMedia(ctx context.Context, m services.Media) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO service_media (id, service_id, media_type, media_url, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, m.ID, m.ServiceID, string(m.Type), m.URL, m.CreatedAt)
	return err
}

func (r *ServicesRepo) ListMedia(ctx context.Context, serviceID string) ([]services.Media, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, service_id, media_type, media_url, created_at
		FROM service_media
		WHERE service_id::text = $1
		ORDER BY created_at ASC
	`, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]services.Media, 0)
	for rows.Next() {
		var m services.Media
		var kind string
		if err := rows.Scan(&m.ID, &m.ServiceID, &kind, &m.URL, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Type = media.Kind(kind)
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanService(s rowScanner) (services.Service, error) {
	var out services.Service
	var times []byte
	if err := s.Scan(
		&out.ID,
		&out.ProfileID,
		&out.Name,
		&out.Description,
		&out.Price,
		&times,
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		return services.Service{}, err
	}
	out.Times = []int{}
	if len(times) > 0 {
		if err := json.Unmarshal(times, &out.Times); err != nil {
			return services.Service{}, fmt.Errorf("decode times: %w", err)
		}
	}
	return out, nil
}

func encodeTimes(t []int) (string, error) {
	if t == nil {
		t = []int{}
	}
	b, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
