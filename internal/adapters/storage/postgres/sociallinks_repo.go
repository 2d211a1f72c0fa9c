package postgres

import (
	"context"
	"database/sql"

	"paw-connect/internal/domain/sociallinks"
)

type SocialLinksRepo struct {
	db *sql.DB
}

func NewSocialLinksRepo(db *sql.DB) *SocialLinksRepo {
	return &SocialLinksRepo{db: db}
}

func (r *SocialLinksRepo) ListByProfile(ctx context.Context, profileID string) ([]sociallinks.Link, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, profile_id, platform, url
		FROM social_links
		WHERE profile_id = $1
		ORDER BY id
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]sociallinks.Link, 0)
	for rows.Next() {
		var l sociallinks.Link
		if err := rows.Scan(&l.ID, &l.ProfileID, &l.Platform, &l.URL); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *SocialLinksRepo) Create(ctx context.Context, l sociallinks.Link) (sociallinks.Link, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO social_links (profile_id, platform, url)
		VALUES ($1, $2, $3)
		RETURNING id
	`, l.ProfileID, l.Platform, l.URL).Scan(&l.ID)
	if err != nil {
		return sociallinks.Link{}, err
	}
	return l, nil
}

func (r *SocialLinksRepo) Update(ctx context.Context, l sociallinks.Link) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE social_links
		SET platform = $3, url = $4
		WHERE id = $1 AND profile_id = $2
	`, l.ID, l.ProfileID, l.Platform, l.URL)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sociallinks.ErrNotFound
	}
	return nil
}

func (r *SocialLinksRepo) Delete(ctx context.Context, profileID string, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM social_links WHERE id = $1 AND profile_id = $2`, id, profileID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sociallinks.ErrNotFound
	}
	return nil
}
