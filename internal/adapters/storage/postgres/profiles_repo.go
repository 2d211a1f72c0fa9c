package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"paw-connect/internal/domain/profiles"
)

type ProfilesRepo struct {
	db *sql.DB
}

func NewProfilesRepo(db *sql.DB) *ProfilesRepo {
	return &ProfilesRepo{db: db}
}

func (r *ProfilesRepo) GetByID(ctx context.Context, id string) (profiles.Profile, error) {
	var p profiles.Profile
	err := r.db.QueryRowContext(ctx, `
		SELECT id, description, about_me, location, picture
		FROM profiles
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Description, &p.AboutMe, &p.Location, &p.Picture)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return profiles.Profile{}, profiles.ErrNotFound
		}
		return profiles.Profile{}, err
	}

	specs, err := r.db.QueryContext(ctx, `
		SELECT specialization_id
		FROM profile_specialization
		WHERE profile_id = $1
		ORDER BY specialization_id
	`, id)
	if err != nil {
		return profiles.Profile{}, err
	}
	defer specs.Close()

	p.Specializations = make([]string, 0)
	for specs.Next() {
		var sid string
		if err := specs.Scan(&sid); err != nil {
			return profiles.Profile{}, err
		}
		p.Specializations = append(p.Specializations, sid)
	}
	if err := specs.Err(); err != nil {
		return profiles.Profile{}, err
	}

	links, err := r.db.QueryContext(ctx, `
		SELECT id, platform, url
		FROM social_links
		WHERE profile_id = $1
		ORDER BY id
	`, id)
	if err != nil {
		return profiles.Profile{}, err
	}
	defer links.Close()

	p.SocialLinks = make([]profiles.SocialLink, 0)
	for links.Next() {
		var l profiles.SocialLink
		if err := links.Scan(&l.ID, &l.Platform, &l.URL); err != nil {
			return profiles.Profile{}, err
		}
		p.SocialLinks = append(p.SocialLinks, l)
	}
	return p, links.Err()
}

// Create inserta un perfil vacío. Si la PK ya existe devuelve profiles.ErrConflict.
func (r *ProfilesRepo) Create(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO profiles (id) VALUES ($1)`, id)
	if isUniqueViolation(err) {
		return profiles.ErrConflict
	}
	return err
}

func (r *ProfilesRepo) Update(ctx context.Context, p profiles.Profile, specIDs *[]string) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		UPDATE profiles
		SET description = $2, about_me = $3, location = $4
		WHERE id = $1
	`, p.ID, p.Description, p.AboutMe, p.Location)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return profiles.ErrNotFound
	}

	if specIDs != nil {
		if _, err = tx.ExecContext(ctx, `DELETE FROM profile_specialization WHERE profile_id = $1`, p.ID); err != nil {
			return err
		}
		// el filtro contra el vocabulario corre dentro de la tx: un id borrado
		// mientras tanto se descarta igual que uno desconocido
		for _, sid := range *specIDs {
			if _, err = tx.ExecContext(ctx, `
				INSERT INTO profile_specialization (profile_id, specialization_id)
				SELECT $1, id FROM specializations WHERE id = $2
				ON CONFLICT DO NOTHING
			`, p.ID, sid); err != nil {
				return fmt.Errorf("link specialization %s: %w", sid, err)
			}
		}
	}

	return tx.Commit()
}

func (r *ProfilesRepo) SetPicture(ctx context.Context, id, url string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET picture = $2 WHERE id = $1`, id, url)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return profiles.ErrNotFound
	}
	return nil
}
