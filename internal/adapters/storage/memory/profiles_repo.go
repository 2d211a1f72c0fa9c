package memory

import (
	"context"
	"sort"
	"strings"

	"paw-connect/internal/domain/profiles"
)

type profileRepo struct {
	db *DB
}

func NewProfileRepo(db *DB) profiles.Repository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByID(ctx context.Context, id string) (profiles.Profile, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	row, ok := r.db.profiles[id]
	if !ok {
		return profiles.Profile{}, profiles.ErrNotFound
	}

	p := profiles.Profile{
		ID:              row.id,
		Description:     row.description,
		AboutMe:         row.aboutMe,
		Location:        row.location,
		Picture:         row.picture,
		Specializations: make([]string, 0, len(row.specs)),
		SocialLinks:     make([]profiles.SocialLink, 0),
	}
	for sid := range row.specs {
		p.Specializations = append(p.Specializations, sid)
	}
	sort.Strings(p.Specializations)

	for _, l := range r.db.links {
		if l.ProfileID == id {
			p.SocialLinks = append(p.SocialLinks, profiles.SocialLink{ID: l.ID, Platform: l.Platform, URL: l.URL})
		}
	}
	sort.Slice(p.SocialLinks, func(i, j int) bool { return p.SocialLinks[i].ID < p.SocialLinks[j].ID })

	return p, nil
}

func (r *profileRepo) Create(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if strings.TrimSpace(id) == "" {
		return profiles.ErrNotFound
	}
	if _, exists := r.db.profiles[id]; exists {
		return profiles.ErrConflict
	}
	r.db.profiles[id] = &profileRow{id: id, specs: map[string]struct{}{}}
	return nil
}

func (r *profileRepo) Update(ctx context.Context, p profiles.Profile, specIDs *[]string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	row, ok := r.db.profiles[p.ID]
	if !ok {
		return profiles.ErrNotFound
	}

	row.description = p.Description
	row.aboutMe = p.AboutMe
	row.location = p.Location

	if specIDs != nil {
		// clear-then-extend; ids fuera del vocabulario violarían la FK
		next := make(map[string]struct{}, len(*specIDs))
		for _, sid := range *specIDs {
			if _, known := r.db.specs[sid]; known {
				next[sid] = struct{}{}
			}
		}
		row.specs = next
	}
	return nil
}

func (r *profileRepo) SetPicture(ctx context.Context, id, url string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	row, ok := r.db.profiles[id]
	if !ok {
		return profiles.ErrNotFound
	}
	row.picture = url
	return nil
}
