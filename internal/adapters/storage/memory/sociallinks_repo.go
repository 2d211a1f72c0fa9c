package memory

import (
	"context"
	"sort"

	"paw-connect/internal/domain/sociallinks"
)

type socialLinkRepo struct {
	db *DB
}

func NewSocialLinkRepo(db *DB) sociallinks.Repository {
	return &socialLinkRepo{db: db}
}

func (r *socialLinkRepo) ListByProfile(ctx context.Context, profileID string) ([]sociallinks.Link, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]sociallinks.Link, 0)
	for _, l := range r.db.links {
		if l.ProfileID == profileID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *socialLinkRepo) Create(ctx context.Context, l sociallinks.Link) (sociallinks.Link, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.lastLink++
	l.ID = r.db.lastLink
	r.db.links[l.ID] = l
	return l, nil
}

func (r *socialLinkRepo) Update(ctx context.Context, l sociallinks.Link) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	cur, ok := r.db.links[l.ID]
	if !ok || cur.ProfileID != l.ProfileID {
		return sociallinks.ErrNotFound
	}
	r.db.links[l.ID] = l
	return nil
}

func (r *socialLinkRepo) Delete(ctx context.Context, profileID string, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	cur, ok := r.db.links[id]
	if !ok || cur.ProfileID != profileID {
		return sociallinks.ErrNotFound
	}
	delete(r.db.links, id)
	return nil
}
