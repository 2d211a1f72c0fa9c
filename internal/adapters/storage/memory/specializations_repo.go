package memory

import (
	"context"
	"sort"

	"paw-connect/internal/domain/specializations"
)

type specializationRepo struct {
	db *DB
}

func NewSpecializationRepo(db *DB) specializations.Repository {
	return &specializationRepo{db: db}
}

func (r *specializationRepo) List(ctx context.Context) ([]specializations.Specialization, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]specializations.Specialization, 0, len(r.db.specs))
	for _, s := range r.db.specs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *specializationRepo) GetByID(ctx context.Context, id string) (specializations.Specialization, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	s, ok := r.db.specs[id]
	if !ok {
		return specializations.Specialization{}, specializations.ErrNotFound
	}
	return s, nil
}

func (r *specializationRepo) Create(ctx context.Context, s specializations.Specialization) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.specs[s.ID] = s
	return nil
}

func (r *specializationRepo) Update(ctx context.Context, s specializations.Specialization) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.specs[s.ID]; !ok {
		return specializations.ErrNotFound
	}
	r.db.specs[s.ID] = s
	return nil
}

// Delete también quita la etiqueta de los perfiles (ON DELETE CASCADE).
func (r *specializationRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.specs[id]; !ok {
		return specializations.ErrNotFound
	}
	delete(r.db.specs, id)
	for _, p := range r.db.profiles {
		delete(p.specs, id)
	}
	return nil
}

func (r *specializationRepo) Existing(ctx context.Context, ids []string) (map[string]bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := r.db.specs[id]; ok {
			out[id] = true
		}
	}
	return out, nil
}
