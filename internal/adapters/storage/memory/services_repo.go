package memory

import (
	"context"
	"sort"

	"paw-connect/internal/domain/services"
)

type serviceRepo struct {
	db *DB
}

func NewServiceRepo(db *DB) services.Repository {
	return &serviceRepo{db: db}
}

func (r *serviceRepo) Create(ctx context.Context, s services.Service) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	s.Times = append([]int{}, s.Times...)
	r.db.services[s.ID] = s
	return nil
}

func (r *serviceRepo) GetByID(ctx context.Context, id string) (services.Service, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	s, ok := r.db.services[id]
	if !ok {
		return services.Service{}, services.ErrNotFound
	}
	return s, nil
}

func (r *serviceRepo) List(ctx context.Context) ([]services.Service, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]services.Service, 0, len(r.db.services))
	for _, s := range r.db.services {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *serviceRepo) Update(ctx context.Context, s services.Service) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.services[s.ID]; !ok {
		return services.ErrNotFound
	}
	s.Times = append([]int{}, s.Times...)
	r.db.services[s.ID] = s
	return nil
}

func (r *serviceRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.services[id]; !ok {
		return services.ErrNotFound
	}
	delete(r.db.services, id)
	delete(r.db.media, id)
	return nil
}

func (r *serviceRepo) AddMedia(ctx context.Context, m services.Media) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.services[m.ServiceID]; !ok {
		return services.ErrNotFound
	}
	r.db.media[m.ServiceID] = append(r.db.media[m.ServiceID], m)
	return nil
}

func (r *serviceRepo) ListMedia(ctx context.Context, serviceID string) ([]services.Media, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	return append([]services.Media{}, r.db.media[serviceID]...), nil
}
