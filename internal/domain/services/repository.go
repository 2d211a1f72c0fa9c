package services

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("service not found")

type Repository interface {
	Create(ctx context.Context, s Service) error
	GetByID(ctx context.Context, id string) (Service, error)
	List(ctx context.Context) ([]Service, error)
	Update(ctx context.Context, s Service) error
	// Delete borra el servicio y su media.
	Delete(ctx context.Context, id string) error

	AddMedia(ctx context.Context, m Media) error
	ListMedia(ctx context.Context, serviceID string) ([]Media, error)
}
