package specializations

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("specialization not found")

type Repository interface {
	List(ctx context.Context) ([]Specialization, error)
	GetByID(ctx context.Context, id string) (Specialization, error)
	Create(ctx context.Context, s Specialization) error
	Update(ctx context.Context, s Specialization) error
	Delete(ctx context.Context, id string) error
	// Existing devuelve el subconjunto de ids que existen en el vocabulario.
	Existing(ctx context.Context, ids []string) (map[string]bool, error)
}
