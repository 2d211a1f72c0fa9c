package sociallinks

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("social link not found")

type Repository interface {
	ListByProfile(ctx context.Context, profileID string) ([]Link, error)
	// Create asigna el id y lo devuelve en el link.
	Create(ctx context.Context, l Link) (Link, error)
	// Update y Delete filtran por id y profile_id: un link ajeno es ErrNotFound.
	Update(ctx context.Context, l Link) error
	Delete(ctx context.Context, profileID string, id int64) error
}
