package profiles

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("profile not found")
	// ErrConflict: el id ya existe (otra request creó el perfil primero).
	ErrConflict = errors.New("profile already exists")
)

type Repository interface {
	// GetByID trae el perfil con especializaciones y social links.
	GetByID(ctx context.Context, id string) (Profile, error)
	// Create inserta un perfil vacío; duplicado => ErrConflict.
	Create(ctx context.Context, id string) error
	// Update escribe los campos escalares y, si specializationIDs != nil, reemplaza
	// el set completo (borrar y volver a insertar) en la misma transacción.
	Update(ctx context.Context, p Profile, specializationIDs *[]string) error
	SetPicture(ctx context.Context, id, url string) error
}

// Vocabulary resuelve ids de especialización contra el vocabulario compartido.
type Vocabulary interface {
	Resolve(ctx context.Context, ids []string) ([]string, error)
}
