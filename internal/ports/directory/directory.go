package directory

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("identity not found")
	// ErrRejected: el directorio rechazó el cambio (4xx); reintentar no sirve.
	ErrRejected = errors.New("identity change rejected")
	ErrUpstream = errors.New("identity directory upstream error")
)

// Identity es la vista del directorio externo sobre un usuario.
type Identity struct {
	ID         string
	Email      string
	GivenName  string
	FamilyName string
	Username   string
}

// Changes lleva solo los atributos que el request quiere cambiar (nil = no tocar).
type Changes struct {
	Email      *string
	GivenName  *string
	FamilyName *string
}

func (c Changes) Empty() bool {
	return c.Email == nil && c.GivenName == nil && c.FamilyName == nil
}

// Directory es el sistema de registro de la identidad (Keycloak en prod).
type Directory interface {
	GetIdentity(ctx context.Context, subject string) (Identity, error)
	UpdateIdentity(ctx context.Context, subject string, ch Changes) error
}
