package memory

import (
	"context"
	"sync"

	"paw-connect/internal/ports/directory"
)

// Directory es un directorio de identidades en memoria para dev y tests.
// Como en Keycloak, un subject que nadie registró no existe: Remember lo da de alta
// con los claims verificados del primer request.
type Directory struct {
	mu     sync.RWMutex
	byID   map[string]directory.Identity
	calls  int
	failFn func(call int) error
}

func New() *Directory {
	return &Directory{byID: make(map[string]directory.Identity)}
}

// FailWith configura un error por número de llamada a UpdateIdentity (1-based); nil = ok.
func (d *Directory) FailWith(fn func(call int) error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failFn = fn
}

func (d *Directory) Put(id directory.Identity) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byID[id.ID] = id
}

// Remember registra la identidad si el subject todavía no existe; nunca pisa datos
// ya actualizados.
func (d *Directory) Remember(id directory.Identity) {
	if id.ID == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.byID[id.ID]; !ok {
		d.byID[id.ID] = id
	}
}

func (d *Directory) GetIdentity(ctx context.Context, subject string) (directory.Identity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.byID[subject]
	if !ok {
		return directory.Identity{}, directory.ErrNotFound
	}
	return id, nil
}

func (d *Directory) UpdateIdentity(ctx context.Context, subject string, ch directory.Changes) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.calls++
	if d.failFn != nil {
		if err := d.failFn(d.calls); err != nil {
			return err
		}
	}

	id, ok := d.byID[subject]
	if !ok {
		return directory.ErrNotFound
	}
	if ch.Email != nil {
		id.Email = *ch.Email
	}
	if ch.GivenName != nil {
		id.GivenName = *ch.GivenName
	}
	if ch.FamilyName != nil {
		id.FamilyName = *ch.FamilyName
	}
	d.byID[subject] = id
	return nil
}

func (d *Directory) UpdateCalls() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.calls
}
