package search

import (
	"context"
	"errors"
)

var ErrUnavailable = errors.New("search index unavailable")

// Document es la proyección de un perfil en el índice. Nunca se lee de vuelta al store.
type Document struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	AboutMe  string `json:"about_me"`
}

type Hit struct {
	ID       string
	Username string
	AboutMe  string
}

type Index interface {
	EnsureIndex(ctx context.Context) error
	// Upsert reemplaza el documento completo.
	Upsert(ctx context.Context, doc Document) error
	Search(ctx context.Context, query string) ([]Hit, error)
}
