package objectstore

import (
	"context"
	"io"
)

// Store guarda objetos ya bufferizados; size siempre es conocido.
type Store interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// URL devuelve la URL pública del objeto.
	URL(key string) string
}
