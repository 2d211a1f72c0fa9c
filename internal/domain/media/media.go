package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"paw-connect/internal/ports/objectstore"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrTooLarge          = errors.New("file too large")
	ErrStorage           = errors.New("object storage failure")
)

const DefaultMaxBytes int64 = 20 << 20

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Policy es la allow-list de extensiones (en minúsculas, con punto).
type Policy struct {
	Name       string
	Extensions map[string]Kind
}

var (
	// ImagesOnly aplica a la foto de perfil.
	ImagesOnly = Policy{
		Name: "images",
		Extensions: map[string]Kind{
			".jpg":  KindImage,
			".jpeg": KindImage,
			".png":  KindImage,
		},
	}

	// ServiceMedia suma video para la galería de un servicio.
	ServiceMedia = Policy{
		Name: "service-media",
		Extensions: map[string]Kind{
			".jpg":  KindImage,
			".jpeg": KindImage,
			".png":  KindImage,
			".mp4":  KindVideo,
			".avi":  KindVideo,
			".mov":  KindVideo,
		},
	}
)

// Classify mira solo la extensión del nombre declarado; el resto del nombre se descarta.
func Classify(filename string, p Policy) (Kind, string, error) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	kind, ok := p.Extensions[ext]
	if !ok || ext == "" {
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return kind, ext, nil
}

type Stored struct {
	Key  string
	URL  string
	Kind Kind
	Size int64
}

type Uploader struct {
	store    objectstore.Store
	maxBytes int64
	newKey   func() string
}

func NewUploader(store objectstore.Store, maxBytes int64) *Uploader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Uploader{
		store:    store,
		maxBytes: maxBytes,
		newKey:   uuid.NewString,
	}
}

func (u *Uploader) MaxBytes() int64 {
	return u.maxBytes
}

// Store valida la extensión antes de leer nada, bufferiza el contenido completo
// (acotado por maxBytes) y recién entonces sube el objeto con nombre aleatorio.
func (u *Uploader) Store(ctx context.Context, filename, contentType string, r io.Reader, p Policy) (Stored, error) {
	kind, ext, err := Classify(filename, p)
	if err != nil {
		return Stored{}, err
	}

	data, err := io.ReadAll(io.LimitReader(r, u.maxBytes+1))
	if err != nil {
		return Stored{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > u.maxBytes {
		return Stored{}, ErrTooLarge
	}

	if strings.TrimSpace(contentType) == "" {
		contentType = http.DetectContentType(data)
	}

	key := u.newKey() + ext
	if err := u.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return Stored{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return Stored{
		Key:  key,
		URL:  u.store.URL(key),
		Kind: kind,
		Size: int64(len(data)),
	}, nil
}
