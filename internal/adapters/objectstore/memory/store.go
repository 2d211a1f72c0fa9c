package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

type Object struct {
	Data        []byte
	ContentType string
}

// Store guarda objetos en memoria. Cuenta las llamadas a Put para poder afirmar en tests
// que una subida rechazada nunca llegó al store.
type Store struct {
	mu      sync.RWMutex
	bucket  string
	base    string
	objects map[string]Object
	puts    int

	// FailWith, si no es nil, hace fallar cada Put.
	FailWith error
}

func New(bucket, publicBaseURL string) *Store {
	return &Store{
		bucket:  bucket,
		base:    strings.TrimRight(publicBaseURL, "/"),
		objects: make(map[string]Object),
	}
}

func (s *Store) EnsureBucket(ctx context.Context) error {
	if strings.TrimSpace(s.bucket) == "" {
		return errors.New("bucket name required")
	}
	return nil
}

func (s *Store) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	s.mu.Lock()
	s.puts++
	fail := s.FailWith
	s.mu.Unlock()

	if fail != nil {
		return fail
	}

	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r, size); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = Object{Data: buf.Bytes(), ContentType: contentType}
	return nil
}

func (s *Store) URL(key string) string {
	return s.base + "/" + s.bucket + "/" + key
}

func (s *Store) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puts
}

func (s *Store) Get(key string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.objects[key]
	return o, ok
}
