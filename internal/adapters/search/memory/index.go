package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"paw-connect/internal/ports/search"
)

// Index replica en memoria la semántica de búsqueda por substring del índice real.
type Index struct {
	mu   sync.RWMutex
	docs map[string]search.Document

	// FailWith, si no es nil, hace fallar Upsert.
	FailWith error
}

func New() *Index {
	return &Index{docs: make(map[string]search.Document)}
}

func (i *Index) EnsureIndex(ctx context.Context) error { return nil }

func (i *Index) Upsert(ctx context.Context, doc search.Document) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.FailWith != nil {
		return i.FailWith
	}
	i.docs[doc.ID] = doc
	return nil
}

func (i *Index) Get(id string) (search.Document, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	d, ok := i.docs[id]
	return d, ok
}

func (i *Index) Search(ctx context.Context, query string) ([]search.Hit, error) {
	terms := strings.Fields(strings.ToLower(query))

	i.mu.RLock()
	defer i.mu.RUnlock()

	out := make([]search.Hit, 0)
	for _, d := range i.docs {
		if !matches(d, terms) {
			continue
		}
		out = append(out, search.Hit{ID: d.ID, Username: d.Username, AboutMe: d.AboutMe})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func matches(d search.Document, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	user := strings.ToLower(d.Username)
	about := strings.ToLower(d.AboutMe)
	for _, t := range terms {
		if strings.Contains(user, t) || strings.Contains(about, t) {
			return true
		}
	}
	return false
}
