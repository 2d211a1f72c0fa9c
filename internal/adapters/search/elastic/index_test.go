package elastic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paw-connect/internal/ports/search"
)

type fakeES struct {
	mu         sync.Mutex
	exists     bool
	createCode int
	docs       map[string]search.Document
	lastQuery  string
	lastURL    string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	f.lastURL = r.URL.String()

	switch {
	case r.Method == http.MethodHead && r.URL.Path == "/":
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodHead && r.URL.Path == "/users":
		if f.exists {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodPut && r.URL.Path == "/users":
		if f.createCode != 0 {
			w.WriteHeader(f.createCode)
			_, _ = w.Write([]byte(`{"error":{"type":"resource_already_exists_exception"},"status":400}`))
			return
		}
		f.exists = true
		_, _ = w.Write([]byte(`{"acknowledged":true}`))
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/users/_doc/"):
		var d search.Document
		_ = json.NewDecoder(r.Body).Decode(&d)
		f.docs[strings.TrimPrefix(r.URL.Path, "/users/_doc/")] = d
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	case r.URL.Path == "/users/_search":
		raw, _ := io.ReadAll(r.Body)
		f.lastQuery = string(raw)
		var sb strings.Builder
		sb.WriteString(`{"hits":{"hits":[`)
		first := true
		for id, d := range f.docs {
			if !first {
				sb.WriteString(",")
			}
			first = false
			src, _ := json.Marshal(d)
			sb.WriteString(`{"_id":"` + id + `","_source":` + string(src) + `}`)
		}
		sb.WriteString(`]}}`)
		_, _ = w.Write([]byte(sb.String()))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeES) snapshot() (query, url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery, f.lastURL
}

func newTestIndex(t *testing.T, f *fakeES) *Index {
	t.Helper()
	ts := httptest.NewServer(f)
	t.Cleanup(ts.Close)

	idx, err := New(Config{Addresses: []string{ts.URL}})
	require.NoError(t, err)
	return idx
}

func TestEnsureIndex_CreatesWhenMissingAndToleratesRace(t *testing.T) {
	f := &fakeES{docs: map[string]search.Document{}}
	idx := newTestIndex(t, f)

	require.NoError(t, idx.Ping(context.Background()))
	require.NoError(t, idx.EnsureIndex(context.Background()))
	require.NoError(t, idx.EnsureIndex(context.Background()))

	race := &fakeES{docs: map[string]search.Document{}, createCode: http.StatusBadRequest}
	idx2 := newTestIndex(t, race)
	require.NoError(t, idx2.EnsureIndex(context.Background()))
}

func TestUpsertAndSearch(t *testing.T) {
	f := &fakeES{exists: true, docs: map[string]search.Document{}}
	idx := newTestIndex(t, f)

	require.NoError(t, idx.Upsert(context.Background(), search.Document{ID: "U1", Username: "Ana Nowak", AboutMe: "loves dogs"}))
	_, url := f.snapshot()
	assert.Contains(t, url, "refresh=wait_for")

	hits, err := idx.Search(context.Background(), "Dogs")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, search.Hit{ID: "U1", Username: "Ana Nowak", AboutMe: "loves dogs"}, hits[0])

	q, url := f.snapshot()
	assert.Contains(t, q, `"query":"*dogs*"`)
	assert.Contains(t, url, "size=10000")
}

func TestSearch_UpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	idx, err := New(Config{Addresses: []string{ts.URL}})
	require.NoError(t, err)

	_, err = idx.Search(context.Background(), "x")
	assert.True(t, errors.Is(err, search.ErrUnavailable), "got %v", err)
}

func TestWildcardQuery(t *testing.T) {
	assert.Equal(t, "*", WildcardQuery("   "))
	assert.Equal(t, "*loves* *dogs*", WildcardQuery("Loves  dogs"))
	assert.Equal(t, `*a\:b\/c*`, WildcardQuery("a:b/c"))
	assert.Equal(t, `*\(x\)\**`, WildcardQuery("(x)*"))
}
