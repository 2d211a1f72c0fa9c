package keycloak

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paw-connect/internal/ports/directory"
)

type fakeKeycloak struct {
	mu        sync.Mutex
	users     map[string]map[string]string
	lastPut   map[string]string
	tokenHits int
	putStatus int
}

func (f *fakeKeycloak) snapshot() (map[string]string, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPut, f.tokenHits
}

func (f *fakeKeycloak) setPutStatus(code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.putStatus = code
}

func (f *fakeKeycloak) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /realms/paw_connect/protocol/openid-connect/token", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.tokenHits++
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"svc-token","token_type":"bearer","expires_in":300}`))
	})
	mux.HandleFunc("GET /admin/realms/paw_connect/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer svc-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f.mu.Lock()
		u, ok := f.users[r.PathValue("id")]
		f.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"User not found"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(u)
	})
	mux.HandleFunc("PUT /admin/realms/paw_connect/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode put body: %v", err)
		}
		f.mu.Lock()
		f.lastPut = body
		status := f.putStatus
		f.mu.Unlock()
		if status == 0 {
			status = http.StatusNoContent
		}
		w.WriteHeader(status)
	})
	return mux
}

func newTestClient(t *testing.T, f *fakeKeycloak) *Client {
	t.Helper()
	ts := httptest.NewServer(f.handler(t))
	t.Cleanup(ts.Close)

	c, err := NewClient(Config{
		BaseURL:      ts.URL,
		Realm:        "paw_connect",
		ClientID:     "admin-cli",
		ClientSecret: "secret",
	})
	require.NoError(t, err)
	return c
}

func TestGetIdentity(t *testing.T) {
	f := &fakeKeycloak{users: map[string]map[string]string{
		"U1": {"id": "U1", "username": "ana", "email": "ana@example.com", "firstName": "Ana", "lastName": "Nowak"},
	}}
	c := newTestClient(t, f)

	id, err := c.GetIdentity(context.Background(), "U1")
	require.NoError(t, err)
	assert.Equal(t, directory.Identity{
		ID: "U1", Username: "ana", Email: "ana@example.com", GivenName: "Ana", FamilyName: "Nowak",
	}, id)

	_, err = c.GetIdentity(context.Background(), "missing")
	assert.True(t, errors.Is(err, directory.ErrNotFound), "got %v", err)

	// el token se cachea entre llamadas
	_, hits := f.snapshot()
	assert.Equal(t, 1, hits)
}

func TestUpdateIdentity_SendsOnlyPresentFields(t *testing.T) {
	f := &fakeKeycloak{users: map[string]map[string]string{}}
	c := newTestClient(t, f)

	given := "Ana"
	require.NoError(t, c.UpdateIdentity(context.Background(), "U1", directory.Changes{GivenName: &given}))
	put, _ := f.snapshot()
	assert.Equal(t, map[string]string{"firstName": "Ana"}, put)
}

func TestUpdateIdentity_EmptyChangesSkipsCall(t *testing.T) {
	f := &fakeKeycloak{users: map[string]map[string]string{}}
	c := newTestClient(t, f)

	require.NoError(t, c.UpdateIdentity(context.Background(), "U1", directory.Changes{}))
	put, hits := f.snapshot()
	assert.Nil(t, put)
	assert.Equal(t, 0, hits)
}

func TestUpdateIdentity_ErrorMapping(t *testing.T) {
	email := "taken@example.com"

	f := &fakeKeycloak{users: map[string]map[string]string{}}
	f.setPutStatus(http.StatusConflict)
	c := newTestClient(t, f)
	err := c.UpdateIdentity(context.Background(), "U1", directory.Changes{Email: &email})
	assert.True(t, errors.Is(err, directory.ErrRejected), "got %v", err)

	f.setPutStatus(http.StatusBadGateway)
	err = c.UpdateIdentity(context.Background(), "U1", directory.Changes{Email: &email})
	assert.True(t, errors.Is(err, directory.ErrUpstream), "got %v", err)
}

func TestNewClient_RequiresConfig(t *testing.T) {
	_, err := NewClient(Config{Realm: "paw_connect", ClientID: "admin-cli"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
