package keycloak

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"paw-connect/internal/platform/httpclient"
	"paw-connect/internal/ports/directory"
)

var ErrNotConfigured = errors.New("keycloak client not configured")

// Config del cliente admin de Keycloak. El client necesita los roles
// view-users y manage-users en su service account.
type Config struct {
	BaseURL      string
	Realm        string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// Client implementa directory.Directory sobre la Admin REST API de Keycloak.
type Client struct {
	http  *httpclient.Client
	realm string
}

type userRepresentation struct {
	ID        string `json:"id,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	realm := strings.TrimSpace(cfg.Realm)
	if base == "" || realm == "" || strings.TrimSpace(cfg.ClientID) == "" {
		return nil, ErrNotConfigured
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     base + "/realms/" + url.PathEscape(realm) + "/protocol/openid-connect/token",
	}
	// el http.Client del contexto lo usa oauth2 para pedir el token
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: timeout})

	hc, err := httpclient.New(cc.Client(tokenCtx), "keycloak", base, timeout)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc, realm: realm}, nil
}

func (c *Client) userPath(subject string) string {
	return "/admin/realms/" + url.PathEscape(c.realm) + "/users/" + url.PathEscape(subject)
}

func (c *Client) GetIdentity(ctx context.Context, subject string) (directory.Identity, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return directory.Identity{}, directory.ErrNotFound
	}

	var u userRepresentation
	if err := c.http.GetJSON(ctx, c.userPath(subject), &u); err != nil {
		return directory.Identity{}, mapError(err)
	}

	return directory.Identity{
		ID:         u.ID,
		Email:      u.Email,
		GivenName:  u.FirstName,
		FamilyName: u.LastName,
		Username:   u.Username,
	}, nil
}

// UpdateIdentity manda solo los campos presentes; Keycloak ignora los ausentes.
func (c *Client) UpdateIdentity(ctx context.Context, subject string, ch directory.Changes) error {
	if ch.Empty() {
		return nil
	}

	body := map[string]string{}
	if ch.Email != nil {
		body["email"] = *ch.Email
	}
	if ch.GivenName != nil {
		body["firstName"] = *ch.GivenName
	}
	if ch.FamilyName != nil {
		body["lastName"] = *ch.FamilyName
	}

	if err := c.http.PutJSON(ctx, c.userPath(subject), body); err != nil {
		return mapError(err)
	}
	return nil
}

func mapError(err error) error {
	se, ok := httpclient.AsStatus(err)
	switch {
	case !ok || se.Temporary():
		return fmt.Errorf("%w: %v", directory.ErrUpstream, err)
	case se.Code == http.StatusNotFound:
		return fmt.Errorf("%w: %v", directory.ErrNotFound, err)
	case se.Code == http.StatusUnauthorized:
		// token de servicio vencido o revocado; oauth2 lo renueva en el próximo intento
		return fmt.Errorf("%w: %v", directory.ErrUpstream, err)
	default:
		return fmt.Errorf("%w: %v", directory.ErrRejected, err)
	}
}
