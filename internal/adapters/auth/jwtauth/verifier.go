package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"paw-connect/internal/ports/auth"
)

const defaultLeeway = 30 * time.Second

type Config struct {
	// PEM completo o el base64 "pelado" que muestra Keycloak en Realm settings > Keys.
	PublicKey string
	Algorithm string
	Leeway    time.Duration
}

// Verifier implementa auth.AuthVerifier validando la firma contra una clave pública fija.
// No valida audience; exp es obligatorio.
type Verifier struct {
	key    any
	alg    string
	leeway time.Duration
}

// keycloakClaims mapea los claims estándar que emite Keycloak.
type keycloakClaims struct {
	jwt.RegisteredClaims
	Email             string `json:"email"`
	GivenName         string `json:"given_name"`
	FamilyName        string `json:"family_name"`
	PreferredUsername string `json:"preferred_username"`
}

func New(cfg Config) (*Verifier, error) {
	alg := strings.TrimSpace(cfg.Algorithm)
	if alg == "" {
		alg = jwt.SigningMethodRS256.Alg()
	}
	if jwt.GetSigningMethod(alg) == nil {
		return nil, fmt.Errorf("jwtauth: unknown algorithm %q", alg)
	}

	key, err := parsePublicKey(cfg.PublicKey, alg)
	if err != nil {
		return nil, err
	}

	leeway := cfg.Leeway
	if leeway <= 0 {
		leeway = defaultLeeway
	}

	return &Verifier{key: key, alg: alg, leeway: leeway}, nil
}

func (v *Verifier) Verify(_ context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, fmt.Errorf("%w: empty token", auth.ErrUnauthenticated)
	}

	var claims keycloakClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	},
		jwt.WithValidMethods([]string{v.alg}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrUnauthenticated, err)
	}
	if !parsed.Valid {
		return auth.Claims{}, fmt.Errorf("%w: invalid token", auth.ErrUnauthenticated)
	}

	sub := strings.TrimSpace(claims.Subject)
	if sub == "" {
		return auth.Claims{}, fmt.Errorf("%w: token subject missing", auth.ErrUnauthenticated)
	}

	return auth.Claims{
		Subject:    sub,
		Email:      strings.TrimSpace(claims.Email),
		GivenName:  strings.TrimSpace(claims.GivenName),
		FamilyName: strings.TrimSpace(claims.FamilyName),
		Username:   strings.TrimSpace(claims.PreferredUsername),
	}, nil
}

func parsePublicKey(raw, alg string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("jwtauth: public key is empty")
	}
	if !strings.HasPrefix(raw, "-----BEGIN") {
		raw = "-----BEGIN PUBLIC KEY-----\n" + raw + "\n-----END PUBLIC KEY-----"
	}

	var (
		key any
		err error
	)
	switch alg[:2] {
	case "RS", "PS":
		key, err = jwt.ParseRSAPublicKeyFromPEM([]byte(raw))
	case "ES":
		key, err = jwt.ParseECPublicKeyFromPEM([]byte(raw))
	case "Ed":
		key, err = jwt.ParseEdPublicKeyFromPEM([]byte(raw))
	default:
		return nil, fmt.Errorf("jwtauth: algorithm %q is not asymmetric", alg)
	}
	if err != nil {
		return nil, fmt.Errorf("jwtauth: parse public key: %w", err)
	}
	return key, nil
}
