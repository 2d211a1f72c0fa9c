package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"paw-connect/internal/ports/auth"
)

type claimsCtxKey struct{}

// Headers aceptados solo cuando no hay verifier (AUTH_DEV_MODE).
const (
	DebugUserHeader       = "X-Debug-User-ID"
	DebugEmailHeader      = "X-Debug-Email"
	DebugGivenNameHeader  = "X-Debug-Given-Name"
	DebugFamilyNameHeader = "X-Debug-Family-Name"
)

// AuthContext resuelve la identidad del request y la deja en el contexto.
// Nunca corta el request: sin token, con token inválido o sin header de debug
// el request sigue anónimo y las rutas protegidas responden 401.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				claims auth.Claims
				ok     bool
			)
			if verifier == nil {
				claims, ok = debugClaims(r)
			} else {
				claims, ok = verifiedClaims(r, verifier)
			}
			if ok {
				r = r.WithContext(WithClaims(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func verifiedClaims(r *http.Request, verifier auth.AuthVerifier) (auth.Claims, bool) {
	token, found := strings.CutPrefix(strings.TrimSpace(r.Header.Get("Authorization")), "Bearer ")
	token = strings.TrimSpace(token)
	if !found || token == "" {
		return auth.Claims{}, false
	}

	claims, err := verifier.Verify(r.Context(), token)
	if err != nil {
		if !errors.Is(err, auth.ErrUnauthenticated) {
			LoggerFrom(r.Context()).Warn("token verification error", map[string]any{"err": err})
		}
		return auth.Claims{}, false
	}
	return claims, claims.Subject != ""
}

func debugClaims(r *http.Request) (auth.Claims, bool) {
	uid := strings.TrimSpace(r.Header.Get(DebugUserHeader))
	if uid == "" {
		return auth.Claims{}, false
	}
	return auth.Claims{
		Subject:    uid,
		Email:      strings.TrimSpace(r.Header.Get(DebugEmailHeader)),
		GivenName:  strings.TrimSpace(r.Header.Get(DebugGivenNameHeader)),
		FamilyName: strings.TrimSpace(r.Header.Get(DebugFamilyNameHeader)),
		Username:   uid,
	}, true
}

func WithClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsCtxKey{}, c)
}

// GetClaims devuelve los claims del request, si alguien se autenticó.
func GetClaims(ctx context.Context) (auth.Claims, bool) {
	c, ok := ctx.Value(claimsCtxKey{}).(auth.Claims)
	return c, ok
}
