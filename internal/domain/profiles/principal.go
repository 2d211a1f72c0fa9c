package profiles

import (
	"context"
	"net/http"
	"strings"

	"paw-connect/internal/middleware"
	"paw-connect/internal/ports/auth"
)

type principalKey struct{}

// Principal es el usuario autenticado del request: claims verificados + su perfil local.
type Principal struct {
	Claims  auth.Claims
	Profile Profile
}

// Authenticated exige claims (401 si faltan) y garantiza que el perfil exista.
func Authenticated(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := middleware.GetClaims(r.Context())
			if !ok || strings.TrimSpace(claims.Subject) == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			p, err := svc.GetOrCreate(r.Context(), claims.Subject)
			if err != nil {
				middleware.LoggerFrom(r.Context()).Error("get or create profile failed", map[string]any{
					"subject": claims.Subject,
					"err":     err,
				})
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), principalKey{}, Principal{Claims: claims, Profile: p})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// RequirePrincipal es el chequeo de los handlers; responde 401 si no hay principal.
func RequirePrincipal(w http.ResponseWriter, r *http.Request) (Principal, bool) {
	p, ok := PrincipalFrom(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}
	return p, ok
}
