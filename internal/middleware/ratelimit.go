package middleware

import (
	"net/http"
	"strconv"
)

// Limiter decide si una clave todavía tiene cupo en la ventana actual.
type Limiter interface {
	Allow(key string) bool
}

// RateLimit limita por subject autenticado (o IP si no hay claims). limiter nil = sin límite.
func RateLimit(limiter Limiter, scope string, retryAfterSeconds int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := scope + ":" + clientKey(r)
			if !limiter.Allow(key) {
				LoggerFrom(r.Context()).Warn("rate limited", map[string]any{"key": key})
				if retryAfterSeconds > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
				}
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if c, ok := GetClaims(r.Context()); ok && c.Subject != "" {
		return "user:" + c.Subject
	}
	return "ip:" + r.RemoteAddr
}
