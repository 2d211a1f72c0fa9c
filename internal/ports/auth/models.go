package auth

import "errors"

// ErrUnauthenticated: token ausente, mal formado, expirado o con firma inválida.
var ErrUnauthenticated = errors.New("unauthenticated")

// Claims representa la información extraída del token.
// Solo Subject es estable; el resto lo administra el directorio y vale para el request actual.
type Claims struct {
	Subject    string
	Email      string
	GivenName  string
	FamilyName string
	Username   string
}
