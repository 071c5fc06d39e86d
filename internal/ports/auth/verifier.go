package auth

import (
	"context"
	"errors"
)

var (
	// ErrUnauthenticated agrupa todas las causas de rechazo del proveedor
	// (expirado, firma inválida, revocado). El caller no las distingue.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUpstream indica que el proveedor de identidad no respondió bien.
	ErrUpstream = errors.New("identity provider unavailable")
)

// TokenVerifier verifica un bearer token opaco y devuelve claims o error.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// RoleResolver mapea el email de un sujeto verificado a su rol.
// Ausencia en el user store no es error: se devuelve el rol base.
type RoleResolver interface {
	ResolveRole(ctx context.Context, email string) (Role, error)
}
