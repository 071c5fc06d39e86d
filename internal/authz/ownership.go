// Package authz contiene el guard de ownership: la única ancla de
// autorización sobre recursos es el email del dueño persistido.
package authz

import (
	"strings"

	"pawlume-server/internal/ports/auth"
)

// IsOwner decide si la identidad puede mutar un recurso cuyo dueño es
// ownerEmail. Se evalúa SIEMPRE contra el recurso recién cargado del store,
// nunca contra un owner que venga en el payload del cliente.
// No hay bypass por rol.
func IsOwner(id auth.Identity, ownerEmail string) bool {
	email := strings.TrimSpace(id.Email)
	if email == "" {
		return false
	}
	return email == strings.TrimSpace(ownerEmail)
}
