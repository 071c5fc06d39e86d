package users

import (
	"time"

	"pawlume-server/internal/ports/auth"
)

// User es el registro del user store. Solo interesa aquí para resolver rol;
// el resto del perfil vive fuera de este core.
type User struct {
	ID    string
	Email string
	Name  string
	Role  auth.Role

	CreatedAt time.Time
}
