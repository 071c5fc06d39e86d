package auth

// Role es el rol de aplicación que resuelve el user store.
// @Enum user, admin
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Claims representa al sujeto verificado por el proveedor de identidad.
type Claims struct {
	SubjectID string
	Email     string
}

// Identity es el contexto de autorización por request:
// sujeto verificado + rol resuelto contra el user store.
type Identity struct {
	SubjectID string
	Email     string
	Role      Role
}
