package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"pawlume-server/internal/ports/auth"
)

type ctxKey string

const identityKey ctxKey = "identity"

// AuthContext:
// - Si verifier != nil y viene Bearer token => Verify() + resolución de rol
//   contra el user store (exactamente un lookup por request, sin cache:
//   un cambio de rol rige al siguiente request).
// - Si verifier == nil => modo dev: header X-Debug-User-Email setea la
//   identidad directo (mismo criterio que los e2e tests).
// - Token ausente o inválido: el request sigue sin identidad; RequireAuth
//   decide el 401 antes de cualquier handler de dominio.
func AuthContext(verifier auth.TokenVerifier, roles auth.RoleResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Dev mode: permitir inyectar identidad sin verifier.
			if verifier == nil {
				email := strings.TrimSpace(r.Header.Get("X-Debug-User-Email"))
				if email == "" {
					next.ServeHTTP(w, r)
					return
				}
				id := auth.Identity{SubjectID: "debug:" + email, Email: email, Role: auth.RoleUser}
				if role, err := resolveRole(r.Context(), roles, email); err == nil {
					id.Role = role
				}
				next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
				return
			}

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				// Falla del proveedor != credencial mala: la primera es 502,
				// la segunda deja el request sin identidad (401 en RequireAuth).
				if errors.Is(err, auth.ErrUpstream) {
					http.Error(w, "identity provider unavailable", http.StatusBadGateway)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			role, err := resolveRole(r.Context(), roles, claims.Email)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			id := auth.Identity{
				SubjectID: claims.SubjectID,
				Email:     claims.Email,
				Role:      role,
			}
			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), id)))
		})
	}
}

// RequireAuth corta con 401 si no hay identidad resuelta en el contexto.
// Los handlers detrás de este middleware nunca ven un request anónimo.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetIdentity(r.Context())
		if !ok || strings.TrimSpace(id.Email) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetIdentity(ctx context.Context) (auth.Identity, bool) {
	v := ctx.Value(identityKey)
	if v == nil {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

func withIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func resolveRole(ctx context.Context, roles auth.RoleResolver, email string) (auth.Role, error) {
	if roles == nil {
		return auth.RoleUser, nil
	}
	return roles.ResolveRole(ctx, email)
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
