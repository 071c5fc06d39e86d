package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pawlume-server/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.With(middleware.RequireAuth).Post("/users/register", registerHandler(svc))
}

type registerRequest struct {
	Name string `json:"name"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// registerHandler godoc
// @Summary Da de alta al caller en el user store (rol base)
// @Router /users/register [post]
func registerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.GetIdentity(r.Context())

		var req registerRequest
		if r.Body != nil {
			// body opcional: solo trae el nombre para mostrar
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		u, err := svc.Register(r.Context(), identity, req.Name)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, userResponse{
			ID:        u.ID,
			Email:     u.Email,
			Name:      u.Name,
			Role:      string(u.Role),
			CreatedAt: u.CreatedAt,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
