package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"pawlume-server/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/pets", func(pr chi.Router) {
		// Catálogo público (solo no adoptadas).
		pr.Get("/", listPetsHandler(svc))
		pr.Get("/{petID}", getPetHandler(svc))

		// Publicar mascota (dueño = caller).
		pr.With(middleware.RequireAuth).Post("/", createPetHandler(svc))
	})
}

type createPetRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Breed       string `json:"breed"`
	Age         string `json:"age"`
	Location    string `json:"location"`
	Image       string `json:"image"`
	Description string `json:"description"`
}

type petResponse struct {
	ID          string    `json:"id"`
	OwnerEmail  string    `json:"owner_email"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Breed       string    `json:"breed,omitempty"`
	Age         string    `json:"age,omitempty"`
	Location    string    `json:"location,omitempty"`
	Image       string    `json:"image,omitempty"`
	Description string    `json:"description,omitempty"`
	Adopted     bool      `json:"adopted"`
	CreatedAt   time.Time `json:"created_at"`
}

// createPetHandler godoc
// @Summary Publica una mascota para adopción
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := middleware.GetIdentity(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), identity.Email, CreateInput{
			Name:        req.Name,
			Category:    req.Category,
			Breed:       req.Breed,
			Age:         req.Age,
			Location:    req.Location,
			Image:       req.Image,
			Description: req.Description,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// listPetsHandler godoc
// @Summary Lista mascotas adoptables (search + category, más nuevas primero)
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		f := ListFilter{
			Search:   q.Get("search"),
			Category: q.Get("category"),
		}
		if v := q.Get("skip"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				f.Skip = n
			}
		}
		if v := q.Get("limit"); v != "" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				f.Limit = n
			}
		}

		items, err := svc.List(r.Context(), f)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:          p.ID,
		OwnerEmail:  p.OwnerEmail,
		Name:        p.Name,
		Category:    string(p.Category),
		Breed:       p.Breed,
		Age:         p.Age,
		Location:    p.Location,
		Image:       p.Image,
		Description: p.Description,
		Adopted:     p.Adopted,
		CreatedAt:   p.CreatedAt,
	}
}

// writeJSON se repite por módulo a propósito (mismo criterio que el resto
// de handlers): todavía no amerita un helper compartido.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
