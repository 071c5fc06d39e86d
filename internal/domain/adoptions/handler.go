package adoptions

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pawlume-server/internal/metrics"
	"pawlume-server/internal/middleware"
)

func RegisterRoutes(r chi.Router, svc *Service, mc *metrics.Collector) {
	r.Route("/adoptions", func(ar chi.Router) {
		ar.Use(middleware.RequireAuth)

		ar.Post("/", submitHandler(svc))
		ar.Patch("/accept/{id}", acceptHandler(svc, mc))
		ar.Patch("/reject/{id}", rejectHandler(svc))
		ar.Get("/my-pets-requests", ownerInboxHandler(svc))
	})
}

type submitRequest struct {
	PetID   string `json:"pet_id"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type requestResponse struct {
	ID             string    `json:"id"`
	PetID          string    `json:"pet_id"`
	PetName        string    `json:"pet_name"`
	PetImage       string    `json:"pet_image,omitempty"`
	RequesterEmail string    `json:"requester_email"`
	Phone          string    `json:"phone"`
	Address        string    `json:"address"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// submitHandler godoc
// @Summary Envía una solicitud de adopción
// @Router /adoptions [post]
func submitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.GetIdentity(r.Context())

		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		created, err := svc.Submit(r.Context(), identity, SubmitInput{
			PetID:   req.PetID,
			Phone:   req.Phone,
			Address: req.Address,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{"adoption_id": created.ID})
	}
}

func acceptHandler(svc *Service, mc *metrics.Collector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.GetIdentity(r.Context())

		req, err := svc.Accept(r.Context(), identity, chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		mc.RecordAdoptionAccepted()
		writeJSON(w, http.StatusOK, toRequestResponse(req))
	}
}

func rejectHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.GetIdentity(r.Context())

		req, err := svc.Reject(r.Context(), identity, chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toRequestResponse(req))
	}
}

func ownerInboxHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.GetIdentity(r.Context())

		items, err := svc.ListOwnerInbox(r.Context(), identity)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]requestResponse, 0, len(items))
		for _, req := range items {
			out = append(out, toRequestResponse(req))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotPending), errors.Is(err, ErrAlreadyAdopted):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toRequestResponse(r Request) requestResponse {
	return requestResponse{
		ID:             r.ID,
		PetID:          r.PetID,
		PetName:        r.PetName,
		PetImage:       r.PetImage,
		RequesterEmail: r.RequesterEmail,
		Phone:          r.Phone,
		Address:        r.Address,
		Status:         r.Status,
		CreatedAt:      r.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
