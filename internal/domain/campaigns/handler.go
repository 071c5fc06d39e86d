package campaigns

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pawlume-server/internal/metrics"
	"pawlume-server/internal/middleware"
	"pawlume-server/internal/ports/payments"
)

func RegisterRoutes(r chi.Router, svc *Service, mc *metrics.Collector) {
	r.Route("/donationCampaigns", func(cr chi.Router) {
		cr.Get("/", listCampaignsHandler(svc))
		cr.Get("/{id}", getCampaignHandler(svc))
		cr.Get("/{id}/donators", listDonatorsHandler(svc))

		cr.With(middleware.RequireAuth).Get("/my-campaigns", myCampaignsHandler(svc))
		cr.With(middleware.RequireAuth).Post("/create", createCampaignHandler(svc))
		cr.With(middleware.RequireAuth).Patch("/pause/{id}", togglePauseHandler(svc))
		cr.With(middleware.RequireAuth).Post("/pledge/{id}", pledgeHandler(svc, mc))
	})

	// Rutas planas del flujo de pago (paths históricos del API).
	r.With(middleware.RequireAuth).Post("/create-payment-intent", createIntentHandler(svc))
	r.With(middleware.RequireAuth).Post("/save-donation", confirmDonationHandler(svc, mc))
	r.With(middleware.RequireAuth).Delete("/donations/refund/{campaignId}", refundHandler(svc, mc))
	r.With(middleware.RequireAuth).Get("/donations/my-donations", donorHistoryHandler(svc))
}

type createCampaignRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	MaxAmount   float64 `json:"max_amount"`
	LastDate    string  `json:"last_date"` // YYYY-MM-DD
}

type campaignResponse struct {
	ID          string          `json:"id"`
	OwnerEmail  string          `json:"owner_email"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	MaxAmount   float64         `json:"max_amount"`
	LastDate    time.Time       `json:"last_date"`
	Paused      bool            `json:"paused"`
	Donators    []entryResponse `json:"donators"`
	CreatedAt   time.Time       `json:"created_at"`
}

type entryResponse struct {
	ID         string    `json:"id"`
	DonorEmail string    `json:"donor_email"`
	DonorName  string    `json:"donor_name,omitempty"`
	Amount     float64   `json:"amount"`
	PaymentID  string    `json:"payment_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type donationRequest struct {
	DonorName string  `json:"donor_name"`
	Amount    float64 `json:"amount"`
}

type confirmRequest struct {
	CampaignID string  `json:"campaign_id"`
	DonorName  string  `json:"donor_name"`
	Amount     float64 `json:"amount"`
	PaymentID  string  `json:"payment_id"`
}

type intentRequest struct {
	CampaignID string  `json:"campaign_id"`
	Amount     float64 `json:"amount"`
}

// createCampaignHandler godoc
// @Summary Crea una campaña de donación
// @Router /donationCampaigns/create [post]
func createCampaignHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.GetIdentity(r.Context())

		var req createCampaignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var lastDate time.Time
		if req.LastDate != "" {
			t, err := time.Parse("2006-01-02", req.LastDate)
			if err != nil {
				http.Error(w, "last_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			lastDate = t
		}

		c, err := svc.Create(r.Context(), identity, CreateInput{
			Title:       req.Title,
			Description: req.Description,
			Image:       req.Image,
			MaxAmount:   req.MaxAmount,
			LastDate:    lastDate,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, map[string]string{"campaign_id": c.ID})
	}
}

func listCampaignsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]campaignResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCampaignResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func myCampaignsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.GetIdentity(r.Context())

		items, err := svc.ListByOwner(r.Context(), identity)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		out := make([]campaignResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCampaignResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getCampaignHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toCampaignResponse(c))
	}
}

func listDonatorsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := svc.ListDonators(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		out := make([]entryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, toEntryResponse(e))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// togglePauseHandler godoc
// @Summary Pausa/reanuda una campaña (solo dueño)
// @Router /donationCampaigns/pause/{id} [patch]
func togglePauseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.GetIdentity(r.Context())

		paused, err := svc.TogglePause(r.Context(), identity, chi.URLParam(r, "id"))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"paused": paused})
	}
}

func pledgeHandler(svc *Service, mc *metrics.Collector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.GetIdentity(r.Context())

		var req donationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		e, err := svc.RecordPledge(r.Context(), identity, chi.URLParam(r, "id"), DonationInput{
			DonorName: req.DonorName,
			Amount:    req.Amount,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		mc.RecordDonation()
		writeJSON(w, http.StatusOK, toEntryResponse(e))
	}
}

// createIntentHandler godoc
// @Summary Pide un payment intent al proveedor
// @Router /create-payment-intent [post]
func createIntentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.GetIdentity(r.Context())

		var req intentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.CampaignID == "" || req.Amount <= 0 {
			http.Error(w, "amount and campaign_id are required", http.StatusBadRequest)
			return
		}

		intent, err := svc.CreatePaymentIntent(r.Context(), identity, req.CampaignID, req.Amount)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"client_secret": intent.ClientSecret})
	}
}

// confirmDonationHandler godoc
// @Summary Reconcilia un pago exitoso en el ledger (idempotente por payment_id)
// @Router /save-donation [post]
func confirmDonationHandler(svc *Service, mc *metrics.Collector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.GetIdentity(r.Context())

		var req confirmRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.CampaignID == "" {
			http.Error(w, "campaign_id is required", http.StatusBadRequest)
			return
		}

		e, err := svc.ConfirmDonation(r.Context(), identity, req.CampaignID, ConfirmInput{
			DonorName: req.DonorName,
			Amount:    req.Amount,
			PaymentID: req.PaymentID,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		mc.RecordDonation()
		writeJSON(w, http.StatusOK, toEntryResponse(e))
	}
}

// refundHandler godoc
// @Summary Quita todas las donaciones del caller en la campaña
// @Router /donations/refund/{campaignId} [delete]
func refundHandler(svc *Service, mc *metrics.Collector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.GetIdentity(r.Context())

		removed, err := svc.Refund(r.Context(), identity, chi.URLParam(r, "campaignId"))
		if err != nil {
			writeDomainError(w, err)
			return
		}

		mc.RecordRefund()
		writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
	}
}

func donorHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := middleware.GetIdentity(r.Context())

		items, err := svc.DonorHistory(r.Context(), identity)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		type historyResponse struct {
			CampaignID    string        `json:"campaign_id"`
			CampaignTitle string        `json:"campaign_title"`
			Donation      entryResponse `json:"donation"`
		}
		out := make([]historyResponse, 0, len(items))
		for _, d := range items {
			out = append(out, historyResponse{
				CampaignID:    d.CampaignID,
				CampaignTitle: d.CampaignTitle,
				Donation:      toEntryResponse(d.Entry),
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrNoDonation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrCampaignClosed), errors.Is(err, ErrDuplicatePayment):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, payments.ErrNotConfigured), errors.Is(err, payments.ErrUpstream):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toCampaignResponse(c Campaign) campaignResponse {
	donators := make([]entryResponse, 0, len(c.Donators))
	for _, e := range c.Donators {
		donators = append(donators, toEntryResponse(e))
	}
	return campaignResponse{
		ID:          c.ID,
		OwnerEmail:  c.OwnerEmail,
		Title:       c.Title,
		Description: c.Description,
		Image:       c.Image,
		MaxAmount:   c.MaxAmount,
		LastDate:    c.LastDate,
		Paused:      c.Paused,
		Donators:    donators,
		CreatedAt:   c.CreatedAt,
	}
}

func toEntryResponse(e Entry) entryResponse {
	return entryResponse{
		ID:         e.ID,
		DonorEmail: e.DonorEmail,
		DonorName:  e.DonorName,
		Amount:     e.Amount,
		PaymentID:  e.PaymentID,
		CreatedAt:  e.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
