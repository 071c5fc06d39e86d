package campaigns

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pawlume-server/internal/authz"
	"pawlume-server/internal/ports/auth"
	"pawlume-server/internal/ports/payments"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("campaign not found")
	ErrForbidden        = errors.New("forbidden")
	ErrCampaignClosed   = errors.New("campaign is not accepting donations")
	ErrDuplicatePayment = errors.New("payment already recorded")
	ErrNoDonation       = errors.New("you have not donated")
)

type Service struct {
	repo     Repository
	provider payments.Provider
	currency string
	now      func() time.Time
}

// NewService arma el ledger de donaciones. provider puede ser nil
// (sin pagos con tarjeta): CreatePaymentIntent falla explícito.
func NewService(repo Repository, provider payments.Provider, currency string) *Service {
	if strings.TrimSpace(currency) == "" {
		currency = "usd"
	}
	return &Service{
		repo:     repo,
		provider: provider,
		currency: strings.ToLower(strings.TrimSpace(currency)),
		now:      time.Now,
	}
}

type CreateInput struct {
	Title       string
	Description string
	Image       string
	MaxAmount   float64
	LastDate    time.Time
}

func (s *Service) Create(ctx context.Context, identity auth.Identity, in CreateInput) (Campaign, error) {
	owner := strings.TrimSpace(identity.Email)
	if owner == "" {
		return Campaign{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Title) == "" {
		return Campaign{}, ErrInvalidInput
	}
	if in.MaxAmount <= 0 {
		return Campaign{}, ErrInvalidInput
	}
	if in.LastDate.IsZero() {
		return Campaign{}, ErrInvalidInput
	}

	c := Campaign{
		ID:          primitive.NewObjectID().Hex(),
		OwnerEmail:  owner,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Image:       strings.TrimSpace(in.Image),
		MaxAmount:   in.MaxAmount,
		LastDate:    in.LastDate,
		Paused:      false,
		Donators:    []Entry{},
		CreatedAt:   s.now(),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return Campaign{}, err
	}
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Campaign, error) {
	id = strings.TrimSpace(id)
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return Campaign{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Campaign, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByOwner(ctx context.Context, identity auth.Identity) ([]Campaign, error) {
	owner := strings.TrimSpace(identity.Email)
	if owner == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, owner)
}

type DonationInput struct {
	DonorName string
	Amount    float64
}

// RecordPledge registra una donación directa (sin round trip al proveedor).
// Monto positivo y campaña abierta son requisitos.
func (s *Service) RecordPledge(ctx context.Context, identity auth.Identity, campaignID string, in DonationInput) (Entry, error) {
	c, err := s.loadOpen(ctx, identity, campaignID, in.Amount)
	if err != nil {
		return Entry{}, err
	}

	e := s.newEntry(identity, in, "")
	if err := s.repo.PushEntry(ctx, c.ID, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// CreatePaymentIntent pide el intent al proveedor con el monto en unidades
// menores (redondeo al más cercano) y metadata opaca para correlacionar.
// No toca el ledger: eso recién pasa en ConfirmDonation.
func (s *Service) CreatePaymentIntent(ctx context.Context, identity auth.Identity, campaignID string, amount float64) (payments.Intent, error) {
	if s.provider == nil {
		return payments.Intent{}, payments.ErrNotConfigured
	}

	c, err := s.loadOpen(ctx, identity, campaignID, amount)
	if err != nil {
		return payments.Intent{}, err
	}

	intent, err := s.provider.CreateIntent(ctx, toMinorUnits(amount), s.currency, map[string]string{
		"campaignId": c.ID,
		"donorEmail": strings.TrimSpace(identity.Email),
	})
	if err != nil {
		return payments.Intent{}, err
	}
	return intent, nil
}

type ConfirmInput struct {
	DonorName string
	Amount    float64
	PaymentID string
}

// ConfirmDonation reconcilia un payment intent exitoso en una entrada del
// ledger. El append es condicional al PaymentID: un replay del cliente
// no puede acreditar dos veces.
func (s *Service) ConfirmDonation(ctx context.Context, identity auth.Identity, campaignID string, in ConfirmInput) (Entry, error) {
	if strings.TrimSpace(in.PaymentID) == "" {
		return Entry{}, ErrInvalidInput
	}

	c, err := s.loadOpen(ctx, identity, campaignID, in.Amount)
	if err != nil {
		return Entry{}, err
	}

	e := s.newEntry(identity, DonationInput{DonorName: in.DonorName, Amount: in.Amount}, strings.TrimSpace(in.PaymentID))
	if err := s.repo.PushEntry(ctx, c.ID, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Refund quita TODAS las entradas cuyo email coincide con el caller
// (política definida: match por email, en bloque). Sin match: ErrNoDonation.
func (s *Service) Refund(ctx context.Context, identity auth.Identity, campaignID string) (int, error) {
	email := strings.TrimSpace(identity.Email)
	if email == "" {
		return 0, ErrInvalidInput
	}

	c, err := s.GetByID(ctx, campaignID)
	if err != nil {
		return 0, err
	}

	removed, err := s.repo.PullEntriesByEmail(ctx, c.ID, email)
	if err != nil {
		return 0, err
	}
	if removed == 0 {
		return 0, ErrNoDonation
	}
	return removed, nil
}

func (s *Service) ListDonators(ctx context.Context, campaignID string) ([]Entry, error) {
	c, err := s.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if c.Donators == nil {
		return []Entry{}, nil
	}
	return c.Donators, nil
}

// DonorHistory aplana las entradas del caller a través de todas las
// campañas donde aparece, cada una etiquetada con su campaña.
func (s *Service) DonorHistory(ctx context.Context, identity auth.Identity) ([]DonorDonation, error) {
	email := strings.TrimSpace(identity.Email)
	if email == "" {
		return nil, ErrInvalidInput
	}

	matched, err := s.repo.ListByDonor(ctx, email)
	if err != nil {
		return nil, err
	}

	out := make([]DonorDonation, 0)
	for _, c := range matched {
		for _, e := range c.Donators {
			if e.DonorEmail != email {
				continue
			}
			out = append(out, DonorDonation{
				CampaignID:    c.ID,
				CampaignTitle: c.Title,
				Entry:         e,
			})
		}
	}
	return out, nil
}

// TogglePause invierte paused. Solo el dueño de la campaña.
func (s *Service) TogglePause(ctx context.Context, identity auth.Identity, campaignID string) (bool, error) {
	c, err := s.GetByID(ctx, campaignID)
	if err != nil {
		return false, err
	}
	if !authz.IsOwner(identity, c.OwnerEmail) {
		return false, ErrForbidden
	}

	next := !c.Paused
	if err := s.repo.SetPaused(ctx, c.ID, next); err != nil {
		return false, err
	}
	return next, nil
}

// loadOpen valida donante, monto y que la campaña acepte donaciones
// (ni pausada ni vencida).
func (s *Service) loadOpen(ctx context.Context, identity auth.Identity, campaignID string, amount float64) (Campaign, error) {
	if strings.TrimSpace(identity.Email) == "" {
		return Campaign{}, ErrInvalidInput
	}
	if amount <= 0 {
		return Campaign{}, ErrInvalidInput
	}

	c, err := s.GetByID(ctx, campaignID)
	if err != nil {
		return Campaign{}, err
	}
	if c.Paused {
		return Campaign{}, ErrCampaignClosed
	}
	if !c.LastDate.IsZero() && s.now().After(c.LastDate) {
		return Campaign{}, ErrCampaignClosed
	}
	return c, nil
}

func (s *Service) newEntry(identity auth.Identity, in DonationInput, paymentID string) Entry {
	return Entry{
		ID:         uuid.NewString(),
		DonorEmail: strings.TrimSpace(identity.Email),
		DonorName:  strings.TrimSpace(in.DonorName),
		Amount:     in.Amount,
		PaymentID:  paymentID,
		CreatedAt:  s.now(),
	}
}

// toMinorUnits convierte al entero de unidades menores del proveedor,
// redondeando al más cercano (50.005 → 5001, no 5000).
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
