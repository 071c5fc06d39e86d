package adoptions

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pawlume-server/internal/authz"
	"pawlume-server/internal/domain/pets"
	"pawlume-server/internal/ports/auth"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrNotPending     = errors.New("request is not pending")
	ErrAlreadyAdopted = errors.New("pet already adopted")
)

// PetRegistry es lo que el flujo de adopción necesita de las mascotas.
// Lo implementa *pets.Service.
type PetRegistry interface {
	GetByID(ctx context.Context, id string) (pets.Pet, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]pets.Pet, error)
	MarkAdopted(ctx context.Context, id string) error
}

type Service struct {
	repo Repository
	pets PetRegistry
	now  func() time.Time
}

func NewService(repo Repository, registry PetRegistry) *Service {
	return &Service{
		repo: repo,
		pets: registry,
		now:  time.Now,
	}
}

type SubmitInput struct {
	PetID   string
	Phone   string
	Address string
}

// Submit crea una solicitud pending. No marca la mascota: la adopción
// recién es definitiva al aceptar. Varias solicitudes pending por mascota
// son válidas (el dueño elige entre candidatos).
func (s *Service) Submit(ctx context.Context, identity auth.Identity, in SubmitInput) (Request, error) {
	petID := strings.TrimSpace(in.PetID)
	phone := strings.TrimSpace(in.Phone)
	address := strings.TrimSpace(in.Address)

	if phone == "" || address == "" {
		return Request{}, ErrInvalidInput
	}
	if strings.TrimSpace(identity.Email) == "" {
		return Request{}, ErrInvalidInput
	}
	if _, err := primitive.ObjectIDFromHex(petID); err != nil {
		return Request{}, ErrInvalidInput
	}

	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		if errors.Is(err, pets.ErrNotFound) {
			return Request{}, ErrNotFound
		}
		return Request{}, err
	}
	if pet.Adopted {
		return Request{}, ErrAlreadyAdopted
	}

	r := Request{
		ID:             primitive.NewObjectID().Hex(),
		PetID:          pet.ID,
		PetName:        pet.Name,
		PetImage:       pet.Image,
		RequesterEmail: strings.TrimSpace(identity.Email),
		Phone:          phone,
		Address:        address,
		Status:         StatusPending,
		CreatedAt:      s.now(),
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return Request{}, err
	}
	return r, nil
}

// Accept: ownership sobre la mascota referenciada (no sobre la solicitud).
// El flip de la mascota va primero y es condicional (adopted=false en el
// momento del accept); así dos accepts concurrentes sobre la misma mascota
// no pueden adoptarla dos veces. Las solicitudes pending hermanas quedan
// pending: solo pueden rechazarse después.
func (s *Service) Accept(ctx context.Context, identity auth.Identity, requestID string) (Request, error) {
	req, pet, err := s.loadForDecision(ctx, identity, requestID)
	if err != nil {
		return Request{}, err
	}

	if err := s.pets.MarkAdopted(ctx, pet.ID); err != nil {
		if errors.Is(err, pets.ErrAlreadyAdopted) {
			return Request{}, ErrAlreadyAdopted
		}
		if errors.Is(err, pets.ErrNotFound) {
			return Request{}, ErrNotFound
		}
		return Request{}, err
	}

	if err := s.repo.UpdateStatusIfPending(ctx, req.ID, StatusAccepted); err != nil {
		return Request{}, err
	}

	req.Status = StatusAccepted
	return req, nil
}

// Reject: misma precondición de ownership; la mascota no se toca.
func (s *Service) Reject(ctx context.Context, identity auth.Identity, requestID string) (Request, error) {
	req, _, err := s.loadForDecision(ctx, identity, requestID)
	if err != nil {
		return Request{}, err
	}

	if err := s.repo.UpdateStatusIfPending(ctx, req.ID, StatusRejected); err != nil {
		return Request{}, err
	}

	req.Status = StatusRejected
	return req, nil
}

// ListOwnerInbox: join en dos pasos (mascotas del dueño → solicitudes por
// ese set de ids), porque la solicitud no carga al dueño.
func (s *Service) ListOwnerInbox(ctx context.Context, identity auth.Identity) ([]Request, error) {
	owned, err := s.pets.ListByOwner(ctx, identity.Email)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(owned))
	for _, p := range owned {
		ids = append(ids, p.ID)
	}
	if len(ids) == 0 {
		return []Request{}, nil
	}

	return s.repo.ListByPetIDs(ctx, ids)
}

// loadForDecision carga solicitud + mascota y aplica el ownership guard
// sobre la mascota recién cargada (nunca sobre datos del cliente).
func (s *Service) loadForDecision(ctx context.Context, identity auth.Identity, requestID string) (Request, pets.Pet, error) {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return Request{}, pets.Pet{}, ErrNotFound
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Request{}, pets.Pet{}, ErrNotFound
		}
		return Request{}, pets.Pet{}, err
	}
	if req.Status != StatusPending {
		return Request{}, pets.Pet{}, ErrNotPending
	}

	pet, err := s.pets.GetByID(ctx, req.PetID)
	if err != nil {
		if errors.Is(err, pets.ErrNotFound) {
			return Request{}, pets.Pet{}, ErrNotFound
		}
		return Request{}, pets.Pet{}, err
	}

	if !authz.IsOwner(identity, pet.OwnerEmail) {
		return Request{}, pets.Pet{}, ErrForbidden
	}

	return req, pet, nil
}
