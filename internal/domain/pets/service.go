package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("pet not found")
	ErrAlreadyAdopted = errors.New("pet already adopted")
)

const defaultListLimit = 50

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Name        string
	Category    string
	Breed       string
	Age         string
	Location    string
	Image       string
	Description string
}

func (s *Service) Create(ctx context.Context, ownerEmail string, in CreateInput) (Pet, error) {
	ownerEmail = strings.TrimSpace(ownerEmail)
	if ownerEmail == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Category) == "" {
		return Pet{}, ErrInvalidInput
	}

	p := Pet{
		ID:          primitive.NewObjectID().Hex(),
		OwnerEmail:  ownerEmail,
		Name:        strings.TrimSpace(in.Name),
		Category:    Category(strings.TrimSpace(in.Category)),
		Breed:       strings.TrimSpace(in.Breed),
		Age:         strings.TrimSpace(in.Age),
		Location:    strings.TrimSpace(in.Location),
		Image:       strings.TrimSpace(in.Image),
		Description: strings.TrimSpace(in.Description),
		Adopted:     false,
		CreatedAt:   s.now(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Pet, error) {
	if f.Limit <= 0 || f.Limit > defaultListLimit {
		f.Limit = defaultListLimit
	}
	if f.Skip < 0 {
		f.Skip = 0
	}
	return s.repo.List(ctx, f)
}

func (s *Service) ListByOwner(ctx context.Context, ownerEmail string) ([]Pet, error) {
	ownerEmail = strings.TrimSpace(ownerEmail)
	if ownerEmail == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, ownerEmail)
}

// MarkAdopted expone el flip condicional para el flujo de adopción.
// Nadie más debería llamarlo.
func (s *Service) MarkAdopted(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	return s.repo.MarkAdopted(ctx, id)
}
