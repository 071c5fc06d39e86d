package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pawlume-server/internal/ports/auth"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("user not found")
)

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

// Register da de alta (o refresca) al caller en el user store con el rol base.
// Idempotente por email: si ya existe, conserva su rol.
func (s *Service) Register(ctx context.Context, identity auth.Identity, name string) (User, error) {
	email := strings.TrimSpace(identity.Email)
	if email == "" {
		return User{}, ErrInvalidInput
	}

	u := User{
		ID:        primitive.NewObjectID().Hex(),
		Email:     email,
		Name:      strings.TrimSpace(name),
		Role:      auth.RoleUser,
		CreatedAt: s.now(),
	}
	return s.repo.Upsert(ctx, u)
}

// ResolveRole hace exactamente un lookup por request. Usuario ausente no es
// falla: aplica el rol base. Así un cambio de rol rige al siguiente request.
func (s *Service) ResolveRole(ctx context.Context, email string) (auth.Role, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return auth.RoleUser, nil
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return auth.RoleUser, nil
		}
		return "", err
	}
	if u.Role == "" {
		return auth.RoleUser, nil
	}
	return u.Role, nil
}
