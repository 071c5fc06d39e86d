package memory

import (
	"context"
	"sync"

	"pawlume-server/internal/domain/users"
)

type usersRepo struct {
	mu      sync.RWMutex
	byEmail map[string]users.User
}

func NewUsersRepo() users.Repository {
	return &usersRepo{
		byEmail: make(map[string]users.User),
	}
}

func (r *usersRepo) Upsert(ctx context.Context, u users.User) (users.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Si ya existe, conserva id y rol; solo refresca el nombre.
	if existing, ok := r.byEmail[u.Email]; ok {
		if u.Name != "" {
			existing.Name = u.Name
		}
		r.byEmail[u.Email] = existing
		return existing, nil
	}

	r.byEmail[u.Email] = u
	return u, nil
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}
