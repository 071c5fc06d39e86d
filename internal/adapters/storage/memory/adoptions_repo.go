package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pawlume-server/internal/domain/adoptions"
)

type adoptionsRepo struct {
	mu   sync.RWMutex
	byID map[string]adoptions.Request
}

func NewAdoptionsRepo() adoptions.Repository {
	return &adoptionsRepo{
		byID: make(map[string]adoptions.Request),
	}
}

func (r *adoptionsRepo) Create(ctx context.Context, req adoptions.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(req.ID) == "" {
		return errors.New("request id required")
	}
	if _, exists := r.byID[req.ID]; exists {
		return errors.New("request already exists")
	}
	r.byID[req.ID] = req
	return nil
}

func (r *adoptionsRepo) GetByID(ctx context.Context, id string) (adoptions.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.byID[id]
	if !ok {
		return adoptions.Request{}, adoptions.ErrNotFound
	}
	return req, nil
}

// UpdateStatusIfPending: chequeo + transición bajo el mismo lock, igual que
// la update condicional del store real.
func (r *adoptionsRepo) UpdateStatusIfPending(ctx context.Context, id string, st adoptions.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.byID[id]
	if !ok {
		return adoptions.ErrNotFound
	}
	if req.Status != adoptions.StatusPending {
		return adoptions.ErrNotPending
	}
	req.Status = st
	r.byID[id] = req
	return nil
}

func (r *adoptionsRepo) ListByPetIDs(ctx context.Context, petIDs []string) ([]adoptions.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]struct{}, len(petIDs))
	for _, id := range petIDs {
		wanted[id] = struct{}{}
	}

	out := make([]adoptions.Request, 0)
	for _, req := range r.byID {
		if _, ok := wanted[req.PetID]; ok {
			out = append(out, req)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
