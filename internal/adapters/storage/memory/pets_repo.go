package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pawlume-server/internal/domain/pets"
)

type petsRepo struct {
	mu   sync.RWMutex
	byID map[string]pets.Pet
}

func NewPetsRepo() pets.Repository {
	return &petsRepo{
		byID: make(map[string]pets.Pet),
	}
}

func (r *petsRepo) Create(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pet already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *petsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *petsRepo) List(ctx context.Context, f pets.ListFilter) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if p.Adopted && !f.IncludeAdopted {
			continue
		}
		if f.Category != "" && string(p.Category) != f.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, p)
	}

	// Más nuevas primero, como el catálogo real.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	out = paginate(out, f.Skip, f.Limit)
	return out, nil
}

func (r *petsRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if p.OwnerEmail == ownerEmail {
			out = append(out, p)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// MarkAdopted replica el find-and-modify del store real: chequeo y flip
// bajo el mismo lock.
func (r *petsRepo) MarkAdopted(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.ErrNotFound
	}
	if p.Adopted {
		return pets.ErrAlreadyAdopted
	}
	p.Adopted = true
	r.byID[id] = p
	return nil
}

func paginate[T any](items []T, skip, limit int64) []T {
	if skip > 0 {
		if skip >= int64(len(items)) {
			return []T{}
		}
		items = items[skip:]
	}
	if limit > 0 && int64(len(items)) > limit {
		items = items[:limit]
	}
	return items
}
