package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pawlume-server/internal/domain/campaigns"
)

type campaignsRepo struct {
	mu   sync.RWMutex
	byID map[string]campaigns.Campaign
}

func NewCampaignsRepo() campaigns.Repository {
	return &campaignsRepo{
		byID: make(map[string]campaigns.Campaign),
	}
}

func (r *campaignsRepo) Create(ctx context.Context, c campaigns.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("campaign id required")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("campaign already exists")
	}
	if c.Donators == nil {
		c.Donators = []campaigns.Entry{}
	}
	r.byID[c.ID] = c
	return nil
}

func (r *campaignsRepo) GetByID(ctx context.Context, id string) (campaigns.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return campaigns.Campaign{}, campaigns.ErrNotFound
	}
	return cloneCampaign(c), nil
}

func (r *campaignsRepo) List(ctx context.Context) ([]campaigns.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]campaigns.Campaign, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, cloneCampaign(c))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *campaignsRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]campaigns.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]campaigns.Campaign, 0)
	for _, c := range r.byID {
		if c.OwnerEmail == ownerEmail {
			out = append(out, cloneCampaign(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *campaignsRepo) SetPaused(ctx context.Context, id string, paused bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[id]
	if !ok {
		return campaigns.ErrNotFound
	}
	c.Paused = paused
	r.byID[id] = c
	return nil
}

// PushEntry: el chequeo de PaymentID duplicado y el append van bajo el
// mismo lock, como el $push condicional del store real.
func (r *campaignsRepo) PushEntry(ctx context.Context, campaignID string, e campaigns.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[campaignID]
	if !ok {
		return campaigns.ErrNotFound
	}

	if e.PaymentID != "" {
		for _, existing := range c.Donators {
			if existing.PaymentID == e.PaymentID {
				return campaigns.ErrDuplicatePayment
			}
		}
	}

	c.Donators = append(c.Donators, e)
	r.byID[campaignID] = c
	return nil
}

func (r *campaignsRepo) PullEntriesByEmail(ctx context.Context, campaignID, donorEmail string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[campaignID]
	if !ok {
		return 0, campaigns.ErrNotFound
	}

	kept := make([]campaigns.Entry, 0, len(c.Donators))
	removed := 0
	for _, e := range c.Donators {
		if e.DonorEmail == donorEmail {
			removed++
			continue
		}
		kept = append(kept, e)
	}

	c.Donators = kept
	r.byID[campaignID] = c
	return removed, nil
}

func (r *campaignsRepo) ListByDonor(ctx context.Context, donorEmail string) ([]campaigns.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]campaigns.Campaign, 0)
	for _, c := range r.byID {
		for _, e := range c.Donators {
			if e.DonorEmail == donorEmail {
				out = append(out, cloneCampaign(c))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// cloneCampaign copia el slice embebido para que el caller no pueda mutar
// el ledger por fuera de los primitivos del repo.
func cloneCampaign(c campaigns.Campaign) campaigns.Campaign {
	donators := make([]campaigns.Entry, len(c.Donators))
	copy(donators, c.Donators)
	c.Donators = donators
	return c
}
