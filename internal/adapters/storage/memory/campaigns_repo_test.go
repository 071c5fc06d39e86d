package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"pawlume-server/internal/domain/campaigns"
)

func seedCampaign(t *testing.T, repo campaigns.Repository, owner string) campaigns.Campaign {
	t.Helper()
	c := campaigns.Campaign{
		ID:         primitive.NewObjectID().Hex(),
		OwnerEmail: owner,
		Title:      "Refugio Norte",
		MaxAmount:  5000,
		LastDate:   time.Now().Add(24 * time.Hour),
		CreatedAt:  time.Now(),
	}
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("seed campaign: %v", err)
	}
	return c
}

func entryFor(email, paymentID string, amount float64) campaigns.Entry {
	return campaigns.Entry{
		ID:         uuid.NewString(),
		DonorEmail: email,
		Amount:     amount,
		PaymentID:  paymentID,
		CreatedAt:  time.Now(),
	}
}

func TestCampaignsRepo_PushEntry_DuplicatePaymentID(t *testing.T) {
	repo := NewCampaignsRepo()
	ctx := context.Background()
	c := seedCampaign(t, repo, "owner@x")

	if err := repo.PushEntry(ctx, c.ID, entryFor("a@x", "pi_1", 10)); err != nil {
		t.Fatalf("first push error: %v", err)
	}
	if err := repo.PushEntry(ctx, c.ID, entryFor("a@x", "pi_1", 10)); !errors.Is(err, campaigns.ErrDuplicatePayment) {
		t.Fatalf("expected ErrDuplicatePayment, got %v", err)
	}

	// Sin payment id no hay clave de idempotencia: ambas entran.
	if err := repo.PushEntry(ctx, c.ID, entryFor("a@x", "", 5)); err != nil {
		t.Fatalf("pledge push error: %v", err)
	}
	if err := repo.PushEntry(ctx, c.ID, entryFor("a@x", "", 5)); err != nil {
		t.Fatalf("second pledge push error: %v", err)
	}

	got, _ := repo.GetByID(ctx, c.ID)
	if len(got.Donators) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got.Donators))
	}
}

func TestCampaignsRepo_PushEntry_ConcurrentReplay(t *testing.T) {
	repo := NewCampaignsRepo()
	ctx := context.Background()
	c := seedCampaign(t, repo, "owner@x")

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.PushEntry(ctx, c.ID, entryFor("a@x", "pi_replay", 30))
		}()
	}
	wg.Wait()
	close(results)

	ok := 0
	for err := range results {
		if err == nil {
			ok++
		} else if !errors.Is(err, campaigns.ErrDuplicatePayment) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("expected exactly one successful push, got %d", ok)
	}

	got, _ := repo.GetByID(ctx, c.ID)
	if len(got.Donators) != 1 {
		t.Fatalf("expected a single ledger entry, got %d", len(got.Donators))
	}
}

func TestCampaignsRepo_PullEntriesByEmail(t *testing.T) {
	repo := NewCampaignsRepo()
	ctx := context.Background()
	c := seedCampaign(t, repo, "owner@x")

	_ = repo.PushEntry(ctx, c.ID, entryFor("a@x", "pi_1", 10))
	_ = repo.PushEntry(ctx, c.ID, entryFor("b@x", "pi_2", 20))
	_ = repo.PushEntry(ctx, c.ID, entryFor("a@x", "", 5))

	removed, err := repo.PullEntriesByEmail(ctx, c.ID, "a@x")
	if err != nil {
		t.Fatalf("pull error: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}

	removed, err = repo.PullEntriesByEmail(ctx, c.ID, "a@x")
	if err != nil {
		t.Fatalf("second pull error: %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected 0 removed on second pull, got %d", removed)
	}

	got, _ := repo.GetByID(ctx, c.ID)
	if len(got.Donators) != 1 || got.Donators[0].DonorEmail != "b@x" {
		t.Fatalf("expected b@x's entry to survive, got %+v", got.Donators)
	}
}

func TestCampaignsRepo_GetByID_ReturnsCopy(t *testing.T) {
	repo := NewCampaignsRepo()
	ctx := context.Background()
	c := seedCampaign(t, repo, "owner@x")
	_ = repo.PushEntry(ctx, c.ID, entryFor("a@x", "pi_1", 10))

	got, _ := repo.GetByID(ctx, c.ID)
	got.Donators[0].Amount = 9999

	again, _ := repo.GetByID(ctx, c.ID)
	if again.Donators[0].Amount != 10 {
		t.Fatalf("mutating the returned slice must not touch the stored ledger")
	}
}

func TestCampaignsRepo_ListByDonor(t *testing.T) {
	repo := NewCampaignsRepo()
	ctx := context.Background()

	c1 := seedCampaign(t, repo, "owner1@x")
	c2 := seedCampaign(t, repo, "owner2@x")
	_ = seedCampaign(t, repo, "owner3@x")

	_ = repo.PushEntry(ctx, c1.ID, entryFor("a@x", "", 10))
	_ = repo.PushEntry(ctx, c2.ID, entryFor("a@x", "", 20))
	_ = repo.PushEntry(ctx, c2.ID, entryFor("b@x", "", 30))

	matched, err := repo.ListByDonor(ctx, "a@x")
	if err != nil {
		t.Fatalf("ListByDonor error: %v", err)
	}
	if len(matched) != 2 {
		t.Fatalf("expected 2 campaigns for a@x, got %d", len(matched))
	}
}
