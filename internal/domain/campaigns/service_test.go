package campaigns

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"pawlume-server/internal/ports/auth"
	"pawlume-server/internal/ports/payments"
)

// -------------------------
// Test doubles (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Campaign
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Campaign{}}
}

func (r *testRepo) Create(ctx context.Context, c Campaign) error {
	if _, ok := r.byID[c.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Campaign, error) {
	c, ok := r.byID[id]
	if !ok {
		return Campaign{}, ErrNotFound
	}
	return c, nil
}

func (r *testRepo) List(ctx context.Context) ([]Campaign, error) {
	out := make([]Campaign, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]Campaign, error) {
	out := make([]Campaign, 0)
	for _, c := range r.byID {
		if c.OwnerEmail == ownerEmail {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *testRepo) SetPaused(ctx context.Context, id string, paused bool) error {
	c, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	c.Paused = paused
	r.byID[id] = c
	return nil
}

// PushEntry replica el append condicional por payment_id del store.
func (r *testRepo) PushEntry(ctx context.Context, id string, e Entry) error {
	c, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	if e.PaymentID != "" {
		for _, prev := range c.Donators {
			if prev.PaymentID == e.PaymentID {
				return ErrDuplicatePayment
			}
		}
	}
	c.Donators = append(c.Donators, e)
	r.byID[id] = c
	return nil
}

func (r *testRepo) PullEntriesByEmail(ctx context.Context, id, donorEmail string) (int, error) {
	c, ok := r.byID[id]
	if !ok {
		return 0, ErrNotFound
	}
	kept := make([]Entry, 0, len(c.Donators))
	removed := 0
	for _, e := range c.Donators {
		if e.DonorEmail == donorEmail {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	c.Donators = kept
	r.byID[id] = c
	return removed, nil
}

func (r *testRepo) ListByDonor(ctx context.Context, donorEmail string) ([]Campaign, error) {
	out := make([]Campaign, 0)
	for _, c := range r.byID {
		for _, e := range c.Donators {
			if e.DonorEmail == donorEmail {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

type fakeProvider struct {
	lastAmount   int64
	lastCurrency string
	lastMetadata map[string]string
	err          error
}

func (p *fakeProvider) CreateIntent(ctx context.Context, amountMinorUnits int64, currency string, metadata map[string]string) (payments.Intent, error) {
	if p.err != nil {
		return payments.Intent{}, p.err
	}
	p.lastAmount = amountMinorUnits
	p.lastCurrency = currency
	p.lastMetadata = metadata
	return payments.Intent{ID: "pi_test", ClientSecret: "pi_test_secret"}, nil
}

func identityFor(email string) auth.Identity {
	return auth.Identity{SubjectID: "sub:" + email, Email: email, Role: auth.RoleUser}
}

func newTestService(provider payments.Provider) (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo, provider, "usd")
	return svc, repo
}

func mustCreate(t *testing.T, svc *Service, owner string) Campaign {
	t.Helper()
	c, err := svc.Create(context.Background(), identityFor(owner), CreateInput{
		Title:     "Refugio Norte",
		MaxAmount: 5000,
		LastDate:  time.Now().Add(30 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	return c
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_Validation(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()
	future := time.Now().Add(time.Hour)

	cases := []struct {
		name string
		id   auth.Identity
		in   CreateInput
	}{
		{"no email", auth.Identity{}, CreateInput{Title: "t", MaxAmount: 1, LastDate: future}},
		{"no title", identityFor("a@x"), CreateInput{MaxAmount: 1, LastDate: future}},
		{"zero max", identityFor("a@x"), CreateInput{Title: "t", MaxAmount: 0, LastDate: future}},
		{"zero date", identityFor("a@x"), CreateInput{Title: "t", MaxAmount: 1}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(ctx, tc.id, tc.in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tc.name, err)
		}
	}
}

func TestService_GetByID_MalformedID(t *testing.T) {
	svc, _ := newTestService(nil)

	if _, err := svc.GetByID(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for malformed id, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), primitive.NewObjectID().Hex()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestService_RecordPledge_AppendsEntry(t *testing.T) {
	svc, repo := newTestService(nil)
	c := mustCreate(t, svc, "owner@x")

	e, err := svc.RecordPledge(context.Background(), identityFor("donor@x"), c.ID, DonationInput{
		DonorName: "Dana",
		Amount:    25.50,
	})
	if err != nil {
		t.Fatalf("RecordPledge error: %v", err)
	}
	if e.ID == "" {
		t.Fatalf("expected generated entry id")
	}
	if e.PaymentID != "" {
		t.Fatalf("pledge must not carry a payment id")
	}

	stored, _ := repo.GetByID(context.Background(), c.ID)
	if len(stored.Donators) != 1 || stored.Donators[0].Amount != 25.50 {
		t.Fatalf("expected one entry of 25.50, got %+v", stored.Donators)
	}
}

func TestService_RecordPledge_ClosedCampaign(t *testing.T) {
	svc, repo := newTestService(nil)
	ctx := context.Background()
	donor := identityFor("donor@x")

	paused := mustCreate(t, svc, "owner@x")
	_ = repo.SetPaused(ctx, paused.ID, true)
	if _, err := svc.RecordPledge(ctx, donor, paused.ID, DonationInput{Amount: 10}); !errors.Is(err, ErrCampaignClosed) {
		t.Fatalf("paused: expected ErrCampaignClosed, got %v", err)
	}

	expired := mustCreate(t, svc, "owner@x")
	svc.now = func() time.Time { return expired.LastDate.Add(time.Minute) }
	if _, err := svc.RecordPledge(ctx, donor, expired.ID, DonationInput{Amount: 10}); !errors.Is(err, ErrCampaignClosed) {
		t.Fatalf("expired: expected ErrCampaignClosed, got %v", err)
	}
}

func TestService_RecordPledge_NonPositiveAmount(t *testing.T) {
	svc, _ := newTestService(nil)
	c := mustCreate(t, svc, "owner@x")

	for _, amount := range []float64{0, -5} {
		_, err := svc.RecordPledge(context.Background(), identityFor("donor@x"), c.ID, DonationInput{Amount: amount})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("amount %v: expected ErrInvalidInput, got %v", amount, err)
		}
	}
}

func TestService_CreatePaymentIntent_NoProvider(t *testing.T) {
	svc, _ := newTestService(nil)
	c := mustCreate(t, svc, "owner@x")

	_, err := svc.CreatePaymentIntent(context.Background(), identityFor("donor@x"), c.ID, 10)
	if !errors.Is(err, payments.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestService_CreatePaymentIntent_MinorUnitsAndMetadata(t *testing.T) {
	provider := &fakeProvider{}
	svc, _ := newTestService(provider)
	c := mustCreate(t, svc, "owner@x")

	intent, err := svc.CreatePaymentIntent(context.Background(), identityFor("donor@x"), c.ID, 50.005)
	if err != nil {
		t.Fatalf("CreatePaymentIntent error: %v", err)
	}
	if intent.ClientSecret != "pi_test_secret" {
		t.Fatalf("expected provider client secret, got %q", intent.ClientSecret)
	}
	// Redondeo al más cercano, no truncado.
	if provider.lastAmount != 5001 {
		t.Fatalf("expected 5001 minor units, got %d", provider.lastAmount)
	}
	if provider.lastCurrency != "usd" {
		t.Fatalf("expected usd, got %q", provider.lastCurrency)
	}
	if provider.lastMetadata["campaignId"] != c.ID || provider.lastMetadata["donorEmail"] != "donor@x" {
		t.Fatalf("unexpected metadata: %v", provider.lastMetadata)
	}
}

func TestService_CreatePaymentIntent_IntactLedger(t *testing.T) {
	provider := &fakeProvider{}
	svc, repo := newTestService(provider)
	c := mustCreate(t, svc, "owner@x")

	if _, err := svc.CreatePaymentIntent(context.Background(), identityFor("donor@x"), c.ID, 10); err != nil {
		t.Fatalf("CreatePaymentIntent error: %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), c.ID)
	if len(stored.Donators) != 0 {
		t.Fatalf("intent creation must not touch the ledger, got %d entries", len(stored.Donators))
	}
}

func TestService_ConfirmDonation_RequiresPaymentID(t *testing.T) {
	svc, _ := newTestService(nil)
	c := mustCreate(t, svc, "owner@x")

	_, err := svc.ConfirmDonation(context.Background(), identityFor("donor@x"), c.ID, ConfirmInput{Amount: 10})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without payment id, got %v", err)
	}
}

func TestService_ConfirmDonation_DuplicatePaymentID(t *testing.T) {
	svc, repo := newTestService(nil)
	c := mustCreate(t, svc, "owner@x")
	donor := identityFor("donor@x")

	in := ConfirmInput{DonorName: "Dana", Amount: 30, PaymentID: "pi_abc"}
	if _, err := svc.ConfirmDonation(context.Background(), donor, c.ID, in); err != nil {
		t.Fatalf("first confirm error: %v", err)
	}

	// Replay del cliente: mismo payment id, no acredita dos veces.
	if _, err := svc.ConfirmDonation(context.Background(), donor, c.ID, in); !errors.Is(err, ErrDuplicatePayment) {
		t.Fatalf("expected ErrDuplicatePayment on replay, got %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), c.ID)
	if len(stored.Donators) != 1 {
		t.Fatalf("expected a single ledger entry, got %d", len(stored.Donators))
	}
}

func TestService_Refund_AfterConfirm_ThenSecondRefundFails(t *testing.T) {
	svc, _ := newTestService(nil)
	c := mustCreate(t, svc, "owner@x")
	donor := identityFor("donor@x")
	ctx := context.Background()

	if _, err := svc.ConfirmDonation(ctx, donor, c.ID, ConfirmInput{Amount: 30, PaymentID: "pi_1"}); err != nil {
		t.Fatalf("confirm error: %v", err)
	}

	removed, err := svc.Refund(ctx, donor, c.ID)
	if err != nil {
		t.Fatalf("refund error: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}

	if _, err := svc.Refund(ctx, donor, c.ID); !errors.Is(err, ErrNoDonation) {
		t.Fatalf("expected ErrNoDonation on second refund, got %v", err)
	}
}

func TestService_Refund_BulkByEmail_OnlyCaller(t *testing.T) {
	svc, repo := newTestService(nil)
	c := mustCreate(t, svc, "owner@x")
	ctx := context.Background()

	donor := identityFor("donor@x")
	other := identityFor("other@x")

	_, _ = svc.RecordPledge(ctx, donor, c.ID, DonationInput{Amount: 10})
	_, _ = svc.RecordPledge(ctx, other, c.ID, DonationInput{Amount: 15})
	_, _ = svc.ConfirmDonation(ctx, donor, c.ID, ConfirmInput{Amount: 20, PaymentID: "pi_2"})

	removed, err := svc.Refund(ctx, donor, c.ID)
	if err != nil {
		t.Fatalf("refund error: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed for donor, got %d", removed)
	}

	stored, _ := repo.GetByID(ctx, c.ID)
	if len(stored.Donators) != 1 || stored.Donators[0].DonorEmail != "other@x" {
		t.Fatalf("expected only the other donor's entry to remain, got %+v", stored.Donators)
	}
}

func TestService_DonorHistory_FlattensAcrossCampaigns(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()
	donor := identityFor("donor@x")

	c1 := mustCreate(t, svc, "owner1@x")
	c2 := mustCreate(t, svc, "owner2@x")
	c3 := mustCreate(t, svc, "owner3@x")

	_, _ = svc.RecordPledge(ctx, donor, c1.ID, DonationInput{Amount: 10})
	_, _ = svc.RecordPledge(ctx, donor, c1.ID, DonationInput{Amount: 12})
	_, _ = svc.RecordPledge(ctx, donor, c2.ID, DonationInput{Amount: 20})
	_, _ = svc.RecordPledge(ctx, identityFor("other@x"), c3.ID, DonationInput{Amount: 99})

	history, err := svc.DonorHistory(ctx, donor)
	if err != nil {
		t.Fatalf("DonorHistory error: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 donations, got %d", len(history))
	}
	for _, d := range history {
		if d.Entry.DonorEmail != "donor@x" {
			t.Fatalf("history leaked a foreign entry: %+v", d)
		}
		if d.CampaignID == c3.ID {
			t.Fatalf("history must not include campaigns without caller entries")
		}
		if d.CampaignTitle == "" {
			t.Fatalf("expected campaign title on history rows")
		}
	}
}

func TestService_TogglePause_OwnerOnly(t *testing.T) {
	svc, _ := newTestService(nil)
	c := mustCreate(t, svc, "owner@x")
	ctx := context.Background()

	if _, err := svc.TogglePause(ctx, identityFor("intruder@x"), c.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	paused, err := svc.TogglePause(ctx, identityFor("owner@x"), c.ID)
	if err != nil {
		t.Fatalf("TogglePause error: %v", err)
	}
	if !paused {
		t.Fatalf("expected paused=true after first toggle")
	}

	paused, err = svc.TogglePause(ctx, identityFor("owner@x"), c.ID)
	if err != nil {
		t.Fatalf("TogglePause error: %v", err)
	}
	if paused {
		t.Fatalf("expected paused=false after second toggle")
	}
}

func TestService_ListDonators(t *testing.T) {
	svc, _ := newTestService(nil)
	c := mustCreate(t, svc, "owner@x")
	ctx := context.Background()

	entries, err := svc.ListDonators(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListDonators error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty donators, got %d", len(entries))
	}

	_, _ = svc.RecordPledge(ctx, identityFor("donor@x"), c.ID, DonationInput{DonorName: "Dana", Amount: 10})

	entries, err = svc.ListDonators(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListDonators error: %v", err)
	}
	if len(entries) != 1 || entries[0].DonorName != "Dana" {
		t.Fatalf("expected Dana's entry, got %+v", entries)
	}
}

func TestToMinorUnits(t *testing.T) {
	cases := []struct {
		amount float64
		want   int64
	}{
		{10, 1000},
		{0.01, 1},
		{25.50, 2550},
		{50.005, 5001},
		{19.999, 2000},
	}
	for _, tc := range cases {
		if got := toMinorUnits(tc.amount); got != tc.want {
			t.Fatalf("toMinorUnits(%v) = %d, want %d", tc.amount, got, tc.want)
		}
	}
}
