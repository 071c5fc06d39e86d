package stripe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pawlume-server/internal/ports/payments"
)

func TestClient_CreateIntent(t *testing.T) {
	var gotAuth string
	var gotForm map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/payment_intents" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotForm = map[string]string{}
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_123","client_secret":"pi_123_secret"}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{SecretKey: "sk_test_abc", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	intent, err := c.CreateIntent(context.Background(), 2550, "USD", map[string]string{
		"campaignId": "cmp1",
		"donorEmail": "a@x",
	})
	if err != nil {
		t.Fatalf("CreateIntent error: %v", err)
	}
	if intent.ID != "pi_123" || intent.ClientSecret != "pi_123_secret" {
		t.Fatalf("unexpected intent: %+v", intent)
	}

	if gotAuth != "Bearer sk_test_abc" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if gotForm["amount"] != "2550" {
		t.Fatalf("expected amount=2550, got %q", gotForm["amount"])
	}
	if gotForm["currency"] != "usd" {
		t.Fatalf("expected lowercased currency, got %q", gotForm["currency"])
	}
	if gotForm["payment_method_types[]"] != "card" {
		t.Fatalf("expected card payment method, got %q", gotForm["payment_method_types[]"])
	}
	if gotForm["metadata[campaignId]"] != "cmp1" || gotForm["metadata[donorEmail]"] != "a@x" {
		t.Fatalf("metadata not forwarded: %v", gotForm)
	}
}

func TestClient_CreateIntent_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":{"message":"invalid key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := NewClient(Config{SecretKey: "sk_bad", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	_, err = c.CreateIntent(context.Background(), 1000, "usd", nil)
	if !errors.Is(err, payments.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestClient_CreateIntent_NotConfigured(t *testing.T) {
	c, err := NewClient(Config{SecretKey: ""})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	_, err = c.CreateIntent(context.Background(), 1000, "usd", nil)
	if !errors.Is(err, payments.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestClient_CreateIntent_NonPositiveAmount(t *testing.T) {
	c, err := NewClient(Config{SecretKey: "sk_test"})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}

	_, err = c.CreateIntent(context.Background(), 0, "usd", nil)
	if !errors.Is(err, payments.ErrUpstream) {
		t.Fatalf("expected error for zero amount, got %v", err)
	}
}
