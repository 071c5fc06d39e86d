// Package stripe implementa payments.Provider contra el API REST de Stripe
// (form-encoded, auth por secret key).
package stripe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pawlume-server/internal/platform/httpclient"
	"pawlume-server/internal/ports/payments"
)

const defaultBaseURL = "https://api.stripe.com"

type Config struct {
	SecretKey string

	// BaseURL solo se toca en tests.
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	secretKey string
	http      *httpclient.Client
}

var _ payments.Provider = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	hc, err := httpclient.NewWithBaseURL(baseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		secretKey: strings.TrimSpace(cfg.SecretKey),
		http:      hc,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.secretKey != ""
}

// CreateIntent crea el payment intent. El monto ya viene en unidades
// menores; la metadata viaja opaca y vuelve en el objeto del proveedor
// para la correlación posterior.
func (c *Client) CreateIntent(ctx context.Context, amountMinorUnits int64, currency string, metadata map[string]string) (payments.Intent, error) {
	if !c.IsConfigured() {
		return payments.Intent{}, payments.ErrNotConfigured
	}
	if amountMinorUnits <= 0 {
		return payments.Intent{}, fmt.Errorf("%w: amount must be positive", payments.ErrUpstream)
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountMinorUnits, 10))
	form.Set("currency", strings.ToLower(strings.TrimSpace(currency)))
	form.Set("payment_method_types[]", "card")
	for k, v := range metadata {
		form.Set("metadata["+k+"]", v)
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.secretKey,
	}

	var out struct {
		ID           string `json:"id"`
		ClientSecret string `json:"client_secret"`
	}
	if err := c.http.DoForm(ctx, http.MethodPost, "/v1/payment_intents", headers, form, &out); err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			return payments.Intent{}, fmt.Errorf("%w: status=%d", payments.ErrUpstream, httpErr.StatusCode)
		}
		return payments.Intent{}, fmt.Errorf("%w: %v", payments.ErrUpstream, err)
	}

	if out.ID == "" || out.ClientSecret == "" {
		return payments.Intent{}, fmt.Errorf("%w: response missing client_secret", payments.ErrUpstream)
	}

	return payments.Intent{ID: out.ID, ClientSecret: out.ClientSecret}, nil
}
