// Package firebaseauth verifica bearer tokens contra el proveedor de
// identidad vía REST. Todas las causas de rechazo del proveedor colapsan
// en auth.ErrUnauthenticated; las fallas de transporte en auth.ErrUpstream.
package firebaseauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pawlume-server/internal/platform/httpclient"
	"pawlume-server/internal/ports/auth"
)

var ErrNotConfigured = errors.New("identity client not configured")

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	apiKey string
	http   *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		apiKey: strings.TrimSpace(cfg.APIKey),
		http:   hc,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

// VerifyToken hace el lookup del token en el proveedor y devuelve el sujeto.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrUnauthenticated
	}

	var out struct {
		Users []struct {
			LocalID string `json:"localId"`
			Email   string `json:"email"`
		} `json:"users"`
	}

	path := "/v1/accounts:lookup?key=" + url.QueryEscape(c.apiKey)
	err := c.http.DoJSON(ctx, http.MethodPost, path, nil, map[string]string{"idToken": token}, &out)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			// El proveedor responde 400 ante token expirado/inválido/revocado.
			switch httpErr.StatusCode {
			case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
				return auth.Claims{}, auth.ErrUnauthenticated
			}
			return auth.Claims{}, fmt.Errorf("%w: status=%d", auth.ErrUpstream, httpErr.StatusCode)
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrUpstream, err)
	}

	if len(out.Users) == 0 {
		return auth.Claims{}, auth.ErrUnauthenticated
	}

	u := out.Users[0]
	subject := strings.TrimSpace(u.LocalID)
	email := strings.TrimSpace(u.Email)
	if subject == "" || email == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing subject", auth.ErrUpstream)
	}

	return auth.Claims{SubjectID: subject, Email: email}, nil
}
