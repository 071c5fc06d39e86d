package firebaseauth

import (
	"context"
	"strings"

	"pawlume-server/internal/ports/auth"
)

// Verifier implementa auth.TokenVerifier sobre el Client.
type Verifier struct {
	client *Client
}

var _ auth.TokenVerifier = (*Verifier)(nil)

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrUnauthenticated
	}
	return v.client.VerifyToken(ctx, token)
}
