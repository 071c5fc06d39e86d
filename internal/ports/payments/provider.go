package payments

import (
	"context"
	"errors"
)

var (
	ErrNotConfigured = errors.New("payment provider not configured")
	ErrUpstream      = errors.New("payment provider unavailable")
)

// Intent es el objeto efímero del proveedor: no se persiste aquí,
// solo se referencia por id al reconciliar la donación.
type Intent struct {
	ID           string
	ClientSecret string
}

// Provider crea payment intents en el proveedor externo.
// El monto va en unidades menores (centavos) y la metadata viaja opaca
// para correlacionar después (campaignId, donorEmail).
type Provider interface {
	CreateIntent(ctx context.Context, amountMinorUnits int64, currency string, metadata map[string]string) (Intent, error)
}
