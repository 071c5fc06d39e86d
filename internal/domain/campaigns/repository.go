package campaigns

import "context"

type Repository interface {
	Create(ctx context.Context, c Campaign) error
	GetByID(ctx context.Context, id string) (Campaign, error)
	List(ctx context.Context) ([]Campaign, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]Campaign, error)

	SetPaused(ctx context.Context, id string, paused bool) error

	// PushEntry agrega al ledger con el primitivo atómico del store.
	// Si e.PaymentID != "", el append es condicional a que ese id no esté
	// ya en el ledger: ErrDuplicatePayment en replay.
	PushEntry(ctx context.Context, campaignID string, e Entry) error

	// PullEntriesByEmail quita TODAS las entradas del donante en una sola
	// operación atómica y devuelve cuántas quitó.
	PullEntriesByEmail(ctx context.Context, campaignID, donorEmail string) (int, error)

	// ListByDonor devuelve las campañas donde aparece el email en donators.
	ListByDonor(ctx context.Context, donorEmail string) ([]Campaign, error)
}
