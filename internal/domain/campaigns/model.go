package campaigns

import "time"

// Campaign es una campaña de donación con su ledger embebido.
// Donators es un log append-mostly: el refund quita entradas por email.
type Campaign struct {
	ID         string
	OwnerEmail string

	Title       string
	Description string
	Image       string

	MaxAmount float64
	LastDate  time.Time
	Paused    bool

	Donators []Entry

	CreatedAt time.Time
}

// Entry es una entrada inmutable del ledger. Lleva id estable propio
// (no solo el email del donante) y, si vino por el proveedor de pagos,
// el id externo del payment intent.
type Entry struct {
	ID string

	DonorEmail string
	DonorName  string
	Amount     float64

	// PaymentID es la clave de idempotencia de la confirmación: un mismo
	// id externo solo puede quedar registrado una vez por campaña.
	PaymentID string

	CreatedAt time.Time
}

// DonorDonation es la proyección aplanada del historial de un donante:
// una fila por entrada, etiquetada con su campaña de origen.
type DonorDonation struct {
	CampaignID    string
	CampaignTitle string
	Entry         Entry
}
