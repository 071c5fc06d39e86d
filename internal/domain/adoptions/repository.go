package adoptions

import "context"

type Repository interface {
	Create(ctx context.Context, r Request) error
	GetByID(ctx context.Context, id string) (Request, error)

	// UpdateStatusIfPending transiciona pending → st en una sola operación
	// condicional del store. ErrNotPending si la solicitud ya salió de
	// pending, ErrNotFound si no existe.
	UpdateStatusIfPending(ctx context.Context, id string, st Status) error

	// ListByPetIDs devuelve las solicitudes de ese set de mascotas,
	// más nuevas primero.
	ListByPetIDs(ctx context.Context, petIDs []string) ([]Request, error)
}
