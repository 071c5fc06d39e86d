package pets

import "context"

type Repository interface {
	Create(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	List(ctx context.Context, f ListFilter) ([]Pet, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]Pet, error)

	// MarkAdopted es condicional: adopted=false → true en una sola
	// operación del store (find-and-modify). ErrAlreadyAdopted si el flag
	// ya estaba en true, ErrNotFound si la mascota no existe.
	MarkAdopted(ctx context.Context, id string) error
}

// ListFilter replica el contrato del catálogo público: búsqueda por nombre
// case-insensitive, filtro por categoría, no adoptadas, más nuevas primero.
type ListFilter struct {
	Search         string
	Category       string
	IncludeAdopted bool
	Skip           int64
	Limit          int64
}
