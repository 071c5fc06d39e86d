package adoptions

import "time"

// Status es la máquina de estados de una solicitud:
// pending → accepted | rejected, ambos terminales.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Request es una solicitud de adopción. No tiene dueño propio: la
// autorización para aceptarla/rechazarla se deriva del dueño de la
// mascota referenciada. PetName/PetImage se denormalizan al crear.
type Request struct {
	ID    string
	PetID string

	PetName  string
	PetImage string

	RequesterEmail string
	Phone          string
	Address        string

	Status Status

	CreatedAt time.Time
}
