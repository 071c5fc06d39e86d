package pets

import "time"

// Category define las categorías con las que se lista el catálogo.
// @Enum dog, cat, bird, rabbit, other
type Category string

const (
	CategoryDog    Category = "dog"
	CategoryCat    Category = "cat"
	CategoryBird   Category = "bird"
	CategoryRabbit Category = "rabbit"
	CategoryOther  Category = "other"
)

// Pet es una mascota publicada para adopción.
// Invariante: Adopted es monótono (false→true una sola vez) y solo lo
// mueve el flujo de adopción al aceptar una solicitud.
type Pet struct {
	ID         string
	OwnerEmail string

	Name        string
	Category    Category
	Breed       string
	Age         string
	Location    string
	Image       string
	Description string

	Adopted bool

	CreatedAt time.Time
}
