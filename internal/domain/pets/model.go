package pets

import "time"

// Gender sugerido para la UI; el backend acepta cualquier texto.
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// DateLayout es el formato de date_of_birth en la API.
const DateLayout = "2006-01-02"

// Pet representa una mascota registrada por su dueño.
type Pet struct {
	ID      string
	OwnerID string

	Name    string
	Species string // dog, cat, ...
	Breed   string
	Gender  string

	DateOfBirth *time.Time
	Weight      *float64 // kg

	Description string

	CreatedAt time.Time
	UpdatedAt time.Time
}
