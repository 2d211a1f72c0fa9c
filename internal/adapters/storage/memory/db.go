package memory

import (
	"sync"

	"paw-connect/internal/domain/pets"
	"paw-connect/internal/domain/services"
	"paw-connect/internal/domain/sociallinks"
	"paw-connect/internal/domain/specializations"
)

type profileRow struct {
	id          string
	description string
	aboutMe     string
	location    string
	picture     string
	specs       map[string]struct{}
}

// DB es el estado compartido de los repos in-memory (modo dev y tests).
// Un único mutex permite "joins" y cascadas como en la base real.
type DB struct {
	mu sync.RWMutex

	profiles map[string]*profileRow
	specs    map[string]specializations.Specialization
	links    map[int64]sociallinks.Link
	lastLink int64
	pets     map[string]pets.Pet
	services map[string]services.Service
	media    map[string][]services.Media
}

// NewDB arranca con el vocabulario de especializaciones sembrado.
func NewDB() *DB {
	db := &DB{
		profiles: make(map[string]*profileRow),
		specs:    make(map[string]specializations.Specialization),
		links:    make(map[int64]sociallinks.Link),
		pets:     make(map[string]pets.Pet),
		services: make(map[string]services.Service),
		media:    make(map[string][]services.Media),
	}
	for _, s := range specializations.Seed() {
		db.specs[s.ID] = s
	}
	return db
}
