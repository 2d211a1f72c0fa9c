package sociallinks

// Link es un enlace a una red social del usuario. El id lo asigna la base (BIGSERIAL).
type Link struct {
	ID        int64
	ProfileID string
	Platform  string
	URL       string
}
