package profiles

import "paw-connect/internal/ports/directory"

// Profile es la parte del usuario que vive en nuestra base; la clave es el subject del token.
type Profile struct {
	ID          string
	Description string
	AboutMe     string
	Location    string
	Picture     string

	// ids de especialización, orden estable
	Specializations []string
	SocialLinks     []SocialLink
}

// SocialLink es la vista de solo lectura que acompaña al perfil.
type SocialLink struct {
	ID       int64
	Platform string
	URL      string
}

// View junta el perfil local con la identidad del directorio.
type View struct {
	Profile  Profile
	Identity directory.Identity
}

type SyncStatus string

const (
	SyncOK      SyncStatus = "ok"
	SyncFailed  SyncStatus = "failed"
	SyncSkipped SyncStatus = "skipped"
)

// SyncReport informa cómo terminó la propagación fuera de la base local.
type SyncReport struct {
	Directory SyncStatus `json:"directory"`
	Search    SyncStatus `json:"search"`
}

// Degraded indica que el commit local quedó bien pero algún sistema externo quedó atrasado.
func (r SyncReport) Degraded() bool {
	return r.Directory == SyncFailed || r.Search == SyncFailed
}
