package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"paw-connect/internal/platform/logger"
	"paw-connect/internal/platform/metrics"
	"paw-connect/internal/platform/retry"
	"paw-connect/internal/ports/auth"
	"paw-connect/internal/ports/directory"
	"paw-connect/internal/ports/search"
)

type Deps struct {
	Repo       Repository
	Vocabulary Vocabulary
	Directory  directory.Directory
	Index      search.Index
	// Retry acota la propagación a directorio e índice.
	Retry  retry.Policy
	Logger logger.Logger
}

type Service struct {
	repo  Repository
	vocab Vocabulary
	dir   directory.Directory
	index search.Index
	retry retry.Policy
	log   logger.Logger
}

func NewService(d Deps) *Service {
	log := d.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:  d.Repo,
		vocab: d.Vocabulary,
		dir:   d.Directory,
		index: d.Index,
		retry: d.Retry,
		log:   log.With(map[string]any{"component": "profiles"}),
	}
}

// GetOrCreate lee el perfil y, si no existe, crea uno vacío. Si otra request gana la
// carrera del insert (ErrConflict) se vuelve a leer en lugar de fallar.
func (s *Service) GetOrCreate(ctx context.Context, subject string) (Profile, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return Profile{}, ErrNotFound
	}

	p, err := s.repo.GetByID(ctx, subject)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Profile{}, err
	}

	if err := s.repo.Create(ctx, subject); err != nil && !errors.Is(err, ErrConflict) {
		return Profile{}, fmt.Errorf("create profile: %w", err)
	}
	return s.repo.GetByID(ctx, subject)
}

func (s *Service) Get(ctx context.Context, id string) (Profile, error) {
	return s.repo.GetByID(ctx, id)
}

// View arma perfil + identidad. Si el directorio falla y hay claims del mismo
// subject, se usan como respaldo.
func (s *Service) View(ctx context.Context, id string, fallback *auth.Claims) (View, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return View{}, err
	}

	ident, err := s.dir.GetIdentity(ctx, id)
	if err != nil {
		s.log.Warn("directory lookup failed", map[string]any{"profile_id": id, "err": err})
		ident = directory.Identity{ID: id}
		if fallback != nil && fallback.Subject == id {
			ident = identityFromClaims(*fallback)
		}
	}
	if ident.ID == "" {
		ident.ID = id
	}
	return View{Profile: p, Identity: ident}, nil
}

func (s *Service) SetPicture(ctx context.Context, subject, url string) error {
	return s.repo.SetPicture(ctx, subject, url)
}

func (s *Service) Search(ctx context.Context, query string) ([]search.Hit, error) {
	metrics.IncSearch()
	return s.index.Search(ctx, strings.TrimSpace(query))
}

type Mode int

const (
	// ModeMerge (PATCH): nil = no tocar.
	ModeMerge Mode = iota
	// ModeReplace (PUT): los escalares del perfil ausentes se escriben vacíos.
	ModeReplace
)

type UpdateInput struct {
	Mode Mode

	// identidad (directorio)
	Email      *string
	GivenName  *string
	FamilyName *string
	Username   *string

	// perfil local
	AboutMe     *string
	Description *string
	Location    *string

	// nil = no tocar (también en PUT); no-nil = reemplazo completo
	Specializations *[]string
}

type UpdateResult struct {
	Profile  Profile
	Identity directory.Identity
	Sync     SyncReport
}

// Update aplica un cambio de perfil manteniendo alineados base local, directorio e índice:
//
//	load -> resolve -> persist (tx) -> directory -> reproject -> respond
//
// El commit local es el punto de durabilidad. Lo que falle después no lo deshace;
// se informa en UpdateResult.Sync.
func (s *Service) Update(ctx context.Context, caller auth.Claims, targetID string, in UpdateInput) (UpdateResult, error) {
	// load: editar un perfil ajeno se ve igual que uno inexistente
	if strings.TrimSpace(targetID) == "" || caller.Subject != targetID {
		return UpdateResult{}, ErrNotFound
	}
	current, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return UpdateResult{}, err
	}

	// resolve
	var specs *[]string
	if in.Specializations != nil {
		resolved, err := s.vocab.Resolve(ctx, *in.Specializations)
		if err != nil {
			return UpdateResult{}, fmt.Errorf("resolve specializations: %w", err)
		}
		specs = &resolved
	}

	// persist
	next := applyScalars(current, in)
	if err := s.repo.Update(ctx, next, specs); err != nil {
		return UpdateResult{}, fmt.Errorf("persist profile: %w", err)
	}
	if specs != nil {
		next.Specializations = *specs
	}

	// directorio e índice no dependen de que el cliente siga conectado
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*s.retry.Budget()+time.Second)
	defer cancel()

	identity := mergeIdentity(caller, in)
	report := SyncReport{
		Directory: s.propagateDirectory(bg, targetID, in),
	}

	committed, err := s.repo.GetByID(bg, targetID)
	if err != nil {
		s.log.Warn("re-read after commit failed, projecting written state", map[string]any{
			"profile_id": targetID,
			"err":        err,
		})
		committed = next
	}

	report.Search = s.reproject(bg, committed, identity)

	if report.Degraded() {
		s.log.Warn("profile updated with degraded sync", map[string]any{
			"profile_id": targetID,
			"directory":  string(report.Directory),
			"search":     string(report.Search),
		})
	}

	return UpdateResult{Profile: committed, Identity: identity, Sync: report}, nil
}

func (s *Service) propagateDirectory(ctx context.Context, subject string, in UpdateInput) SyncStatus {
	ch := directory.Changes{Email: in.Email, GivenName: in.GivenName, FamilyName: in.FamilyName}
	if ch.Empty() {
		metrics.ObserveSync("directory", string(SyncSkipped))
		return SyncSkipped
	}

	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		err := s.dir.UpdateIdentity(ctx, subject, ch)
		if errors.Is(err, directory.ErrNotFound) || errors.Is(err, directory.ErrRejected) {
			return retry.Permanent(err)
		}
		return err
	})
	if err != nil {
		s.log.Error("directory propagation failed", map[string]any{"profile_id": subject, "err": err})
		metrics.ObserveSync("directory", string(SyncFailed))
		return SyncFailed
	}
	metrics.ObserveSync("directory", string(SyncOK))
	return SyncOK
}

func (s *Service) reproject(ctx context.Context, p Profile, ident directory.Identity) SyncStatus {
	doc := Document(p, ident)
	err := retry.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.index.Upsert(ctx, doc)
	})
	if err != nil {
		s.log.Error("search reprojection failed", map[string]any{"profile_id": p.ID, "err": err})
		metrics.ObserveSync("search", string(SyncFailed))
		return SyncFailed
	}
	metrics.ObserveSync("search", string(SyncOK))
	return SyncOK
}

// Document calcula la proyección de búsqueda: nombre visible = "<nombre> <apellido>".
func Document(p Profile, ident directory.Identity) search.Document {
	name := strings.TrimSpace(strings.TrimSpace(ident.GivenName) + " " + strings.TrimSpace(ident.FamilyName))
	return search.Document{
		ID:       p.ID,
		Username: name,
		AboutMe:  p.AboutMe,
	}
}

func applyScalars(p Profile, in UpdateInput) Profile {
	set := func(dst *string, v *string) {
		switch {
		case v != nil:
			*dst = strings.TrimSpace(*v)
		case in.Mode == ModeReplace:
			*dst = ""
		}
	}
	set(&p.AboutMe, in.AboutMe)
	set(&p.Description, in.Description)
	set(&p.Location, in.Location)
	return p
}

// mergeIdentity: lo que pidió el request, y para lo omitido los claims verificados.
func mergeIdentity(c auth.Claims, in UpdateInput) directory.Identity {
	id := identityFromClaims(c)
	if in.Email != nil {
		id.Email = *in.Email
	}
	if in.GivenName != nil {
		id.GivenName = *in.GivenName
	}
	if in.FamilyName != nil {
		id.FamilyName = *in.FamilyName
	}
	if in.Username != nil {
		id.Username = *in.Username
	}
	return id
}

func identityFromClaims(c auth.Claims) directory.Identity {
	return directory.Identity{
		ID:         c.Subject,
		Email:      c.Email,
		GivenName:  c.GivenName,
		FamilyName: c.FamilyName,
		Username:   c.Username,
	}
}
