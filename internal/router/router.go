package router

import (
	"database/sql"
	"net/http"
	"time"

	dirmem "paw-connect/internal/adapters/directory/memory"
	objmem "paw-connect/internal/adapters/objectstore/memory"
	searchmem "paw-connect/internal/adapters/search/memory"
	mem "paw-connect/internal/adapters/storage/memory"
	pg "paw-connect/internal/adapters/storage/postgres"
	"paw-connect/internal/domain/media"
	"paw-connect/internal/domain/pets"
	"paw-connect/internal/domain/profiles"
	"paw-connect/internal/domain/services"
	"paw-connect/internal/domain/sociallinks"
	"paw-connect/internal/domain/specializations"
	"paw-connect/internal/middleware"
	"paw-connect/internal/platform/logger"
	"paw-connect/internal/platform/metrics"
	"paw-connect/internal/platform/retry"
	"paw-connect/internal/ports/auth"
	"paw-connect/internal/ports/directory"
	"paw-connect/internal/ports/objectstore"
	"paw-connect/internal/ports/search"

	_ "paw-connect/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	Logger logger.Logger

	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Clientes externos; nil => implementación in-memory (dev/tests).
	Directory   directory.Directory
	Index       search.Index
	ObjectStore objectstore.Store

	// UploadLimiter limita subidas por usuario; nil => sin límite.
	UploadLimiter middleware.Limiter

	MaxUploadBytes int64
	Retry          retry.Policy

	// AdminToken habilita /admin/...; vacío => no se monta.
	AdminToken string
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	dir := opts.Directory
	if dir == nil {
		dir = dirmem.New()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(middleware.Recover)
	r.Use(metrics.Middleware)

	r.Use(middleware.AuthContext(opts.AuthVerifier))
	if md, ok := dir.(*dirmem.Directory); ok {
		r.Use(rememberCaller(md))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		profileRepo profiles.Repository
		specRepo    specializations.Repository
		linkRepo    sociallinks.Repository
		petRepo     pets.Repository
		serviceRepo services.Repository
	)

	if opts.DB != nil {
		profileRepo = pg.NewProfilesRepo(opts.DB)
		specRepo = pg.NewSpecializationsRepo(opts.DB)
		linkRepo = pg.NewSocialLinksRepo(opts.DB)
		petRepo = pg.NewPetsRepo(opts.DB)
		serviceRepo = pg.NewServicesRepo(opts.DB)
	} else {
		db := mem.NewDB()
		profileRepo = mem.NewProfileRepo(db)
		specRepo = mem.NewSpecializationRepo(db)
		linkRepo = mem.NewSocialLinkRepo(db)
		petRepo = mem.NewPetRepo(db)
		serviceRepo = mem.NewServiceRepo(db)
	}

	index := opts.Index
	if index == nil {
		index = searchmem.New()
	}
	store := opts.ObjectStore
	if store == nil {
		store = objmem.New("user-media", "http://localhost:9000")
	}

	// Services por módulo
	specsSvc := specializations.NewService(specRepo)
	profilesSvc := profiles.NewService(profiles.Deps{
		Repo:       profileRepo,
		Vocabulary: specsSvc,
		Directory:  dir,
		Index:      index,
		Retry:      opts.Retry,
		Logger:     log,
	})
	linksSvc := sociallinks.NewService(linkRepo)
	petsSvc := pets.NewService(petRepo)
	catalog := services.NewCatalog(serviceRepo)
	uploader := media.NewUploader(store, opts.MaxUploadBytes)

	var uploadLimit func(http.Handler) http.Handler
	if opts.UploadLimiter != nil {
		uploadLimit = middleware.RateLimit(opts.UploadLimiter, "upload", int(time.Minute/time.Second))
	}

	authenticated := profiles.Authenticated(profilesSvc)

	// Vocabulario: lectura pública
	specializations.RegisterRoutes(r, specsSvc, authenticated)

	// Resto de la API: usuario autenticado con perfil garantizado
	r.Group(func(ar chi.Router) {
		ar.Use(authenticated)

		profiles.RegisterRoutes(ar, profilesSvc, uploader, uploadLimit)
		sociallinks.RegisterRoutes(ar, linksSvc)
		pets.RegisterRoutes(ar, petsSvc)
		services.RegisterRoutes(ar, catalog, uploader, uploadLimit)
	})

	profiles.RegisterAdminRoutes(r, profilesSvc, opts.AdminToken)

	return r
}

// rememberCaller da de alta en el directorio en memoria a quien se autenticó,
// como ya lo estaría en el IdP real.
func rememberCaller(d *dirmem.Directory) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, ok := middleware.GetClaims(r.Context()); ok {
				d.Remember(directory.Identity{
					ID:         c.Subject,
					Email:      c.Email,
					GivenName:  c.GivenName,
					FamilyName: c.FamilyName,
					Username:   c.Username,
				})
			}
			next.ServeHTTP(w, r)
		})
	}
}
