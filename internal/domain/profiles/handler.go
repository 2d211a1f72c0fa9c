package profiles

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"paw-connect/internal/domain/media"
	"paw-connect/internal/middleware"
	"paw-connect/internal/platform/httpx"
	"paw-connect/internal/ports/directory"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta las rutas de perfil. Se espera que r ya tenga Authenticated.
// uploadLimit envuelve la subida de foto (rate limit); puede ser nil.
func RegisterRoutes(r chi.Router, svc *Service, uploader *media.Uploader, uploadLimit func(http.Handler) http.Handler) {
	if uploadLimit == nil {
		uploadLimit = func(next http.Handler) http.Handler { return next }
	}

	r.Get("/api/users/users/current", getCurrentHandler(svc))
	r.With(uploadLimit).Post("/api/users/users/current/picture", uploadPictureHandler(svc, uploader))

	r.Get("/api/users/users/{userID}", getProfileHandler(svc))
	r.Put("/api/users/users/{userID}", updateProfileHandler(svc, ModeReplace))
	r.Patch("/api/users/users/{userID}", updateProfileHandler(svc, ModeMerge))

	r.Get("/api/users/search", searchHandler(svc))
}

// RegisterAdminRoutes expone la lectura de perfiles para otros servicios internos,
// protegida con X-Admin-Token. Sin token configurado no se monta.
func RegisterAdminRoutes(r chi.Router, svc *Service, token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}
	r.With(adminToken(token)).Get("/admin/api/users/users/{userID}", adminGetProfileHandler(svc))
}

// Punteros: nil = campo ausente en el body.
type updateProfileRequest struct {
	Email           *string   `json:"email" validate:"omitempty,email"`
	FirstName       *string   `json:"firstName" validate:"omitempty,max=100"`
	LastName        *string   `json:"lastName" validate:"omitempty,max=100"`
	Username        *string   `json:"username" validate:"omitempty,max=100"`
	AboutMe         *string   `json:"about_me" validate:"omitempty,max=5000"`
	Description     *string   `json:"description" validate:"omitempty,max=2000"`
	Location        *string   `json:"location" validate:"omitempty,max=200"`
	Specializations *[]string `json:"specializations" validate:"omitempty,max=50,dive,max=100"`
}

type socialLinkResponse struct {
	ID       int64  `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type profileResponse struct {
	ID              string               `json:"id"`
	Email           string               `json:"email"`
	FirstName       string               `json:"firstName"`
	LastName        string               `json:"lastName"`
	Username        string               `json:"username"`
	Picture         string               `json:"picture"`
	Description     string               `json:"description"`
	AboutMe         string               `json:"about_me"`
	Location        string               `json:"location"`
	Specializations []string             `json:"specializations"`
	SocialLinks     []socialLinkResponse `json:"social_links"`
}

type updateProfileResponse struct {
	profileResponse
	Sync SyncReport `json:"sync"`
}

type adminProfileResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Picture   string `json:"picture"`
	Location  string `json:"location"`
}

type searchHitResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Location    string `json:"location"`
}

type pictureResponse struct {
	URL string `json:"url"`
}

// @Summary Perfil del usuario actual
// @Description Devuelve el perfil del usuario autenticado; si es su primer acceso se crea vacío.
// @Tags profiles
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param X-Debug-User-ID header string false "Solo en modo dev"
// @Success 200 {object} profileResponse
// @Failure 401 {string} string "unauthorized"
// @Router /api/users/users/current [get]
func getCurrentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := RequirePrincipal(w, r)
		if !ok {
			return
		}

		v, err := svc.View(r.Context(), p.Profile.ID, &p.Claims)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toProfileResponse(v.Profile, v.Identity))
	}
}

// @Summary Perfil por ID
// @Tags profiles
// @Produce json
// @Param userID path string true "Subject del usuario"
// @Success 200 {object} profileResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "user not found"
// @Router /api/users/users/{userID} [get]
func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := RequirePrincipal(w, r)
		if !ok {
			return
		}

		v, err := svc.View(r.Context(), chi.URLParam(r, "userID"), &p.Claims)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toProfileResponse(v.Profile, v.Identity))
	}
}

// @Summary Actualizar perfil (PUT reemplaza, PATCH parcial)
// @Description Persiste el perfil y luego propaga email/nombre al directorio y la proyección al índice de búsqueda. Si alguno de esos pasos falla la respuesta sigue siendo 200 con `sync` indicando `failed`. Solo el dueño puede editar; otro usuario recibe 404.
// @Tags profiles
// @Accept json
// @Produce json
// @Param userID path string true "Subject del usuario"
// @Param payload body updateProfileRequest true "Campos del perfil"
// @Success 200 {object} updateProfileResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "user not found"
// @Failure 422 {string} string "validation failed"
// @Router /api/users/users/{userID} [put]
// @Router /api/users/users/{userID} [patch]
func updateProfileHandler(svc *Service, mode Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := RequirePrincipal(w, r)
		if !ok {
			return
		}

		var req updateProfileRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteDecodeError(w, err)
			return
		}

		res, err := svc.Update(r.Context(), p.Claims, chi.URLParam(r, "userID"), UpdateInput{
			Mode:            mode,
			Email:           req.Email,
			GivenName:       req.FirstName,
			FamilyName:      req.LastName,
			Username:        req.Username,
			AboutMe:         req.AboutMe,
			Description:     req.Description,
			Location:        req.Location,
			Specializations: req.Specializations,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, updateProfileResponse{
			profileResponse: toProfileResponse(res.Profile, res.Identity),
			Sync:            res.Sync,
		})
	}
}

// @Summary Subir foto de perfil
// @Description multipart/form-data con campo `file`. Solo .jpg, .jpeg, .png.
// @Tags profiles
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Imagen"
// @Success 201 {object} pictureResponse
// @Failure 400 {string} string "unsupported file format"
// @Failure 413 {string} string "file too large"
// @Failure 429 {string} string "too many requests"
// @Failure 500 {string} string "storage error"
// @Router /api/users/users/current/picture [post]
func uploadPictureHandler(svc *Service, uploader *media.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := RequirePrincipal(w, r)
		if !ok {
			return
		}

		stored, err := uploader.FromRequest(w, r, media.ImagesOnly)
		if err != nil {
			if errors.Is(err, media.ErrStorage) {
				middleware.LoggerFrom(r.Context()).Error("picture upload failed", map[string]any{"err": err})
			}
			media.WriteError(w, err)
			return
		}

		if err := svc.SetPicture(r.Context(), p.Profile.ID, stored.URL); err != nil {
			writeError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, pictureResponse{URL: stored.URL})
	}
}

// @Summary Buscar usuarios
// @Description Búsqueda por substring sobre nombre y "about me".
// @Tags profiles
// @Produce json
// @Param query query string false "Texto a buscar"
// @Success 200 {array} searchHitResponse
// @Failure 401 {string} string "unauthorized"
// @Router /api/users/search [get]
func searchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := RequirePrincipal(w, r); !ok {
			return
		}

		hits, err := svc.Search(r.Context(), r.URL.Query().Get("query"))
		if err != nil {
			middleware.LoggerFrom(r.Context()).Error("search failed", map[string]any{"err": err})
			http.Error(w, "search unavailable", http.StatusServiceUnavailable)
			return
		}

		out := make([]searchHitResponse, 0, len(hits))
		for _, h := range hits {
			out = append(out, searchHitResponse{
				ID:          h.ID,
				Name:        h.Username,
				Description: h.AboutMe,
				Type:        "user",
			})
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Perfil por ID (admin)
// @Tags admin
// @Produce json
// @Param X-Admin-Token header string true "Token de servicio"
// @Param userID path string true "Subject del usuario"
// @Success 200 {object} adminProfileResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 404 {string} string "user not found"
// @Router /admin/api/users/users/{userID} [get]
func adminGetProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.View(r.Context(), chi.URLParam(r, "userID"), nil)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, adminProfileResponse{
			ID:        v.Profile.ID,
			Email:     v.Identity.Email,
			FirstName: v.Identity.GivenName,
			LastName:  v.Identity.FamilyName,
			Username:  v.Identity.Username,
			Picture:   v.Profile.Picture,
			Location:  v.Profile.Location,
		})
	}
}

func adminToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get("X-Admin-Token")
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	default:
		middleware.LoggerFrom(r.Context()).Error("profile request failed", map[string]any{"err": err})
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toProfileResponse(p Profile, id directory.Identity) profileResponse {
	specs := p.Specializations
	if specs == nil {
		specs = []string{}
	}
	links := make([]socialLinkResponse, 0, len(p.SocialLinks))
	for _, l := range p.SocialLinks {
		links = append(links, socialLinkResponse{ID: l.ID, Platform: l.Platform, URL: l.URL})
	}
	return profileResponse{
		ID:              p.ID,
		Email:           id.Email,
		FirstName:       id.GivenName,
		LastName:        id.FamilyName,
		Username:        id.Username,
		Picture:         p.Picture,
		Description:     p.Description,
		AboutMe:         p.AboutMe,
		Location:        p.Location,
		Specializations: specs,
		SocialLinks:     links,
	}
}
