package sociallinks

import (
	"errors"
	"net/http"
	"strconv"

	"paw-connect/internal/domain/profiles"
	"paw-connect/internal/middleware"
	"paw-connect/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta los social links. Requiere profiles.Authenticated en r.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/api/users/users/current/social-links", listCurrentHandler(svc))
	r.Post("/api/users/users/current/social-links", createHandler(svc))
	r.Put("/api/users/users/current/social-links/{linkID}", updateHandler(svc))
	r.Delete("/api/users/users/current/social-links/{linkID}", deleteHandler(svc))

	r.Get("/api/users/users/{userID}/social-links", listHandler(svc))
}

type linkRequest struct {
	Platform string `json:"platform" validate:"required,max=50"`
	URL      string `json:"url" validate:"required,url,max=2048"`
}

type linkResponse struct {
	ID       int64  `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// @Summary Social links de un usuario
// @Tags social-links
// @Produce json
// @Param userID path string true "Subject del usuario"
// @Success 200 {array} linkResponse
// @Failure 401 {string} string "unauthorized"
// @Router /api/users/users/{userID}/social-links [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := profiles.RequirePrincipal(w, r); !ok {
			return
		}
		writeList(w, r, svc, chi.URLParam(r, "userID"))
	}
}

// @Summary Social links del usuario actual
// @Tags social-links
// @Produce json
// @Success 200 {array} linkResponse
// @Failure 401 {string} string "unauthorized"
// @Router /api/users/users/current/social-links [get]
func listCurrentHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := profiles.RequirePrincipal(w, r)
		if !ok {
			return
		}
		writeList(w, r, svc, p.Profile.ID)
	}
}

func writeList(w http.ResponseWriter, r *http.Request, svc *Service, profileID string) {
	items, err := svc.List(r.Context(), profileID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]linkResponse, 0, len(items))
	for _, l := range items {
		out = append(out, toResponse(l))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// @Summary Agregar social link
// @Tags social-links
// @Accept json
// @Produce json
// @Param payload body linkRequest true "Link"
// @Success 201 {object} linkResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 422 {string} string "validation failed"
// @Router /api/users/users/current/social-links [post]
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := profiles.RequirePrincipal(w, r)
		if !ok {
			return
		}

		var req linkRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteDecodeError(w, err)
			return
		}

		l, err := svc.Add(r.Context(), p.Profile.ID, Input{Platform: req.Platform, URL: req.URL})
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toResponse(l))
	}
}

// @Summary Editar social link propio
// @Tags social-links
// @Accept json
// @Produce json
// @Param linkID path int true "ID del link"
// @Param payload body linkRequest true "Link"
// @Success 200 {object} linkResponse
// @Failure 404 {string} string "social link not found"
// @Router /api/users/users/current/social-links/{linkID} [put]
func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := profiles.RequirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := linkID(w, r)
		if !ok {
			return
		}

		var req linkRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteDecodeError(w, err)
			return
		}

		l, err := svc.Update(r.Context(), p.Profile.ID, id, Input{Platform: req.Platform, URL: req.URL})
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toResponse(l))
	}
}

// @Summary Borrar social link propio
// @Tags social-links
// @Param linkID path int true "ID del link"
// @Success 204 {string} string "no content"
// @Failure 404 {string} string "social link not found"
// @Router /api/users/users/current/social-links/{linkID} [delete]
func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := profiles.RequirePrincipal(w, r)
		if !ok {
			return
		}
		id, ok := linkID(w, r)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), p.Profile.ID, id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ids no numéricos no pueden existir: 404 directo.
func linkID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "linkID"), 10, 64)
	if err != nil {
		http.Error(w, "social link not found", http.StatusNotFound)
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "social link not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		middleware.LoggerFrom(r.Context()).Error("social link request failed", map[string]any{"err": err})
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toResponse(l Link) linkResponse {
	return linkResponse{ID: l.ID, Platform: l.Platform, URL: l.URL}
}
