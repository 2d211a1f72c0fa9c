package services

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"paw-connect/internal/domain/media"
	"paw-connect/internal/domain/profiles"
	"paw-connect/internal/middleware"
	"paw-connect/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// RegisterRoutes monta /api/services. Requiere profiles.Authenticated en r.
func RegisterRoutes(r chi.Router, c *Catalog, uploader *media.Uploader, uploadLimit func(http.Handler) http.Handler) {
	if uploadLimit == nil {
		uploadLimit = func(next http.Handler) http.Handler { return next }
	}

	r.Route("/api/services", func(sr chi.Router) {
		sr.Post("/current", createServiceHandler(c))
		sr.Get("/", listServicesHandler(c))

		sr.Get("/{serviceID}", getServiceHandler(c))
		sr.Put("/{serviceID}", updateServiceHandler(c))
		sr.Delete("/{serviceID}", deleteServiceHandler(c))

		sr.With(uploadLimit).Post("/{serviceID}/media", uploadMediaHandler(c, uploader))
	})
}

type createServiceRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=5000"`
	Price       decimal.Decimal `json:"price"`
	Times       []int           `json:"times" validate:"max=200,dive,gte=0"`
}

type updateServiceRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price"`
	Times       *[]int           `json:"times" validate:"omitempty,max=200,dive,gte=0"`
}

type serviceResponse struct {
	ID          string      `json:"id"`
	ProfileID   string      `json:"profile_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Times       []int       `json:"times"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type serviceDetailResponse struct {
	serviceResponse
	Media []mediaResponse `json:"media"`
}

type mediaResponse struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	MediaType string `json:"media_type"`
}

// @Summary Publicar servicio
// @Tags services
// @Accept json
// @Produce json
// @Param payload body createServiceRequest true "Servicio"
// @Success 201 {object} serviceResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 422 {string} string "validation failed"
// @Router /api/services/current [post]
func createServiceHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := profiles.RequirePrincipal(w, r)
		if !ok {
			return
		}

		var req createServiceRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteDecodeError(w, err)
			return
		}

		s, err := c.Create(r.Context(), p.Profile.ID, CreateInput{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Times:       req.Times,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toServiceResponse(s))
	}
}

// @Summary Listar servicios
// @Tags services
// @Produce json
// @Success 200 {array} serviceResponse
// @Failure 401 {string} string "unauthorized"
// @Router /api/services [get]
func listServicesHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := profiles.RequirePrincipal(w, r); !ok {
			return
		}

		items, err := c.List(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		out := make([]serviceResponse, 0, len(items))
		for _, s := range items {
			out = append(out, toServiceResponse(s))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Detalle de servicio
// @Tags services
// @Produce json
// @Param serviceID path string true "ID del servicio"
// @Success 200 {object} serviceDetailResponse
// @Failure 404 {string} string "service not found"
// @Router /api/services/{serviceID} [get]
func getServiceHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := profiles.RequirePrincipal(w, r); !ok {
			return
		}

		s, items, err := c.Get(r.Context(), chi.URLParam(r, "serviceID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		out := serviceDetailResponse{
			serviceResponse: toServiceResponse(s),
			Media:           make([]mediaResponse, 0, len(items)),
		}
		for _, m := range items {
			out.Media = append(out.Media, toMediaResponse(m))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Editar servicio propio
// @Description Campos ausentes no se tocan.
// @Tags services
// @Accept json
// @Produce json
// @Param serviceID path string true "ID del servicio"
// @Param payload body updateServiceRequest true "Campos a cambiar"
// @Success 200 {object} serviceResponse
// @Failure 404 {string} string "service not found"
// @Router /api/services/{serviceID} [put]
func updateServiceHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := profiles.RequirePrincipal(w, r)
		if !ok {
			return
		}

		var req updateServiceRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteDecodeError(w, err)
			return
		}

		s, err := c.Update(r.Context(), p.Profile.ID, chi.URLParam(r, "serviceID"), UpdateInput{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Times:       req.Times,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toServiceResponse(s))
	}
}

// @Summary Borrar servicio propio
// @Description Borra también su media.
// @Tags services
// @Param serviceID path string true "ID del servicio"
// @Success 204 {string} string "no content"
// @Failure 404 {string} string "service not found"
// @Router /api/services/{serviceID} [delete]
func deleteServiceHandler(c *Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := profiles.RequirePrincipal(w, r)
		if !ok {
			return
		}

		if err := c.Delete(r.Context(), p.Profile.ID, chi.URLParam(r, "serviceID")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// @Summary Subir media a un servicio propio
// @Description multipart/form-data con campo `file`. Imágenes (.jpg, .jpeg, .png) o videos (.mp4, .avi, .mov).
// @Tags services
// @Accept multipart/form-data
// @Produce json
// @Param serviceID path string true "ID del servicio"
// @Param file formData file true "Archivo"
// @Success 201 {object} mediaResponse
// @Failure 400 {string} string "unsupported file format"
// @Failure 404 {string} string "service not found"
// @Failure 413 {string} string "file too large"
// @Failure 500 {string} string "storage error"
// @Router /api/services/{serviceID}/media [post]
func uploadMediaHandler(c *Catalog, uploader *media.Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := profiles.RequirePrincipal(w, r)
		if !ok {
			return
		}

		s, err := c.GetOwned(r.Context(), p.Profile.ID, chi.URLParam(r, "serviceID"))
		if err != nil {
			writeError(w, r, err)
			return
		}

		stored, err := uploader.FromRequest(w, r, media.ServiceMedia)
		if err != nil {
			if errors.Is(err, media.ErrStorage) {
				middleware.LoggerFrom(r.Context()).Error("service media upload failed", map[string]any{
					"service_id": s.ID,
					"err":        err,
				})
			}
			media.WriteError(w, err)
			return
		}

		m, err := c.AttachMedia(r.Context(), s.ID, stored)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toMediaResponse(m))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "service not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		middleware.LoggerFrom(r.Context()).Error("service request failed", map[string]any{"err": err})
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toServiceResponse(s Service) serviceResponse {
	times := s.Times
	if times == nil {
		times = []int{}
	}
	return serviceResponse{
		ID:          s.ID,
		ProfileID:   s.ProfileID,
		Name:        s.Name,
		Description: s.Description,
		Price:       json.Number(s.Price.StringFixed(2)),
		Times:       times,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toMediaResponse(m Media) mediaResponse {
	return mediaResponse{ID: m.ID, URL: m.URL, MediaType: string(m.Type)}
}
