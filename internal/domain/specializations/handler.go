package specializations

import (
	"errors"
	"net/http"

	"paw-connect/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes: lectura pública; alta/edición/baja requieren usuario autenticado (requireAuth).
func RegisterRoutes(r chi.Router, svc *Service, requireAuth func(http.Handler) http.Handler) {
	r.Route("/api/users/specializations", func(sr chi.Router) {
		sr.Get("/", listHandler(svc))

		sr.Group(func(wr chi.Router) {
			wr.Use(requireAuth)
			wr.Post("/", createHandler(svc))
			wr.Put("/{specID}", updateHandler(svc))
			wr.Delete("/{specID}", deleteHandler(svc))
		})
	})
}

type createRequest struct {
	Title            string `json:"title" validate:"required,max=200"`
	ShortDescription string `json:"short_description" validate:"max=1000"`
}

type updateRequest struct {
	Title            *string `json:"title" validate:"omitempty,max=200"`
	ShortDescription *string `json:"short_description" validate:"omitempty,max=1000"`
}

type specializationResponse struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	ShortDescription string `json:"short_description"`
}

// @Summary Listar especializaciones
// @Tags specializations
// @Produce json
// @Success 200 {array} specializationResponse
// @Router /api/users/specializations [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		out := make([]specializationResponse, 0, len(items))
		for _, s := range items {
			out = append(out, toResponse(s))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Crear especialización
// @Tags specializations
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer token"
// @Param payload body createRequest true "Especialización"
// @Success 201 {object} specializationResponse
// @Failure 401 {string} string "unauthorized"
// @Failure 422 {string} string "validation failed"
// @Router /api/users/specializations [post]
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteDecodeError(w, err)
			return
		}

		sp, err := svc.Create(r.Context(), CreateInput{
			Title:            req.Title,
			ShortDescription: req.ShortDescription,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toResponse(sp))
	}
}

// @Summary Editar especialización
// @Tags specializations
// @Accept json
// @Produce json
// @Param specID path string true "ID de la especialización"
// @Param payload body updateRequest true "Campos a cambiar"
// @Success 200 {object} specializationResponse
// @Failure 404 {string} string "specialization not found"
// @Router /api/users/specializations/{specID} [put]
func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteDecodeError(w, err)
			return
		}

		sp, err := svc.Update(r.Context(), chi.URLParam(r, "specID"), UpdateInput{
			Title:            req.Title,
			ShortDescription: req.ShortDescription,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toResponse(sp))
	}
}

// @Summary Borrar especialización
// @Tags specializations
// @Param specID path string true "ID de la especialización"
// @Success 204 {string} string "no content"
// @Failure 404 {string} string "specialization not found"
// @Router /api/users/specializations/{specID} [delete]
func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "specID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "specialization not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toResponse(s Specialization) specializationResponse {
	return specializationResponse{
		ID:               s.ID,
		Title:            s.Title,
		ShortDescription: s.ShortDescription,
	}
}
