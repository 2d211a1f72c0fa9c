package pets

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"paw-connect/internal/domain/profiles"
	"paw-connect/internal/middleware"
	"paw-connect/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /api/users/pets. Requiere profiles.Authenticated en r.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/users/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc))
		// ?user_id= permite ver las mascotas de otro usuario
		pr.Get("/", listPetsHandler(svc))

		// Solo el dueño; una mascota ajena responde 404
		pr.Get("/{petID}", getPetHandler(svc))
		pr.Patch("/{petID}", updatePetHandler(svc))
		pr.Delete("/{petID}", deletePetHandler(svc))
	})
}

type createPetRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Species     string   `json:"species" validate:"required,max=50"`
	Breed       string   `json:"breed" validate:"max=100"`
	Gender      string   `json:"gender" validate:"max=20"`
	DateOfBirth string   `json:"date_of_birth"` // YYYY-MM-DD opcional
	Weight      *float64 `json:"weight" validate:"omitempty,gte=0"`
	Description string   `json:"description" validate:"max=2000"`
}

type updatePetRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name        *string  `json:"name" validate:"omitempty,max=100"`
	Species     *string  `json:"species" validate:"omitempty,max=50"`
	Breed       *string  `json:"breed" validate:"omitempty,max=100"`
	Gender      *string  `json:"gender" validate:"omitempty,max=20"`
	DateOfBirth *string  `json:"date_of_birth"`
	Weight      *float64 `json:"weight" validate:"omitempty,gte=0"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
}

type petResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Species     string    `json:"species"`
	Breed       string    `json:"breed"`
	Gender      string    `json:"gender"`
	DateOfBirth *string   `json:"date_of_birth"`
	Weight      *float64  `json:"weight"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// @Summary Registrar mascota
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body createPetRequest true "Mascota"
// @Success 201 {object} petResponse
// @Failure 400 {string} string "invalid json"
// @Failure 401 {string} string "unauthorized"
// @Failure 422 {string} string "validation failed"
// @Router /api/users/pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := profiles.RequirePrincipal(w, r)
		if !ok {
			return
		}

		var req createPetRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteDecodeError(w, err)
			return
		}

		var dob *time.Time
		if strings.TrimSpace(req.DateOfBirth) != "" {
			t, err := time.Parse(DateLayout, req.DateOfBirth)
			if err != nil {
				http.Error(w, "date_of_birth must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			dob = &t
		}

		p, err := svc.Create(r.Context(), principal.Profile.ID, CreateInput{
			Name:        req.Name,
			Species:     req.Species,
			Breed:       req.Breed,
			Gender:      req.Gender,
			DateOfBirth: dob,
			Weight:      req.Weight,
			Description: req.Description,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// @Summary Listar mascotas
// @Description Sin user_id lista las del usuario actual.
// @Tags pets
// @Produce json
// @Param user_id query string false "Dueño"
// @Success 200 {array} petResponse
// @Failure 401 {string} string "unauthorized"
// @Router /api/users/pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := profiles.RequirePrincipal(w, r)
		if !ok {
			return
		}

		owner := strings.TrimSpace(r.URL.Query().Get("user_id"))
		if owner == "" {
			owner = principal.Profile.ID
		}

		items, err := svc.ListByOwner(r.Context(), owner)
		if err != nil {
			writeError(w, r, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}

		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Detalle de mascota propia
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 404 {string} string "pet not found"
// @Router /api/users/pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := profiles.RequirePrincipal(w, r)
		if !ok {
			return
		}

		p, err := svc.GetOwned(r.Context(), principal.Profile.ID, chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toPetResponse(p))
	}
}

// @Summary Actualizar mascota (parcial)
// @Tags pets
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body updatePetRequest true "Campos a cambiar"
// @Success 200 {object} petResponse
// @Failure 400 {string} string "invalid json"
// @Failure 404 {string} string "pet not found"
// @Router /api/users/pets/{petID} [patch]
func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := profiles.RequirePrincipal(w, r)
		if !ok {
			return
		}

		var req updatePetRequest
		if err := httpx.Decode(r, &req); err != nil {
			httpx.WriteDecodeError(w, err)
			return
		}

		var dob *time.Time
		if req.DateOfBirth != nil && strings.TrimSpace(*req.DateOfBirth) != "" {
			t, err := time.Parse(DateLayout, *req.DateOfBirth)
			if err != nil {
				http.Error(w, "date_of_birth must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			dob = &t
		}

		updated, err := svc.Update(r.Context(), principal.Profile.ID, chi.URLParam(r, "petID"), UpdateInput{
			Name:        req.Name,
			Species:     req.Species,
			Breed:       req.Breed,
			Gender:      req.Gender,
			DateOfBirth: dob,
			Weight:      req.Weight,
			Description: req.Description,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		httpx.WriteJSON(w, http.StatusOK, toPetResponse(updated))
	}
}

// @Summary Borrar mascota propia
// @Tags pets
// @Param petID path string true "ID de la mascota"
// @Success 204 {string} string "no content"
// @Failure 404 {string} string "pet not found"
// @Router /api/users/pets/{petID} [delete]
func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := profiles.RequirePrincipal(w, r)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), principal.Profile.ID, chi.URLParam(r, "petID")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		middleware.LoggerFrom(r.Context()).Error("pet request failed", map[string]any{"err": err})
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toPetResponse(p Pet) petResponse {
	var dob *string
	if p.DateOfBirth != nil {
		s := p.DateOfBirth.Format(DateLayout)
		dob = &s
	}
	return petResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Species:     p.Species,
		Breed:       p.Breed,
		Gender:      p.Gender,
		DateOfBirth: dob,
		Weight:      p.Weight,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
