package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/atinyakov/plantcafe/internal/forms"
	"github.com/atinyakov/plantcafe/internal/models"
	"github.com/atinyakov/plantcafe/internal/service"
	"go.uber.org/zap"
)

// maxSearchBody caps the JSON body of a plant search.
const maxSearchBody = 4 << 10

// PlantService defines the plant and catalog operations required by the handlers.
type PlantService interface {
	Search(ctx context.Context, term string) (service.SearchResult, error)
	List(ctx context.Context) ([]models.Plant, error)
	Get(ctx context.Context, id int64) (*models.Plant, error)
}

// PlantHandler serves the home page, the synced plant pages and the
// catalog search API.
type PlantHandler struct {
	PlantService PlantService
	Render       *Renderer
	Log          *zap.Logger
}

// Home renders the landing page with the search box.
func (h *PlantHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.Render.Render(w, r, http.StatusOK, "home", Page{Title: "Plant Cafe"})
}

// List renders every plant synced so far.
func (h *PlantHandler) List(w http.ResponseWriter, r *http.Request) {
	plants, err := h.PlantService.List(r.Context())
	if err != nil {
		h.Render.ServerError(w, r, err)
		return
	}
	h.Render.Render(w, r, http.StatusOK, "plants", Page{Title: "Plants", Data: map[string]any{"Plants": plants}})
}

// Detail renders one plant.
func (h *PlantHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.Render.NotFound(w, r)
		return
	}
	p, err := h.PlantService.Get(r.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		h.Render.NotFound(w, r)
		return
	}
	if err != nil {
		h.Render.ServerError(w, r, err)
		return
	}
	h.Render.Render(w, r, http.StatusOK, "plant", Page{Title: p.CommonName, Data: map[string]any{"Plant": p}})
}

// Search handles POST /api/get-plant-list. It answers with the catalog's
// JSON body unchanged after syncing the records it has not seen before.
func (h *PlantHandler) Search(w http.ResponseWriter, r *http.Request) {
	var f forms.PlantSearchForm
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSearchBody)).Decode(&f); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	f.Term = strings.TrimSpace(f.Term)
	if errs := forms.Validate(&f); !errs.Valid() {
		jsonError(w, http.StatusOK, errs)
		return
	}

	res, err := h.PlantService.Search(r.Context(), f.Term)
	if errors.Is(err, service.ErrCatalogUnavailable) {
		h.Log.Warn("plant catalog unavailable", zap.String("term", f.Term), zap.Error(err))
		jsonError(w, http.StatusBadGateway, "Plant catalog unavailable")
		return
	}
	if err != nil {
		h.Log.Error("plant search failed", zap.String("term", f.Term), zap.Error(err))
		jsonError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Raw)
}
