package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/atinyakov/plantcafe/internal/forms"
	"github.com/atinyakov/plantcafe/internal/middleware"
	"github.com/atinyakov/plantcafe/internal/models"
	"github.com/atinyakov/plantcafe/internal/repository"
	"github.com/atinyakov/plantcafe/internal/service"
)

// FlashAdminsOnly is shown when a non-admin reaches a cafe editing page.
const FlashAdminsOnly = "Only admins can add/edit cafes."

// CafeService defines the cafe operations required by the handlers.
type CafeService interface {
	List(ctx context.Context) ([]models.Cafe, error)
	Get(ctx context.Context, id int64) (*models.Cafe, error)
	Cities(ctx context.Context) ([]models.City, error)
	CityCodes(ctx context.Context) ([]string, error)
	Create(ctx context.Context, user *models.User, f forms.CafeForm) (*models.Cafe, error)
	Update(ctx context.Context, user *models.User, id int64, f forms.CafeForm) (*models.Cafe, error)
}

// CafeHandler serves the cafe pages.
type CafeHandler struct {
	CafeService CafeService
	Render      *Renderer
}

// List renders all cafes ordered by name.
func (h *CafeHandler) List(w http.ResponseWriter, r *http.Request) {
	cafes, err := h.CafeService.List(r.Context())
	if err != nil {
		h.Render.ServerError(w, r, err)
		return
	}
	h.Render.Render(w, r, http.StatusOK, "cafes", Page{Title: "Cafes", Data: map[string]any{"Cafes": cafes}})
}

// Detail renders one cafe.
func (h *CafeHandler) Detail(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCafe(w, r)
	if !ok {
		return
	}
	h.Render.Render(w, r, http.StatusOK, "cafe", Page{Title: c.Name, Data: map[string]any{"Cafe": c}})
}

// AddPage shows the empty cafe form to admins.
func (h *CafeHandler) AddPage(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	h.renderForm(w, r, "Add Cafe", "/cafes/add", &forms.CafeForm{}, nil)
}

// Add creates a cafe from the submitted form.
func (h *CafeHandler) Add(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	f, errs, ok := h.bindForm(w, r)
	if !ok {
		return
	}
	if !errs.Valid() {
		h.renderForm(w, r, "Add Cafe", "/cafes/add", f, errs)
		return
	}

	c, err := h.CafeService.Create(r.Context(), middleware.FromContext(r.Context()).User, *f)
	switch {
	case errors.Is(err, service.ErrForbidden):
		flashRedirect(w, r, FlashAdminsOnly, "/cafes")
	case errors.Is(err, repository.ErrConflict):
		addFlash(r, "Could not add cafe to database.")
		h.renderForm(w, r, "Add Cafe", "/cafes/add", f, nil)
	case err != nil:
		h.Render.ServerError(w, r, err)
	default:
		flashRedirect(w, r, c.Name+" added.", cafeURL(c.ID))
	}
}

// EditPage shows the cafe form prefilled with the stored cafe.
func (h *CafeHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	c, ok := h.loadCafe(w, r)
	if !ok {
		return
	}
	f := forms.CafeFormFor(c)
	h.renderForm(w, r, "Edit "+c.Name, cafeURL(c.ID)+"/edit", &f, nil)
}

// Edit saves the submitted form over the stored cafe.
func (h *CafeHandler) Edit(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	c, ok := h.loadCafe(w, r)
	if !ok {
		return
	}
	action := cafeURL(c.ID) + "/edit"
	f, errs, ok := h.bindForm(w, r)
	if !ok {
		return
	}
	if !errs.Valid() {
		h.renderForm(w, r, "Edit "+c.Name, action, f, errs)
		return
	}

	updated, err := h.CafeService.Update(r.Context(), middleware.FromContext(r.Context()).User, c.ID, *f)
	switch {
	case errors.Is(err, service.ErrForbidden):
		flashRedirect(w, r, FlashAdminsOnly, "/cafes")
	case errors.Is(err, service.ErrNotFound):
		h.Render.NotFound(w, r)
	case errors.Is(err, repository.ErrConflict):
		addFlash(r, "Could not save changes.")
		h.renderForm(w, r, "Edit "+c.Name, action, f, nil)
	case err != nil:
		h.Render.ServerError(w, r, err)
	default:
		flashRedirect(w, r, updated.Name+" edited.", cafeURL(c.ID))
	}
}

func (h *CafeHandler) loadCafe(w http.ResponseWriter, r *http.Request) (*models.Cafe, bool) {
	id, ok := idParam(r)
	if !ok {
		h.Render.NotFound(w, r)
		return nil, false
	}
	c, err := h.CafeService.Get(r.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		h.Render.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		h.Render.ServerError(w, r, err)
		return nil, false
	}
	return c, true
}

// bindForm decodes and validates the cafe form, including the city choice.
func (h *CafeHandler) bindForm(w http.ResponseWriter, r *http.Request) (*forms.CafeForm, forms.Errors, bool) {
	var f forms.CafeForm
	forms.Decode(postForm(r), &f)
	errs := forms.Validate(&f)

	codes, err := h.CafeService.CityCodes(r.Context())
	if err != nil {
		h.Render.ServerError(w, r, err)
		return nil, nil, false
	}
	f.CheckCity(codes, errs)
	return &f, errs, true
}

func (h *CafeHandler) renderForm(w http.ResponseWriter, r *http.Request, title, action string, f *forms.CafeForm, errs forms.Errors) {
	cities, err := h.CafeService.Cities(r.Context())
	if err != nil {
		h.Render.ServerError(w, r, err)
		return
	}
	forms.StripDefaults(f)
	h.Render.Render(w, r, http.StatusOK, "cafe_form", Page{
		Title:  title,
		Form:   f,
		Errors: errs,
		Data:   map[string]any{"Cities": cities, "Action": action},
	})
}

// requireAdmin sends everyone but admins back to the cafe list.
func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	u := middleware.FromContext(r.Context()).User
	if u == nil || !u.Admin {
		flashRedirect(w, r, FlashAdminsOnly, "/cafes")
		return false
	}
	return true
}

func cafeURL(id int64) string {
	return "/cafes/" + strconv.FormatInt(id, 10)
}
