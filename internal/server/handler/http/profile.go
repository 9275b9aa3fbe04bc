package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/atinyakov/plantcafe/internal/forms"
	"github.com/atinyakov/plantcafe/internal/models"
	"github.com/atinyakov/plantcafe/internal/repository"
)

// LikeService defines the like operations required by the handlers.
type LikeService interface {
	Likes(ctx context.Context, userID int64, kind models.LikeKind, id int64) (bool, error)
	Like(ctx context.Context, userID int64, kind models.LikeKind, id int64) error
	Unlike(ctx context.Context, userID int64, kind models.LikeKind, id int64) error
	Liked(ctx context.Context, userID int64) ([]models.Plant, []models.Cafe, error)
}

// ProfileHandler shows and edits the current user's profile.
type ProfileHandler struct {
	AuthService AuthService
	LikeService LikeService
	Render      *Renderer
}

// Show renders the profile with the user's liked plants and cafes.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	u, ok := requireUser(w, r)
	if !ok {
		return
	}
	plants, cafes, err := h.LikeService.Liked(r.Context(), u.ID)
	if err != nil {
		h.Render.ServerError(w, r, err)
		return
	}
	h.Render.Render(w, r, http.StatusOK, "profile", Page{
		Title: u.FullName(),
		Data:  map[string]any{"Profile": u, "Plants": plants, "Cafes": cafes},
	})
}

// EditPage shows the edit form prefilled with the stored profile.
func (h *ProfileHandler) EditPage(w http.ResponseWriter, r *http.Request) {
	u, ok := requireUser(w, r)
	if !ok {
		return
	}
	f := forms.ProfileFormFor(u)
	h.Render.Render(w, r, http.StatusOK, "profile_edit", Page{Title: "Edit Profile", Form: &f})
}

// Edit saves the profile form.
func (h *ProfileHandler) Edit(w http.ResponseWriter, r *http.Request) {
	u, ok := requireUser(w, r)
	if !ok {
		return
	}
	var f forms.ProfileEditForm
	forms.Decode(postForm(r), &f)
	page := Page{Title: "Edit Profile", Form: &f}
	if page.Errors = forms.Validate(&f); !page.Errors.Valid() {
		h.Render.Render(w, r, http.StatusOK, "profile_edit", page)
		return
	}

	err := h.AuthService.UpdateProfile(r.Context(), u, f)
	if errors.Is(err, repository.ErrConflict) {
		addFlash(r, "Update failed.")
		forms.StripDefaults(&f)
		h.Render.Render(w, r, http.StatusOK, "profile_edit", page)
		return
	}
	if err != nil {
		h.Render.ServerError(w, r, err)
		return
	}
	flashRedirect(w, r, "Profile edited.", "/profile")
}
