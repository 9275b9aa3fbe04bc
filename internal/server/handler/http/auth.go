package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/atinyakov/plantcafe/internal/forms"
	"github.com/atinyakov/plantcafe/internal/middleware"
	"github.com/atinyakov/plantcafe/internal/models"
	"github.com/atinyakov/plantcafe/internal/service"
)

// Flash messages shown by the account pages.
const (
	FlashUsernameTaken = "Username already taken."
	FlashSignedUp      = "You are signed up and logged in."
	FlashBadLogin      = "Invalid credentials."
	FlashLoggedOut     = "You should have successfully logged out."
	FlashNotLoggedIn   = "You're not logged in."
)

// AuthService defines the account operations required by the handlers.
type AuthService interface {
	Register(ctx context.Context, f forms.SignupForm) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	UpdateProfile(ctx context.Context, u *models.User, f forms.ProfileEditForm) error
}

// AuthHandler handles signup, login and logout.
type AuthHandler struct {
	AuthService AuthService
	Render      *Renderer
}

// SignupPage shows the signup form. Any current user is logged out first.
func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	middleware.FromContext(r.Context()).Session.Logout()
	h.Render.Render(w, r, http.StatusOK, "signup", Page{Title: "Sign Up", Form: forms.SignupForm{}})
}

// Signup registers the user and logs them in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context()).Session
	sess.Logout()

	var f forms.SignupForm
	forms.Decode(postForm(r), &f)
	page := Page{Title: "Sign Up", Form: &f}
	if page.Errors = forms.Validate(&f); !page.Errors.Valid() {
		h.Render.Render(w, r, http.StatusOK, "signup", page)
		return
	}

	u, err := h.AuthService.Register(r.Context(), f)
	if errors.Is(err, service.ErrUsernameTaken) {
		sess.AddFlash(FlashUsernameTaken)
		forms.StripDefaults(&f)
		h.Render.Render(w, r, http.StatusOK, "signup", page)
		return
	}
	if err != nil {
		h.Render.ServerError(w, r, err)
		return
	}

	sess.Login(u.ID)
	flashRedirect(w, r, FlashSignedUp, "/")
}

// LoginPage shows the login form.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.Render.Render(w, r, http.StatusOK, "login", Page{Title: "Log In", Form: forms.LoginForm{}})
}

// Login checks the credentials and starts a session for the user.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context()).Session

	var f forms.LoginForm
	forms.Decode(postForm(r), &f)
	page := Page{Title: "Log In", Form: &f}
	if page.Errors = forms.Validate(&f); !page.Errors.Valid() {
		h.Render.Render(w, r, http.StatusOK, "login", page)
		return
	}

	u, err := h.AuthService.Authenticate(r.Context(), f.Username, f.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		sess.AddFlash(FlashBadLogin)
		f.Password = ""
		h.Render.Render(w, r, http.StatusOK, "login", page)
		return
	}
	if err != nil {
		h.Render.ServerError(w, r, err)
		return
	}

	sess.Login(u.ID)
	flashRedirect(w, r, "Hello, "+u.Username+"!", "/")
}

// Logout ends the session. The CSRF middleware has already checked the
// token; an anonymous caller gets the same rejection.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	rc := middleware.FromContext(r.Context())
	if rc.User == nil {
		flashRedirect(w, r, middleware.FlashUnauthorized, "/")
		return
	}
	rc.Session.Logout()
	flashRedirect(w, r, FlashLoggedOut, "/")
}

// requireUser redirects anonymous callers to the login page.
func requireUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	u := middleware.FromContext(r.Context()).User
	if u == nil {
		flashRedirect(w, r, FlashNotLoggedIn, "/login")
		return nil, false
	}
	return u, true
}
