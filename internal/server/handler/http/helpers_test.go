package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/atinyakov/plantcafe/internal/forms"
	"github.com/atinyakov/plantcafe/internal/middleware"
	"github.com/atinyakov/plantcafe/internal/models"
	"github.com/atinyakov/plantcafe/internal/repository"
	"github.com/atinyakov/plantcafe/internal/service"
	"github.com/atinyakov/plantcafe/internal/session"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testCSRF = "test-csrf-token"

// fakeAuthService keeps users in memory. Passwords are stored as given.
type fakeAuthService struct {
	byID   map[int64]*models.User
	nextID int64
}

func newFakeAuth() *fakeAuthService {
	return &fakeAuthService{byID: map[int64]*models.User{}}
}

func (f *fakeAuthService) add(u *models.User) *models.User {
	f.nextID++
	u.ID = f.nextID
	f.byID[u.ID] = u
	return u
}

func (f *fakeAuthService) Register(_ context.Context, form forms.SignupForm) (*models.User, error) {
	for _, u := range f.byID {
		if u.Username == form.Username {
			return nil, service.ErrUsernameTaken
		}
	}
	return f.add(&models.User{
		Username:       form.Username,
		FirstName:      form.FirstName,
		LastName:       form.LastName,
		Email:          form.Email,
		ImageURL:       form.ImageURL,
		HashedPassword: form.Password,
	}), nil
}

func (f *fakeAuthService) Authenticate(_ context.Context, username, password string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Username == username && u.HashedPassword == password {
			return u, nil
		}
	}
	return nil, service.ErrInvalidCredentials
}

func (f *fakeAuthService) UpdateProfile(_ context.Context, u *models.User, form forms.ProfileEditForm) error {
	form.Apply(u)
	return nil
}

func (f *fakeAuthService) GetUser(_ context.Context, id int64) (*models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

type fakePlantService struct {
	SearchFunc func(ctx context.Context, term string) (service.SearchResult, error)
	ListFunc   func(ctx context.Context) ([]models.Plant, error)
	GetFunc    func(ctx context.Context, id int64) (*models.Plant, error)
}

func (f *fakePlantService) Search(ctx context.Context, term string) (service.SearchResult, error) {
	return f.SearchFunc(ctx, term)
}
func (f *fakePlantService) List(ctx context.Context) ([]models.Plant, error) { return f.ListFunc(ctx) }
func (f *fakePlantService) Get(ctx context.Context, id int64) (*models.Plant, error) {
	return f.GetFunc(ctx, id)
}

type fakeCafeService struct {
	ListFunc      func(ctx context.Context) ([]models.Cafe, error)
	GetFunc       func(ctx context.Context, id int64) (*models.Cafe, error)
	CitiesFunc    func(ctx context.Context) ([]models.City, error)
	CityCodesFunc func(ctx context.Context) ([]string, error)
	CreateFunc    func(ctx context.Context, user *models.User, f forms.CafeForm) (*models.Cafe, error)
	UpdateFunc    func(ctx context.Context, user *models.User, id int64, f forms.CafeForm) (*models.Cafe, error)
}

func (f *fakeCafeService) List(ctx context.Context) ([]models.Cafe, error) { return f.ListFunc(ctx) }
func (f *fakeCafeService) Get(ctx context.Context, id int64) (*models.Cafe, error) {
	return f.GetFunc(ctx, id)
}
func (f *fakeCafeService) Cities(ctx context.Context) ([]models.City, error) {
	return f.CitiesFunc(ctx)
}
func (f *fakeCafeService) CityCodes(ctx context.Context) ([]string, error) {
	return f.CityCodesFunc(ctx)
}
func (f *fakeCafeService) Create(ctx context.Context, user *models.User, form forms.CafeForm) (*models.Cafe, error) {
	return f.CreateFunc(ctx, user, form)
}
func (f *fakeCafeService) Update(ctx context.Context, user *models.User, id int64, form forms.CafeForm) (*models.Cafe, error) {
	return f.UpdateFunc(ctx, user, id, form)
}

type fakeLikeService struct {
	LikesFunc  func(ctx context.Context, userID int64, kind models.LikeKind, id int64) (bool, error)
	LikeFunc   func(ctx context.Context, userID int64, kind models.LikeKind, id int64) error
	UnlikeFunc func(ctx context.Context, userID int64, kind models.LikeKind, id int64) error
	LikedFunc  func(ctx context.Context, userID int64) ([]models.Plant, []models.Cafe, error)
}

func (f *fakeLikeService) Likes(ctx context.Context, userID int64, kind models.LikeKind, id int64) (bool, error) {
	return f.LikesFunc(ctx, userID, kind, id)
}
func (f *fakeLikeService) Like(ctx context.Context, userID int64, kind models.LikeKind, id int64) error {
	return f.LikeFunc(ctx, userID, kind, id)
}
func (f *fakeLikeService) Unlike(ctx context.Context, userID int64, kind models.LikeKind, id int64) error {
	return f.UnlikeFunc(ctx, userID, kind, id)
}
func (f *fakeLikeService) Liked(ctx context.Context, userID int64) ([]models.Plant, []models.Cafe, error) {
	return f.LikedFunc(ctx, userID)
}

type okPinger struct{ err error }

func (p okPinger) PingContext(context.Context) error { return p.err }

type testApp struct {
	t        *testing.T
	handler  http.Handler
	handlers Handlers
	deps     RouterDeps
	sessions *session.Manager
	auth     *fakeAuthService
	plants   *fakePlantService
	cafes    *fakeCafeService
	likes    *fakeLikeService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	log := zap.NewNop()
	render, err := NewRenderer(log)
	require.NoError(t, err)

	app := &testApp{
		t:        t,
		sessions: session.NewManager("test-secret", time.Hour, false),
		auth:     newFakeAuth(),
		plants:   &fakePlantService{},
		cafes: &fakeCafeService{
			CitiesFunc: func(context.Context) ([]models.City, error) {
				return []models.City{{Code: "berk", Name: "Berkeley", State: "CA"}}, nil
			},
			CityCodesFunc: func(context.Context) ([]string, error) { return []string{"berk"}, nil },
		},
		likes: &fakeLikeService{
			LikedFunc: func(context.Context, int64) ([]models.Plant, []models.Cafe, error) { return nil, nil, nil },
		},
	}
	app.handlers = Handlers{
		Auth:    &AuthHandler{AuthService: app.auth, Render: render},
		Profile: &ProfileHandler{AuthService: app.auth, LikeService: app.likes, Render: render},
		Plants:  &PlantHandler{PlantService: app.plants, Render: render, Log: log},
		Cafes:   &CafeHandler{CafeService: app.cafes, Render: render},
		Likes:   &LikeHandler{LikeService: app.likes, Log: log},
		Render:  render,
	}
	app.deps = RouterDeps{
		Sessions:      app.sessions,
		Users:         app.auth,
		SearchLimiter: middleware.NewRateLimiter(1000, 1000, log),
		DB:            okPinger{},
		Logger:        log,
	}
	app.rebuild()
	return app
}

// rebuild constructs the router again after deps were changed.
func (a *testApp) rebuild() {
	a.handler = NewRouter(a.handlers, a.deps)
}

// cookieFor returns a session cookie for userID (0 for anonymous).
func (a *testApp) cookieFor(userID int64) *http.Cookie {
	a.t.Helper()
	c, err := a.sessions.Cookie(&session.Session{UserID: userID, CSRF: testCSRF})
	require.NoError(a.t, err)
	return c
}

func (a *testApp) do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil), cookie)
}

// postForm submits values with the test CSRF token.
func (a *testApp) postForm(path string, values url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	if values.Get(middleware.CSRFField) == "" {
		values.Set(middleware.CSRFField, testCSRF)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req, cookie)
}

func (a *testApp) postJSON(path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return a.do(req, cookie)
}

// sessionOf decodes the session cookie written by rec.
func (a *testApp) sessionOf(rec *httptest.ResponseRecorder) *session.Session {
	a.t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			s, err := a.sessions.Decode(c.Value)
			require.NoError(a.t, err)
			return s
		}
	}
	a.t.Fatal("no session cookie in response")
	return nil
}

// responseCookie returns the session cookie set by rec for the next request.
func responseCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return &http.Cookie{Name: c.Name, Value: c.Value}
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}
