// Package session keeps the per-browser session in a signed cookie.
//
// The cookie holds an HS256 JWT whose claims carry the logged-in user id,
// the CSRF token and any pending flash messages. Nothing is stored server
// side; a cookie that fails verification starts a fresh anonymous session.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the default session cookie name.
const CookieName = "plantcafe_session"

// Session is the decoded state of one browser session.
type Session struct {
	UserID  int64
	CSRF    string
	Flashes []string

	modified bool
}

func newSession() *Session {
	return &Session{CSRF: uuid.NewString(), modified: true}
}

// LoggedIn reports whether a user is attached.
func (s *Session) LoggedIn() bool {
	return s.UserID != 0
}

// Login attaches userID and rotates the CSRF token.
func (s *Session) Login(userID int64) {
	s.UserID = userID
	s.CSRF = uuid.NewString()
	s.modified = true
}

// Logout detaches the user. Calling it on an anonymous session is harmless.
func (s *Session) Logout() {
	if s.UserID == 0 {
		return
	}
	s.UserID = 0
	s.modified = true
}

// AddFlash queues msg for the next rendered page.
func (s *Session) AddFlash(msg string) {
	s.Flashes = append(s.Flashes, msg)
	s.modified = true
}

// PopFlashes returns and clears the pending messages.
func (s *Session) PopFlashes() []string {
	if len(s.Flashes) == 0 {
		return nil
	}
	out := s.Flashes
	s.Flashes = nil
	s.modified = true
	return out
}

// Modified reports whether the session must be written back.
func (s *Session) Modified() bool {
	return s.modified
}

type claims struct {
	UserID  int64    `json:"uid,omitempty"`
	CSRF    string   `json:"csrf"`
	Flashes []string `json:"flashes,omitempty"`
	jwt.RegisteredClaims
}

// Manager encodes and decodes session cookies.
type Manager struct {
	secret []byte
	name   string
	ttl    time.Duration
	secure bool
}

// NewManager returns a Manager signing with secret. Sessions expire after ttl.
func NewManager(secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{secret: []byte(secret), name: CookieName, ttl: ttl, secure: secure}
}

// Load decodes the request cookie, or starts a new session.
func (m *Manager) Load(r *http.Request) *Session {
	c, err := r.Cookie(m.name)
	if err != nil {
		return newSession()
	}
	s, err := m.Decode(c.Value)
	if err != nil {
		return newSession()
	}
	return s
}

// Decode verifies a cookie value.
func (m *Manager) Decode(value string) (*Session, error) {
	var cl claims
	token, err := jwt.ParseWithClaims(value, &cl, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if !token.Valid || cl.CSRF == "" {
		return nil, errors.New("decode session: invalid token")
	}
	return &Session{UserID: cl.UserID, CSRF: cl.CSRF, Flashes: cl.Flashes}, nil
}

// Encode signs s into a cookie value.
func (m *Manager) Encode(s *Session) (string, error) {
	now := time.Now()
	cl := claims{
		UserID:  s.UserID,
		CSRF:    s.CSRF,
		Flashes: s.Flashes,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	value, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return value, nil
}

// Save writes s as the session cookie. It must run before the response
// headers are sent.
func (m *Manager) Save(w http.ResponseWriter, s *Session) error {
	value, err := m.Encode(s)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	s.modified = false
	return nil
}

// Cookie returns a ready-made cookie for s, used to seed test requests.
func (m *Manager) Cookie(s *Session) (*http.Cookie, error) {
	value, err := m.Encode(s)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{Name: m.name, Value: value}, nil
}
