// Package middleware provides HTTP middlewares for sessions, CSRF checks,
// logging, metrics and rate limiting.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/atinyakov/plantcafe/internal/models"
	"github.com/atinyakov/plantcafe/internal/repository"
	"github.com/atinyakov/plantcafe/internal/session"
	"go.uber.org/zap"
)

type ctxKey string

const requestKey ctxKey = "request"

// RequestContext is the per-request view of who is calling. User is nil for
// anonymous requests.
type RequestContext struct {
	Session *session.Session
	User    *models.User
}

// UserLoader resolves the session's user id.
type UserLoader interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// WithRequestContext stores rc in ctx.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, requestKey, rc)
}

// FromContext returns the request context stored by WithSession. It never
// returns nil; outside the middleware it yields an anonymous context.
func FromContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(requestKey).(*RequestContext); ok && rc != nil {
		return rc
	}
	return &RequestContext{Session: &session.Session{}}
}

// WithSession loads the session cookie and the current user once per
// request. A session pointing at a user that no longer exists is logged
// out. The session is written back before the first byte of the response
// when it changed.
func WithSession(sessions *session.Manager, users UserLoader, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := sessions.Load(r)
			rc := &RequestContext{Session: sess}

			if sess.LoggedIn() {
				u, err := users.GetUser(r.Context(), sess.UserID)
				switch {
				case err == nil:
					rc.User = u
				case errors.Is(err, repository.ErrNotFound):
					sess.Logout()
				default:
					log.Error("failed to load session user", zap.Int64("user_id", sess.UserID), zap.Error(err))
				}
			}

			sw := &sessionWriter{ResponseWriter: w, save: func() {
				if !sess.Modified() {
					return
				}
				if err := sessions.Save(w, sess); err != nil {
					log.Error("failed to save session", zap.Error(err))
				}
			}}
			next.ServeHTTP(sw, r.WithContext(WithRequestContext(r.Context(), rc)))
			sw.flush()
		})
	}
}

type sessionWriter struct {
	http.ResponseWriter
	save    func()
	flushed bool
}

func (w *sessionWriter) flush() {
	if w.flushed {
		return
	}
	w.flushed = true
	w.save()
}

func (w *sessionWriter) WriteHeader(code int) {
	w.flush()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.flush()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
