package middleware

import (
	"context"
	"net/http"

	"github.com/medetbek/moviedb/internal/database"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// SessionContextKey is the key for storing the session record in context
	SessionContextKey ContextKey = "session"
	// SessionIDContextKey is the key for storing the session ID in context
	SessionIDContextKey ContextKey = "sessionID"
)

// SessionGetter resolves a session ID to its stored record.
// *database.SessionStore satisfies it.
type SessionGetter interface {
	Get(ctx context.Context, sessionID string) (database.Session, error)
}

// AuthMiddleware gates page access on the session's authentication
// flag. This is view-layer gating only; the catalog client itself is
// not protected by it.
type AuthMiddleware struct {
	sessionStore SessionGetter
	cookieName   string
	isProduction bool
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(sessionStore SessionGetter, cookieName string, isProduction bool) *AuthMiddleware {
	if cookieName == "" {
		cookieName = "session"
	}
	return &AuthMiddleware{
		sessionStore: sessionStore,
		cookieName:   cookieName,
		isProduction: isProduction,
	}
}

// RequireAuth ensures the session is authenticated, redirecting to the
// login page otherwise.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.cookieName)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		session, err := m.sessionStore.Get(r.Context(), cookie.Value)
		if err != nil || !session.Authenticated {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, session)
		ctx = context.WithValue(ctx, SessionIDContextKey, cookie.Value)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RedirectAuthenticated sends an already-authenticated session away
// from the login page.
func (m *AuthMiddleware) RedirectAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(m.cookieName); err == nil {
			if session, err := m.sessionStore.Get(r.Context(), cookie.Value); err == nil && session.Authenticated {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext retrieves the session record from request context
func GetSessionFromContext(ctx context.Context) (database.Session, bool) {
	session, ok := ctx.Value(SessionContextKey).(database.Session)
	return session, ok
}

// GetSessionIDFromContext retrieves the session ID from request context
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(SessionIDContextKey).(string)
	return id, ok
}

// SetSessionCookie sets a session cookie
func (m *AuthMiddleware) SetSessionCookie(w http.ResponseWriter, sessionID string) {
	cookie := &http.Cookie{
		Name:     m.cookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60, // 7 days
		HttpOnly: true,
		Secure:   m.isProduction,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
}

// ClearSessionCookie clears the session cookie
func (m *AuthMiddleware) ClearSessionCookie(w http.ResponseWriter) {
	cookie := &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.isProduction,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
}
