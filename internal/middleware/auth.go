package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/liamwears/reelbase/internal/database"
	"github.com/liamwears/reelbase/internal/logger"
	"github.com/liamwears/reelbase/internal/models"
)

// SessionCookieName is the cookie carrying the session id
const SessionCookieName = "reelbase_session"

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// SessionContextKey is the key for storing the session in context
	SessionContextKey ContextKey = "session"
)

// AuthMiddleware hydrates sessions and guards protected routes
type AuthMiddleware struct {
	sessionStore *database.SessionStore
	logger       *zap.Logger
	cookieName   string
	isProduction bool
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(sessionStore *database.SessionStore, logger *zap.Logger, isProduction bool) *AuthMiddleware {
	return &AuthMiddleware{
		sessionStore: sessionStore,
		logger:       logger,
		cookieName:   SessionCookieName,
		isProduction: isProduction,
	}
}

// LoadSession hydrates the session named by the cookie into the request
// context. Requests without a valid session continue unauthenticated.
func (m *AuthMiddleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.cookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		session, err := m.sessionStore.Hydrate(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, database.ErrSessionNotFound) {
				logger.From(r.Context(), m.logger).Warn("failed to hydrate session", zap.Error(err))
			} else {
				m.ClearSessionCookie(w)
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := WithSession(r.Context(), session)
		reqLogger := logger.From(ctx, m.logger).With(zap.String("user_id", session.UserID))
		ctx = logger.Into(ctx, reqLogger)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth redirects unauthenticated requests to the login page
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAuthenticated(r.Context()) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuthAPI answers 401 to unauthenticated API requests
func (m *AuthMiddleware) RequireAuthAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAuthenticated(r.Context()) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithSession returns a context carrying the session
func WithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, SessionContextKey, session)
}

// SessionFromContext retrieves the session from request context
func SessionFromContext(ctx context.Context) (*models.Session, bool) {
	session, ok := ctx.Value(SessionContextKey).(*models.Session)
	return session, ok && session != nil
}

// IsAuthenticated reports whether the request carries a session with a token
func IsAuthenticated(ctx context.Context) bool {
	session, ok := SessionFromContext(ctx)
	return ok && session.Token != ""
}

// SetSessionCookie sets a session cookie
func (m *AuthMiddleware) SetSessionCookie(w http.ResponseWriter, sessionID string) {
	cookie := &http.Cookie{
		Name:     m.cookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(m.sessionStore.TTL() / time.Second),
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

// SessionID returns the session id carried by the request cookie
func (m *AuthMiddleware) SessionID(r *http.Request) string {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
