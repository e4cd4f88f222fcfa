package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/liamwears/reelbase/internal/database"
	"github.com/liamwears/reelbase/internal/logger"
	"github.com/liamwears/reelbase/internal/models"
)

func newRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func newAuth(t *testing.T) (*AuthMiddleware, *database.SessionStore) {
	t.Helper()
	client, _ := newRedis(t)
	store := database.NewSessionStore(client, time.Hour)
	return NewAuthMiddleware(store, zap.NewNop(), false), store
}

// sessionEcho reports the hydrated session email, or "anonymous"
var sessionEcho = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if session, ok := SessionFromContext(r.Context()); ok {
		_, _ = w.Write([]byte(session.Email))
		return
	}
	_, _ = w.Write([]byte("anonymous"))
})

func TestLoadSession_HydratesFromCookie(t *testing.T) {
	auth, store := newAuth(t)
	session, err := store.Login(context.Background(), &models.AuthPayload{
		Token: "jwt-token",
		User:  models.User{ID: "u1", Email: "ana@example.com"},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.ID})
	rec := httptest.NewRecorder()

	auth.LoadSession(sessionEcho).ServeHTTP(rec, req)
	assert.Equal(t, "ana@example.com", rec.Body.String())
}

func TestLoadSession_UnknownSessionClearsCookie(t *testing.T) {
	auth, _ := newAuth(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "stale"})
	rec := httptest.NewRecorder()

	auth.LoadSession(sessionEcho).ServeHTTP(rec, req)
	assert.Equal(t, "anonymous", rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestLoadSession_NoCookie(t *testing.T) {
	auth, _ := newAuth(t)

	rec := httptest.NewRecorder()
	auth.LoadSession(sessionEcho).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "anonymous", rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}

func TestRequireAuth(t *testing.T) {
	auth, _ := newAuth(t)
	handler := auth.RequireAuth(sessionEcho)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/add-movie", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/add-movie", nil)
	req = req.WithContext(WithSession(req.Context(), &models.Session{Token: "t", Email: "ana@example.com"}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ana@example.com", rec.Body.String())
}

func TestRequireAuthAPI(t *testing.T) {
	auth, _ := newAuth(t)

	rec := httptest.NewRecorder()
	auth.RequireAuthAPI(sessionEcho).ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/movies/1", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
}

func TestIsAuthenticated(t *testing.T) {
	ctx := context.Background()
	assert.False(t, IsAuthenticated(ctx))
	assert.False(t, IsAuthenticated(WithSession(ctx, nil)))
	assert.False(t, IsAuthenticated(WithSession(ctx, &models.Session{})))
	assert.True(t, IsAuthenticated(WithSession(ctx, &models.Session{Token: "t"})))
}

func TestSessionCookies(t *testing.T) {
	auth, _ := newAuth(t)

	rec := httptest.NewRecorder()
	auth.SetSessionCookie(rec, "abc")
	cookie := rec.Result().Cookies()[0]
	assert.Equal(t, "abc", cookie.Value)
	assert.Equal(t, 3600, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "abc"})
	assert.Equal(t, "abc", auth.SessionID(req))
	assert.Empty(t, auth.SessionID(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestRateLimiter_BlocksAfterMax(t *testing.T) {
	client, _ := newRedis(t)
	limiter := NewRateLimiter(client, 2, time.Minute, true, zap.NewNop())
	handler := limiter.Limit(sessionEcho)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/movies", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// another client has its own window
	req := httptest.NewRequest(http.MethodGet, "/api/movies", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	client, _ := newRedis(t)
	limiter := NewRateLimiter(client, 1, time.Minute, true, zap.NewNop())
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	allowed, err := limiter.checkRateLimit(context.Background(), "ip:1")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.checkRateLimit(context.Background(), "ip:1")
	require.NoError(t, err)
	assert.False(t, allowed)

	now = now.Add(2 * time.Minute)
	allowed, err = limiter.checkRateLimit(context.Background(), "ip:1")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiter_DisabledAndFailOpen(t *testing.T) {
	client, mr := newRedis(t)

	disabled := NewRateLimiter(client, 0, time.Minute, false, zap.NewNop())
	rec := httptest.NewRecorder()
	disabled.Limit(sessionEcho).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/movies", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	mr.Close()
	enabled := NewRateLimiter(client, 1, time.Minute, true, zap.NewNop())
	rec = httptest.NewRecorder()
	enabled.Limit(sessionEcho).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/movies", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_IdentifiesUsers(t *testing.T) {
	limiter := NewRateLimiter(nil, 1, time.Minute, false, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:1234"
	assert.Equal(t, "ip:192.0.2.7", limiter.getIdentifier(req))

	req = req.WithContext(WithSession(req.Context(), &models.Session{Token: "t", UserID: "u1"}))
	assert.Equal(t, "user:u1", limiter.getIdentifier(req))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(RequestLogger(zap.New(core)))
	r.Use(PrometheusMetrics)
	r.Get("/movie/{id}", func(w http.ResponseWriter, r *http.Request) {
		logger.From(r.Context(), zap.NewNop()).Info("inside")
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/movie/7", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "inside", entries[0].Message)
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])
	assert.Equal(t, "request completed", entries[1].Message)
	assert.Equal(t, int64(http.StatusTeapot), entries[1].ContextMap()["status"])
}
