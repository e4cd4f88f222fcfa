package handlers

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/liamwears/reelbase/internal/logger"
)

const flashCookieName = "reelbase_flash"

// Flash kinds
const (
	FlashSuccess = "success"
	FlashWarning = "warning"
	FlashError   = "error"
)

// Flash is a notification shown once on the next rendered page
type Flash struct {
	Kind    string
	Message string
}

func init() {
	gob.Register(Flash{})
}

// Flasher carries flash notifications across redirects in a signed cookie
type Flasher struct {
	store  *sessions.CookieStore
	logger *zap.Logger
}

// NewFlasher creates a flash store signed with secret
func NewFlasher(secret string, isProduction bool, logger *zap.Logger) *Flasher {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	}
	return &Flasher{store: store, logger: logger}
}

// Add queues a notification for the next page
func (f *Flasher) Add(w http.ResponseWriter, r *http.Request, kind, message string) {
	session, err := f.store.Get(r, flashCookieName)
	if err != nil {
		// A cookie signed with an old secret yields a fresh session
		logger.From(r.Context(), f.logger).Debug("discarding unreadable flash cookie", zap.Error(err))
	}
	session.AddFlash(Flash{Kind: kind, Message: message})
	if err := session.Save(r, w); err != nil {
		logger.From(r.Context(), f.logger).Warn("failed to save flash", zap.Error(err))
	}
}

// Pop returns and clears the pending notifications
func (f *Flasher) Pop(w http.ResponseWriter, r *http.Request) []Flash {
	session, err := f.store.Get(r, flashCookieName)
	if err != nil {
		return nil
	}

	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		logger.From(r.Context(), f.logger).Warn("failed to clear flashes", zap.Error(err))
	}

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if flash, ok := v.(Flash); ok {
			flashes = append(flashes, flash)
		}
	}
	return flashes
}
