package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/liamwears/reelbase/internal/database"
	"github.com/liamwears/reelbase/internal/logger"
	"github.com/liamwears/reelbase/internal/middleware"
	"github.com/liamwears/reelbase/internal/models"
	"github.com/liamwears/reelbase/internal/services"
	"github.com/liamwears/reelbase/internal/validation"
)

// AuthHandler handles login, signup and logout against the catalog
type AuthHandler struct {
	catalog        Catalog
	sessionStore   *database.SessionStore
	authMiddleware *middleware.AuthMiddleware
	renderer       *Renderer
	flasher        *Flasher
	logger         *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	catalog Catalog,
	sessionStore *database.SessionStore,
	authMiddleware *middleware.AuthMiddleware,
	renderer *Renderer,
	flasher *Flasher,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		catalog:        catalog,
		sessionStore:   sessionStore,
		authMiddleware: authMiddleware,
		renderer:       renderer,
		flasher:        flasher,
		logger:         logger,
	}
}

// LoginPage displays the login page
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.IsAuthenticated(r.Context()) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderer.RenderPage(w, r, http.StatusOK, "login.html", map[string]interface{}{
		"Form":   validation.LoginForm{},
		"Errors": validation.FieldErrors(nil),
	})
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}

	form := validation.ParseLoginForm(r.PostForm)
	render := func(status int, errs validation.FieldErrors, message string) {
		form.Password = ""
		h.renderer.RenderPage(w, r, status, "login.html", map[string]interface{}{
			"Form":   form,
			"Errors": errs,
			"Error":  message,
		})
	}

	if errs := validation.ValidateStruct(form); errs != nil {
		render(http.StatusUnprocessableEntity, errs, "")
		return
	}

	h.startSession(w, r, "login", render, func(ctx context.Context) (*models.AuthPayload, error) {
		return h.catalog.Login(ctx, form.Email, form.Password)
	})
}

// SignupPage displays the signup page
func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	if middleware.IsAuthenticated(r.Context()) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.renderer.RenderPage(w, r, http.StatusOK, "signup.html", map[string]interface{}{
		"Form":   validation.SignupForm{},
		"Errors": validation.FieldErrors(nil),
	})
}

// Signup handles POST /signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}

	form := validation.ParseSignupForm(r.PostForm)
	render := func(status int, errs validation.FieldErrors, message string) {
		form.Password = ""
		h.renderer.RenderPage(w, r, status, "signup.html", map[string]interface{}{
			"Form":   form,
			"Errors": errs,
			"Error":  message,
		})
	}

	if errs := validation.ValidateStruct(form); errs != nil {
		render(http.StatusUnprocessableEntity, errs, "")
		return
	}

	h.startSession(w, r, "signup", render, func(ctx context.Context) (*models.AuthPayload, error) {
		return h.catalog.Signup(ctx, form.Email, form.Password)
	})
}

// startSession authenticates against the catalog and stores the token in a
// new server-side session
func (h *AuthHandler) startSession(
	w http.ResponseWriter,
	r *http.Request,
	action string,
	render func(status int, errs validation.FieldErrors, message string),
	authenticate func(ctx context.Context) (*models.AuthPayload, error),
) {
	log := logger.From(r.Context(), h.logger).With(zap.String("action", action))

	payload, err := authenticate(r.Context())
	if err != nil {
		var catalogErr *services.CatalogError
		if errors.As(err, &catalogErr) {
			log.Info("authentication rejected", zap.String("reason", catalogErr.Message))
			render(http.StatusUnauthorized, nil, catalogErr.Message)
			return
		}
		log.Error("authentication failed", zap.Error(err))
		render(http.StatusBadGateway, nil, "Unable to reach the catalog, please try again")
		return
	}

	// Drop any session the browser still carries
	if previous := h.authMiddleware.SessionID(r); previous != "" {
		if err := h.sessionStore.Logout(r.Context(), previous); err != nil {
			log.Warn("failed to delete previous session", zap.Error(err))
		}
	}

	session, err := h.sessionStore.Login(r.Context(), payload)
	if err != nil {
		log.Error("failed to create session", zap.Error(err))
		render(http.StatusInternalServerError, nil, "Unable to start your session, please try again")
		return
	}

	h.authMiddleware.SetSessionCookie(w, session.ID)
	log.Info("user signed in", zap.String("user_id", session.UserID))

	message := fmt.Sprintf("Welcome back, %s!", session.Email)
	if action == "signup" {
		message = "Welcome to Reelbase!"
	}
	h.flasher.Add(w, r, FlashSuccess, message)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID := h.authMiddleware.SessionID(r); sessionID != "" {
		if err := h.sessionStore.Logout(r.Context(), sessionID); err != nil {
			logger.From(r.Context(), h.logger).Warn("failed to delete session", zap.Error(err))
		}
	}

	h.authMiddleware.ClearSessionCookie(w)
	h.flasher.Add(w, r, FlashSuccess, "You have been logged out")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
