package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/liamwears/reelbase/internal/logger"
	"github.com/liamwears/reelbase/internal/middleware"
	"github.com/liamwears/reelbase/internal/models"
	"github.com/liamwears/reelbase/internal/services"
	"github.com/liamwears/reelbase/internal/validation"
)

// MovieHandler handles catalog writes and the movie JSON API
type MovieHandler struct {
	gateway    Gateway
	catalog    Catalog
	reconciler Reconciler
	renderer   *Renderer
	flasher    *Flasher
	logger     *zap.Logger
}

// NewMovieHandler creates a new movie handler
func NewMovieHandler(gateway Gateway, catalog Catalog, reconciler Reconciler, renderer *Renderer, flasher *Flasher, logger *zap.Logger) *MovieHandler {
	return &MovieHandler{
		gateway:    gateway,
		catalog:    catalog,
		reconciler: reconciler,
		renderer:   renderer,
		flasher:    flasher,
		logger:     logger,
	}
}

// AddForm handles GET /add-movie
func (h *MovieHandler) AddForm(w http.ResponseWriter, r *http.Request) {
	h.renderAddForm(w, r, http.StatusOK, validation.MovieForm{}, nil, "")
}

func (h *MovieHandler) renderAddForm(w http.ResponseWriter, r *http.Request, status int, form validation.MovieForm, errs validation.FieldErrors, message string) {
	h.renderer.RenderPage(w, r, status, "add-movie.html", map[string]interface{}{
		"Form":   form,
		"Errors": errs,
		"Genres": genreChoices(models.Genre(form.Genre)),
		"Error":  message,
	})
}

// Create handles POST /add-movie
func (h *MovieHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.From(r.Context(), h.logger)

	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}

	form := validation.ParseMovieForm(r.PostForm)
	if errs := validation.ValidateStruct(form); errs != nil {
		h.renderAddForm(w, r, http.StatusUnprocessableEntity, form, errs, "")
		return
	}

	imdbID := form.IMDbID
	if imdbID == "" {
		if match := h.gateway.SearchByTitleYear(r.Context(), form.Title, form.Year); match != nil {
			imdbID = h.gateway.FetchExternalCrossReference(r.Context(), match.ID)
		}
	}
	if imdbID == "" {
		h.renderAddForm(w, r, http.StatusUnprocessableEntity, form, validation.FieldErrors{
			"imdbId": "No IMDb id found for this movie, please enter it",
		}, "")
		return
	}

	exists, err := h.catalog.CheckExists(r.Context(), imdbID)
	if err != nil {
		log.Error("failed to check catalog", zap.String("imdb_id", imdbID), zap.Error(err))
		h.renderAddForm(w, r, http.StatusBadGateway, form, nil, userMessage(err))
		return
	}
	if exists {
		h.renderAddForm(w, r, http.StatusConflict, form, validation.FieldErrors{
			"imdbId": "This movie is already in the catalog",
		}, "")
		return
	}

	movie, err := h.catalog.CreateMovie(r.Context(), sessionToken(r), form.CreateInput(imdbID))
	if err != nil {
		log.Error("failed to create movie", zap.String("title", form.Title), zap.Error(err))
		h.renderAddForm(w, r, http.StatusBadGateway, form, nil, userMessage(err))
		return
	}

	log.Info("movie added", zap.String("movie_id", movie.ID), zap.String("imdb_id", movie.IMDbID))
	h.flasher.Add(w, r, FlashSuccess, fmt.Sprintf("%s added successfully!", movie.Title))
	http.Redirect(w, r, "/movie/"+movie.ID, http.StatusSeeOther)
}

// EditForm handles GET /edit-movie/{id}
func (h *MovieHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	movie, ok := h.loadMovie(w, r)
	if !ok {
		return
	}
	h.renderEditForm(w, r, http.StatusOK, movie, validation.EditMovieFormFrom(*movie), nil, "")
}

func (h *MovieHandler) renderEditForm(w http.ResponseWriter, r *http.Request, status int, movie *models.CatalogMovie, form validation.EditMovieForm, errs validation.FieldErrors, message string) {
	h.renderer.RenderPage(w, r, status, "edit-movie.html", map[string]interface{}{
		"Movie":  movie,
		"Form":   form,
		"Errors": errs,
		"Genres": genreChoices(movie.Genre),
		"Error":  message,
	})
}

// Update handles POST /edit-movie/{id}
func (h *MovieHandler) Update(w http.ResponseWriter, r *http.Request) {
	movie, ok := h.loadMovie(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}

	form := validation.ParseEditMovieForm(r.PostForm)
	if errs := validation.ValidateStruct(form); errs != nil {
		h.renderEditForm(w, r, http.StatusUnprocessableEntity, movie, form, errs, "")
		return
	}

	update := form.Changes(*movie)
	if update.IsEmpty() {
		h.flasher.Add(w, r, FlashWarning, "No changes to save")
		http.Redirect(w, r, "/movie/"+movie.ID, http.StatusSeeOther)
		return
	}

	updated, err := h.catalog.UpdateMovie(r.Context(), sessionToken(r), movie.ID, update)
	if err != nil {
		logger.From(r.Context(), h.logger).Error("failed to update movie", zap.String("movie_id", movie.ID), zap.Error(err))
		h.renderEditForm(w, r, http.StatusBadGateway, movie, form, nil, userMessage(err))
		return
	}

	h.flasher.Add(w, r, FlashSuccess, fmt.Sprintf("%s updated successfully!", updated.Title))
	http.Redirect(w, r, "/movie/"+updated.ID, http.StatusSeeOther)
}

// loadMovie fetches the catalog movie of the id route parameter, rendering
// the error page when it cannot
func (h *MovieHandler) loadMovie(w http.ResponseWriter, r *http.Request) (*models.CatalogMovie, bool) {
	id := chi.URLParam(r, "id")
	movie, err := h.catalog.GetMovie(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrMovieNotFound) {
			h.renderer.RenderError(w, r, http.StatusNotFound, "Movie not found")
			return nil, false
		}
		logger.From(r.Context(), h.logger).Error("failed to get movie", zap.String("movie_id", id), zap.Error(err))
		h.renderer.RenderError(w, r, http.StatusBadGateway, "Error loading movie: "+userMessage(err))
		return nil, false
	}
	return movie, true
}

// Reconcile handles POST /reconcile/{tmdbId}
func (h *MovieHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	returnTo := localPath(r.FormValue("return"), "/new-releases")

	// Anonymous users are stopped before any network call
	sess, _ := middleware.SessionFromContext(r.Context())
	if !middleware.IsAuthenticated(r.Context()) {
		h.flasher.Add(w, r, FlashWarning, "Please login to add movies")
		http.Redirect(w, r, returnTo, http.StatusSeeOther)
		return
	}

	id, ok := tmdbID(r, "tmdbId")
	if !ok {
		h.flasher.Add(w, r, FlashError, "Error adding movie: invalid movie id")
		http.Redirect(w, r, returnTo, http.StatusSeeOther)
		return
	}

	movie := lookupTMDBMovie(r.Context(), h.gateway, id)
	if movie == nil {
		h.flasher.Add(w, r, FlashError, "Error adding movie: movie details are unavailable")
		http.Redirect(w, r, returnTo, http.StatusSeeOther)
		return
	}

	created, err := h.reconciler.AddToCatalog(r.Context(), sess, *movie, models.NewStatusBook())
	switch {
	case errors.Is(err, services.ErrAlreadyInCatalog):
		h.flasher.Add(w, r, FlashWarning, fmt.Sprintf("%s is already in the catalog", movie.Title))
	case err != nil:
		h.flasher.Add(w, r, FlashError, "Error adding movie: "+userMessage(err))
	default:
		h.flasher.Add(w, r, FlashSuccess, fmt.Sprintf("%s added successfully!", created.Title))
	}
	http.Redirect(w, r, returnTo, http.StatusSeeOther)
}

// List handles GET /api/movies
func (h *MovieHandler) List(w http.ResponseWriter, r *http.Request) {
	movies, err := h.catalog.ListMovies(r.Context())
	if err != nil {
		logger.From(r.Context(), h.logger).Error("failed to list movies", zap.Error(err))
		writeError(w, http.StatusBadGateway, "Failed to fetch movies")
		return
	}
	if movies == nil {
		movies = []models.CatalogMovie{}
	}
	writeJSON(w, http.StatusOK, movies)
}

// Get handles GET /api/movies/{id}
func (h *MovieHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	movie, err := h.catalog.GetMovie(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrMovieNotFound) {
			writeError(w, http.StatusNotFound, "Movie not found")
			return
		}
		logger.From(r.Context(), h.logger).Error("failed to get movie", zap.String("movie_id", id), zap.Error(err))
		writeError(w, http.StatusBadGateway, "Failed to fetch movie")
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

// Patch handles PATCH /api/movies/{id}
func (h *MovieHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var patch validation.MoviePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := validation.ValidateStruct(patch); errs != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "Validation failed",
			"fields": errs,
		})
		return
	}

	update := patch.Input()
	if update.IsEmpty() {
		writeError(w, http.StatusBadRequest, "No fields to update")
		return
	}

	movie, err := h.catalog.UpdateMovie(r.Context(), sessionToken(r), id, update)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMovieNotFound):
			writeError(w, http.StatusNotFound, "Movie not found")
		case errors.Is(err, services.ErrAuthRequired):
			writeError(w, http.StatusUnauthorized, "Unauthorized")
		default:
			logger.From(r.Context(), h.logger).Error("failed to update movie", zap.String("movie_id", id), zap.Error(err))
			writeError(w, http.StatusBadGateway, userMessage(err))
		}
		return
	}
	writeJSON(w, http.StatusOK, movie)
}

// Import handles POST /api/movies/import/{tmdbId}
func (h *MovieHandler) Import(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFromContext(r.Context())

	id, ok := tmdbID(r, "tmdbId")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid TMDB id")
		return
	}

	movie := lookupTMDBMovie(r.Context(), h.gateway, id)
	if movie == nil {
		writeError(w, http.StatusNotFound, "Movie not found on TMDB")
		return
	}

	created, err := h.reconciler.AddToCatalog(r.Context(), sess, *movie, models.NewStatusBook())
	if err != nil {
		writeError(w, importStatus(err), userMessage(err))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"movie":   created,
		"message": fmt.Sprintf("%s added successfully!", created.Title),
	})
}

// importStatus maps a reconciliation failure to an HTTP status
func importStatus(err error) int {
	var catalogErr *services.CatalogError
	switch {
	case errors.Is(err, services.ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrAlreadyInCatalog):
		return http.StatusConflict
	case errors.Is(err, services.ErrMissingCrossReference),
		errors.Is(err, services.ErrMissingDirector),
		errors.Is(err, services.ErrMissingReleaseYear):
		return http.StatusUnprocessableEntity
	case errors.As(err, &catalogErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
