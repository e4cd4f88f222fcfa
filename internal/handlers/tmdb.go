package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/liamwears/reelbase/internal/logger"
	"github.com/liamwears/reelbase/internal/models"
	"github.com/liamwears/reelbase/internal/services"
)

// TMDBHandler handles TMDB API requests
type TMDBHandler struct {
	gateway    Gateway
	reconciler Reconciler
	logger     *zap.Logger
}

// NewTMDBHandler creates a new TMDB handler
func NewTMDBHandler(gateway Gateway, reconciler Reconciler, logger *zap.Logger) *TMDBHandler {
	return &TMDBHandler{
		gateway:    gateway,
		reconciler: reconciler,
		logger:     logger,
	}
}

// tmdbPage is a TMDB result page with the catalog status of each movie
type tmdbPage struct {
	*services.TMDBMovieResponse
	Statuses map[int]models.MovieStatus `json:"statuses"`
}

// GetMovie handles GET /api/tmdb/movie/{id}
func (h *TMDBHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := tmdbID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	detail := h.gateway.FetchDetail(r.Context(), id)
	if detail == nil {
		writeError(w, http.StatusNotFound, "Movie not available")
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// Search handles GET /api/tmdb/search
func (h *TMDBHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query parameter is required")
		return
	}

	result := h.gateway.Search(r.Context(), query, pageParam(r))
	if result == nil {
		logger.From(r.Context(), h.logger).Warn("TMDB search unavailable", zap.String("query", query))
		writeError(w, http.StatusBadGateway, "Failed to search movies")
		return
	}
	h.writePage(w, r, result)
}

// NowPlaying handles GET /api/tmdb/now-playing
func (h *TMDBHandler) NowPlaying(w http.ResponseWriter, r *http.Request) {
	result := h.gateway.FetchNowPlaying(r.Context(), pageParam(r))
	if result == nil {
		writeError(w, http.StatusBadGateway, "Failed to fetch new releases")
		return
	}
	h.writePage(w, r, result)
}

func (h *TMDBHandler) writePage(w http.ResponseWriter, r *http.Request, result *services.TMDBMovieResponse) {
	book := h.reconciler.CheckStatuses(r.Context(), result.Results)
	writeJSON(w, http.StatusOK, tmdbPage{
		TMDBMovieResponse: result,
		Statuses:          book.Snapshot(),
	})
}
