package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/liamwears/reelbase/internal/logger"
	"github.com/liamwears/reelbase/internal/models"
	"github.com/liamwears/reelbase/internal/services"
)

// posterLookupLimit bounds the concurrent TMDB lookups of the home page
const posterLookupLimit = 8

// CatalogCard is a catalog movie with its TMDB poster
type CatalogCard struct {
	Movie     models.CatalogMovie
	PosterURL string
}

// MovieCard is a TMDB movie with its catalog status
type MovieCard struct {
	TmdbID      int
	Title       string
	ReleaseDate string
	PosterURL   string
	Rating      float64
	Status      models.MovieStatus
}

// PageHandler handles page rendering
type PageHandler struct {
	gateway    Gateway
	catalog    Catalog
	reconciler Reconciler
	renderer   *Renderer
	logger     *zap.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(gateway Gateway, catalog Catalog, reconciler Reconciler, renderer *Renderer, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		gateway:    gateway,
		catalog:    catalog,
		reconciler: reconciler,
		renderer:   renderer,
		logger:     logger,
	}
}

// Home handles GET /
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	movies, err := h.catalog.ListMovies(r.Context())
	if err != nil {
		logger.From(r.Context(), h.logger).Error("failed to list catalog movies", zap.Error(err))
		h.renderer.RenderPage(w, r, http.StatusBadGateway, "home.html", map[string]interface{}{
			"Error": userMessage(err),
		})
		return
	}

	h.renderer.RenderPage(w, r, http.StatusOK, "home.html", map[string]interface{}{
		"Movies": h.catalogCards(r.Context(), movies),
	})
}

// catalogCards matches every catalog movie to a TMDB poster
func (h *PageHandler) catalogCards(ctx context.Context, movies []models.CatalogMovie) []CatalogCard {
	cards := make([]CatalogCard, len(movies))

	var g errgroup.Group
	g.SetLimit(posterLookupLimit)
	for i, movie := range movies {
		i, movie := i, movie
		g.Go(func() error {
			path := ""
			if match := h.gateway.SearchByTitleYear(ctx, movie.Title, movie.Year); match != nil {
				path = match.PosterPath
			}
			cards[i] = CatalogCard{
				Movie:     movie,
				PosterURL: h.gateway.BuildImageURL(path, services.ImageSizePoster),
			}
			return nil
		})
	}
	_ = g.Wait()

	return cards
}

// MovieDetails handles GET /movie/{id}
func (h *PageHandler) MovieDetails(w http.ResponseWriter, r *http.Request) {
	log := logger.From(r.Context(), h.logger)
	id := chi.URLParam(r, "id")

	movie, err := h.catalog.GetMovie(r.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrMovieNotFound) {
			h.renderer.RenderError(w, r, http.StatusNotFound, "Movie not found")
			return
		}
		log.Error("failed to get catalog movie", zap.String("movie_id", id), zap.Error(err))
		h.renderer.RenderError(w, r, http.StatusBadGateway, "Error loading movie: "+userMessage(err))
		return
	}

	// TMDB enrichment is optional
	detail := h.gateway.MatchCatalogMovie(r.Context(), *movie)

	data := map[string]interface{}{
		"Movie":     movie,
		"Detail":    detail,
		"PosterURL": h.gateway.BuildImageURL("", services.ImageSizePoster),
	}
	if detail != nil {
		data["PosterURL"] = h.gateway.BuildImageURL(detail.PosterPath, services.ImageSizePoster)
		data["Trailers"] = detail.Videos.Results

		urls := make([]string, 0, len(detail.Images.Backdrops))
		for _, backdrop := range detail.Images.Backdrops {
			urls = append(urls, h.gateway.BuildImageURL(backdrop.FilePath, services.ImageSizeBackdrop))
		}
		data["Backdrops"] = urls
	} else {
		log.Debug("no TMDB match for catalog movie", zap.String("title", movie.Title), zap.Int("year", movie.Year))
	}

	h.renderer.RenderPage(w, r, http.StatusOK, "movie.html", data)
}

// NewReleases handles GET /new-releases
func (h *PageHandler) NewReleases(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)
	data := map[string]interface{}{
		"Page":       page,
		"TotalPages": 0,
		"Query":      "",
		"ReturnTo":   r.URL.RequestURI(),
	}

	result := h.gateway.FetchNowPlaying(r.Context(), page)
	if result == nil {
		data["Error"] = "Unable to load new releases right now"
		h.renderer.RenderPage(w, r, http.StatusBadGateway, "new-releases.html", data)
		return
	}

	data["Cards"] = h.movieCards(r.Context(), result.Results)
	data["TotalPages"] = result.TotalPages
	h.renderer.RenderPage(w, r, http.StatusOK, "new-releases.html", data)
}

// Search handles GET /search
func (h *PageHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	page := pageParam(r)
	data := map[string]interface{}{
		"Page":       page,
		"TotalPages": 0,
		"Query":      query,
		"ReturnTo":   r.URL.RequestURI(),
	}

	if query == "" {
		h.renderer.RenderPage(w, r, http.StatusOK, "search.html", data)
		return
	}

	result := h.gateway.Search(r.Context(), query, page)
	if result == nil {
		data["Error"] = "Unable to search movies right now"
		h.renderer.RenderPage(w, r, http.StatusBadGateway, "search.html", data)
		return
	}

	data["Cards"] = h.movieCards(r.Context(), result.Results)
	data["TotalPages"] = result.TotalPages
	h.renderer.RenderPage(w, r, http.StatusOK, "search.html", data)
}

// movieCards builds the cards of a TMDB result page with catalog statuses
func (h *PageHandler) movieCards(ctx context.Context, movies []services.TMDBMovie) []MovieCard {
	book := h.reconciler.CheckStatuses(ctx, movies)

	cards := make([]MovieCard, 0, len(movies))
	for _, movie := range movies {
		status, _ := book.Get(movie.ID)
		cards = append(cards, MovieCard{
			TmdbID:      movie.ID,
			Title:       movie.Title,
			ReleaseDate: movie.ReleaseDate,
			PosterURL:   h.gateway.BuildImageURL(movie.PosterPath, services.ImageSizePoster),
			Rating:      movie.VoteAverage,
			Status:      status,
		})
	}
	return cards
}
