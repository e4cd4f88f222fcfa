package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/liamwears/reelbase/internal/logger"
	"github.com/liamwears/reelbase/internal/models"
	"github.com/liamwears/reelbase/internal/services"
)

// FavoriteCard is a favorite movie with its poster URL
type FavoriteCard struct {
	Movie     models.FavoriteMovie
	PosterURL string
}

// FavoritesHandler handles the user's favorites list
type FavoritesHandler struct {
	gateway  Gateway
	catalog  Catalog
	renderer *Renderer
	flasher  *Flasher
	logger   *zap.Logger
}

// NewFavoritesHandler creates a new favorites handler
func NewFavoritesHandler(gateway Gateway, catalog Catalog, renderer *Renderer, flasher *Flasher, logger *zap.Logger) *FavoritesHandler {
	return &FavoritesHandler{
		gateway:  gateway,
		catalog:  catalog,
		renderer: renderer,
		flasher:  flasher,
		logger:   logger,
	}
}

// List handles GET /favorites
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	favorites, err := h.catalog.FavoriteMovies(r.Context(), sessionToken(r))
	if err != nil {
		logger.From(r.Context(), h.logger).Error("failed to list favorites", zap.Error(err))
		h.renderer.RenderPage(w, r, http.StatusBadGateway, "favorites.html", map[string]interface{}{
			"Error": "Error loading favorites: " + userMessage(err),
		})
		return
	}

	cards := make([]FavoriteCard, 0, len(favorites))
	for _, favorite := range favorites {
		cards = append(cards, FavoriteCard{
			Movie:     favorite,
			PosterURL: h.gateway.BuildImageURL(favorite.Poster, services.ImageSizePoster),
		})
	}

	h.renderer.RenderPage(w, r, http.StatusOK, "favorites.html", map[string]interface{}{
		"Favorites": cards,
	})
}

// Add handles POST /favorites
func (h *FavoritesHandler) Add(w http.ResponseWriter, r *http.Request) {
	returnTo := localPath(r.FormValue("return"), "/favorites")

	id, err := strconv.Atoi(r.FormValue("tmdbId"))
	if err != nil || id <= 0 {
		h.flasher.Add(w, r, FlashError, "Error adding favorite: invalid movie id")
		http.Redirect(w, r, returnTo, http.StatusSeeOther)
		return
	}

	movie := lookupTMDBMovie(r.Context(), h.gateway, id)
	if movie == nil {
		h.flasher.Add(w, r, FlashError, "Error adding favorite: movie details are unavailable")
		http.Redirect(w, r, returnTo, http.StatusSeeOther)
		return
	}

	_, err = h.catalog.AddToFavorites(r.Context(), sessionToken(r), models.FavoriteMovieInput{
		TmdbID: movie.ID,
		Title:  movie.Title,
		Year:   movie.ReleaseYear(),
		Poster: movie.PosterPath,
		Rating: movie.VoteAverage,
	})
	if err != nil {
		logger.From(r.Context(), h.logger).Error("failed to add favorite", zap.Int("tmdb_id", id), zap.Error(err))
		h.flasher.Add(w, r, FlashError, "Error adding favorite: "+userMessage(err))
		http.Redirect(w, r, returnTo, http.StatusSeeOther)
		return
	}

	h.flasher.Add(w, r, FlashSuccess, fmt.Sprintf("%s added to favorites", movie.Title))
	http.Redirect(w, r, returnTo, http.StatusSeeOther)
}

// Remove handles POST /favorites/{id}/delete
func (h *FavoritesHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.catalog.RemoveFromFavorites(r.Context(), sessionToken(r), id); err != nil {
		logger.From(r.Context(), h.logger).Error("failed to remove favorite", zap.String("movie_id", id), zap.Error(err))
		h.flasher.Add(w, r, FlashError, "Error removing favorite: "+userMessage(err))
	} else {
		h.flasher.Add(w, r, FlashSuccess, "Removed from favorites")
	}
	http.Redirect(w, r, "/favorites", http.StatusSeeOther)
}
