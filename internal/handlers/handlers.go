package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/liamwears/reelbase/internal/middleware"
	"github.com/liamwears/reelbase/internal/models"
	"github.com/liamwears/reelbase/internal/services"
)

// Gateway is the TMDB gateway used by the handlers
type Gateway interface {
	Search(ctx context.Context, query string, page int) *services.TMDBMovieResponse
	FetchNowPlaying(ctx context.Context, page int) *services.TMDBMovieResponse
	FetchDetail(ctx context.Context, movieID int) *services.TMDBMovieDetail
	FetchExternalCrossReference(ctx context.Context, movieID int) string
	SearchByTitleYear(ctx context.Context, title string, year int) *services.TMDBMovie
	MatchCatalogMovie(ctx context.Context, movie models.CatalogMovie) *services.TMDBMovieDetail
	BuildImageURL(path, size string) string
}

// Catalog is the GraphQL catalog client used by the handlers
type Catalog interface {
	ListMovies(ctx context.Context) ([]models.CatalogMovie, error)
	GetMovie(ctx context.Context, id string) (*models.CatalogMovie, error)
	CheckExists(ctx context.Context, imdbID string) (bool, error)
	CreateMovie(ctx context.Context, token string, input models.CreateMovieInput) (*models.CatalogMovie, error)
	UpdateMovie(ctx context.Context, token, id string, input models.UpdateMovieInput) (*models.CatalogMovie, error)
	Login(ctx context.Context, email, password string) (*models.AuthPayload, error)
	Signup(ctx context.Context, email, password string) (*models.AuthPayload, error)
	FavoriteMovies(ctx context.Context, token string) ([]models.FavoriteMovie, error)
	AddToFavorites(ctx context.Context, token string, input models.FavoriteMovieInput) (*models.FavoriteMovie, error)
	RemoveFromFavorites(ctx context.Context, token, movieID string) error
}

// Reconciler promotes TMDB movies into the catalog
type Reconciler interface {
	AddToCatalog(ctx context.Context, sess *models.Session, movie services.TMDBMovie, book *models.StatusBook) (*models.CatalogMovie, error)
	CheckStatuses(ctx context.Context, movies []services.TMDBMovie) *models.StatusBook
}

// writeJSON encodes v as the response body
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers with a JSON error message
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// pageParam reads the page query parameter, defaulting to 1
func pageParam(r *http.Request) int {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	return page
}

// localPath returns target when it is a path on this site, fallback otherwise
func localPath(target, fallback string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}

// lookupTMDBMovie returns the TMDB movie for an id with its genre codes
func lookupTMDBMovie(ctx context.Context, gateway Gateway, tmdbID int) *services.TMDBMovie {
	detail := gateway.FetchDetail(ctx, tmdbID)
	if detail == nil {
		return nil
	}
	movie := detail.TMDBMovie
	if len(movie.GenreIDs) == 0 {
		for _, genre := range detail.Genres {
			movie.GenreIDs = append(movie.GenreIDs, genre.ID)
		}
	}
	return &movie
}

// userMessage returns the part of err that can be shown to a user
func userMessage(err error) string {
	var catalogErr *services.CatalogError
	switch {
	case errors.As(err, &catalogErr):
		return catalogErr.Message
	case errors.Is(err, services.ErrAuthRequired),
		errors.Is(err, services.ErrMissingCrossReference),
		errors.Is(err, services.ErrMissingDirector),
		errors.Is(err, services.ErrMissingReleaseYear),
		errors.Is(err, services.ErrAlreadyInCatalog),
		errors.Is(err, services.ErrMovieNotFound):
		return err.Error()
	default:
		return "something went wrong, please try again"
	}
}

// sessionToken returns the catalog token of the request session, or ""
func sessionToken(r *http.Request) string {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok || sess == nil {
		return ""
	}
	return sess.Token
}

// genreChoices returns the form genres plus current when the form lacks it
func genreChoices(current models.Genre) []models.Genre {
	for _, genre := range models.FormGenres {
		if genre == current {
			return models.FormGenres
		}
	}
	choices := append([]models.Genre{}, models.FormGenres...)
	if current.IsValid() {
		choices = append(choices, current)
	}
	return choices
}

// tmdbID reads a positive TMDB id from a route parameter
func tmdbID(r *http.Request, param string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
