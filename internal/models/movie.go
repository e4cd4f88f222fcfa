package models

import (
	"sync"
)

// CatalogMovie represents a movie stored in the GraphQL catalog
type CatalogMovie struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	IMDbID   string `json:"imdbId"`
	Genre    Genre  `json:"genre"`
	Year     int    `json:"year"`
	Director string `json:"director"`
}

// CreateMovieInput represents the arguments of the createMovie mutation
type CreateMovieInput struct {
	Title    string `json:"title"`
	IMDbID   string `json:"imdbId"`
	Genre    Genre  `json:"genre"`
	Year     int    `json:"year"`
	Director string `json:"director"`
}

// UpdateMovieInput represents a partial update of a catalog movie.
// Nil fields are left untouched by the backend.
type UpdateMovieInput struct {
	Title    *string `json:"title,omitempty"`
	Genre    *Genre  `json:"genre,omitempty"`
	Year     *int    `json:"year,omitempty"`
	Director *string `json:"director,omitempty"`
}

// IsEmpty reports whether the update carries no field at all
func (u UpdateMovieInput) IsEmpty() bool {
	return u.Title == nil && u.Genre == nil && u.Year == nil && u.Director == nil
}

// FavoriteMovie represents an entry of the user's favorites list
type FavoriteMovie struct {
	ID     string  `json:"id"`
	TmdbID int     `json:"tmdbId"`
	Title  string  `json:"title"`
	Year   int     `json:"year"`
	Poster string  `json:"poster"`
	Rating float64 `json:"rating"`
}

// FavoriteMovieInput represents the input of the addToFavorites mutation
type FavoriteMovieInput struct {
	TmdbID int     `json:"tmdbId"`
	Title  string  `json:"title"`
	Year   int     `json:"year"`
	Poster string  `json:"poster"`
	Rating float64 `json:"rating"`
}

// MovieStatus tells whether a TMDB movie is already in the catalog
type MovieStatus struct {
	IMDbID string `json:"imdbId,omitempty"`
	Exists bool   `json:"exists"`
}

// StatusBook holds the MovieStatus of every TMDB movie shown on a page,
// keyed by TMDB id. It is safe for concurrent use.
type StatusBook struct {
	mu       sync.RWMutex
	statuses map[int]MovieStatus
}

// NewStatusBook creates an empty status book
func NewStatusBook() *StatusBook {
	return &StatusBook{statuses: make(map[int]MovieStatus)}
}

// Get returns the status recorded for a TMDB id
func (b *StatusBook) Get(tmdbID int) (MovieStatus, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	status, ok := b.statuses[tmdbID]
	return status, ok
}

// Set records the status of a TMDB id
func (b *StatusBook) Set(tmdbID int, status MovieStatus) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statuses[tmdbID] = status
}

// MarkExists flags a TMDB id as present in the catalog, keeping its IMDb id
func (b *StatusBook) MarkExists(tmdbID int, imdbID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	status := b.statuses[tmdbID]
	if imdbID != "" {
		status.IMDbID = imdbID
	}
	status.Exists = true
	b.statuses[tmdbID] = status
}

// Exists reports whether the TMDB id is known to be in the catalog
func (b *StatusBook) Exists(tmdbID int) bool {
	status, _ := b.Get(tmdbID)
	return status.Exists
}

// Snapshot returns a copy of all recorded statuses
func (b *StatusBook) Snapshot() map[int]MovieStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[int]MovieStatus, len(b.statuses))
	for id, status := range b.statuses {
		out[id] = status
	}
	return out
}

// Len returns the number of recorded statuses
func (b *StatusBook) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.statuses)
}
