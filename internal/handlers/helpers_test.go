package handlers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/liamwears/reelbase/internal/models"
	"github.com/liamwears/reelbase/internal/services"
)

// fakeGateway is an in-memory TMDB keyed by TMDB id
type fakeGateway struct {
	mu         sync.Mutex
	details    map[int]*services.TMDBMovieDetail
	crossRefs  map[int]string
	nowPlaying *services.TMDBMovieResponse
	searchHits *services.TMDBMovieResponse
	requests   int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		details:   make(map[int]*services.TMDBMovieDetail),
		crossRefs: make(map[int]string),
	}
}

func (g *fakeGateway) add(detail *services.TMDBMovieDetail, imdbID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.details[detail.ID] = detail
	g.crossRefs[detail.ID] = imdbID
}

func (g *fakeGateway) requestCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.requests
}

func (g *fakeGateway) Search(_ context.Context, _ string, _ int) *services.TMDBMovieResponse {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests++
	return g.searchHits
}

func (g *fakeGateway) FetchNowPlaying(_ context.Context, _ int) *services.TMDBMovieResponse {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests++
	return g.nowPlaying
}

func (g *fakeGateway) FetchDetail(_ context.Context, movieID int) *services.TMDBMovieDetail {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests++
	detail, ok := g.details[movieID]
	if !ok {
		return nil
	}
	copied := *detail
	return &copied
}

func (g *fakeGateway) FetchExternalCrossReference(_ context.Context, movieID int) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests++
	return g.crossRefs[movieID]
}

func (g *fakeGateway) SearchByTitleYear(_ context.Context, title string, year int) *services.TMDBMovie {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests++
	for _, detail := range g.details {
		if strings.EqualFold(detail.Title, title) && (year == 0 || detail.ReleaseYear() == year) {
			movie := detail.TMDBMovie
			return &movie
		}
	}
	return nil
}

func (g *fakeGateway) MatchCatalogMovie(ctx context.Context, movie models.CatalogMovie) *services.TMDBMovieDetail {
	match := g.SearchByTitleYear(ctx, movie.Title, movie.Year)
	if match == nil {
		return nil
	}
	return g.FetchDetail(ctx, match.ID)
}

func (g *fakeGateway) BuildImageURL(path, size string) string {
	if path == "" {
		return services.PlaceholderImage
	}
	return "https://img.test/" + size + path
}

// fakeCatalog is an in-memory GraphQL catalog
type fakeCatalog struct {
	mu         sync.Mutex
	movies     []models.CatalogMovie
	users      map[string]string
	favorites  []models.FavoriteMovie
	writes     int
	lastUpdate models.UpdateMovieInput
	failure    error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{users: make(map[string]string)}
}

func (c *fakeCatalog) seed(movie models.CatalogMovie) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.movies = append(c.movies, movie)
}

func (c *fakeCatalog) writeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writes
}

func (c *fakeCatalog) byIMDbID(imdbID string) (models.CatalogMovie, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, movie := range c.movies {
		if movie.IMDbID == imdbID {
			return movie, true
		}
	}
	return models.CatalogMovie{}, false
}

func (c *fakeCatalog) ListMovies(_ context.Context) ([]models.CatalogMovie, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failure != nil {
		return nil, c.failure
	}
	return append([]models.CatalogMovie(nil), c.movies...), nil
}

func (c *fakeCatalog) GetMovie(_ context.Context, id string) (*models.CatalogMovie, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failure != nil {
		return nil, c.failure
	}
	for _, movie := range c.movies {
		if movie.ID == id {
			found := movie
			return &found, nil
		}
	}
	return nil, services.ErrMovieNotFound
}

func (c *fakeCatalog) CheckExists(_ context.Context, imdbID string) (bool, error) {
	if c.failure != nil {
		return false, c.failure
	}
	_, ok := c.byIMDbID(imdbID)
	return ok, nil
}

func (c *fakeCatalog) CreateMovie(_ context.Context, token string, input models.CreateMovieInput) (*models.CatalogMovie, error) {
	if token == "" {
		return nil, services.ErrAuthRequired
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writes++
	movie := models.CatalogMovie{
		ID:       fmt.Sprintf("m%d", len(c.movies)+1),
		Title:    input.Title,
		IMDbID:   input.IMDbID,
		Genre:    input.Genre,
		Year:     input.Year,
		Director: input.Director,
	}
	c.movies = append(c.movies, movie)
	return &movie, nil
}

func (c *fakeCatalog) UpdateMovie(_ context.Context, token, id string, input models.UpdateMovieInput) (*models.CatalogMovie, error) {
	if token == "" {
		return nil, services.ErrAuthRequired
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.movies {
		if c.movies[i].ID != id {
			continue
		}
		c.writes++
		c.lastUpdate = input
		if input.Title != nil {
			c.movies[i].Title = *input.Title
		}
		if input.Genre != nil {
			c.movies[i].Genre = *input.Genre
		}
		if input.Year != nil {
			c.movies[i].Year = *input.Year
		}
		if input.Director != nil {
			c.movies[i].Director = *input.Director
		}
		updated := c.movies[i]
		return &updated, nil
	}
	return nil, services.ErrMovieNotFound
}

func (c *fakeCatalog) Login(_ context.Context, email, password string) (*models.AuthPayload, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if stored, ok := c.users[email]; !ok || stored != password {
		return nil, &services.CatalogError{Op: "login", Message: "Invalid credentials"}
	}
	return &models.AuthPayload{Token: "token-" + email, User: models.User{ID: "u-" + email, Email: email}}, nil
}

func (c *fakeCatalog) Signup(_ context.Context, email, password string) (*models.AuthPayload, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.users[email]; ok {
		return nil, &services.CatalogError{Op: "signup", Message: "User already exists"}
	}
	c.users[email] = password
	return &models.AuthPayload{Token: "token-" + email, User: models.User{ID: "u-" + email, Email: email}}, nil
}

func (c *fakeCatalog) FavoriteMovies(_ context.Context, token string) ([]models.FavoriteMovie, error) {
	if token == "" {
		return nil, services.ErrAuthRequired
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.FavoriteMovie(nil), c.favorites...), nil
}

func (c *fakeCatalog) AddToFavorites(_ context.Context, token string, input models.FavoriteMovieInput) (*models.FavoriteMovie, error) {
	if token == "" {
		return nil, services.ErrAuthRequired
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	favorite := models.FavoriteMovie{
		ID:     fmt.Sprintf("f%d", len(c.favorites)+1),
		TmdbID: input.TmdbID,
		Title:  input.Title,
		Year:   input.Year,
		Poster: input.Poster,
		Rating: input.Rating,
	}
	c.favorites = append(c.favorites, favorite)
	return &favorite, nil
}

func (c *fakeCatalog) RemoveFromFavorites(_ context.Context, token, movieID string) error {
	if token == "" {
		return services.ErrAuthRequired
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, favorite := range c.favorites {
		if favorite.ID == movieID {
			c.favorites = append(c.favorites[:i], c.favorites[i+1:]...)
			return nil
		}
	}
	return &services.CatalogError{Op: "removeFromFavorites", Message: "Favorite not found"}
}

func matrixDetail() *services.TMDBMovieDetail {
	return &services.TMDBMovieDetail{
		TMDBMovie: services.TMDBMovie{
			ID:          603,
			Title:       "The Matrix",
			ReleaseDate: "1999-03-30",
			PosterPath:  "/matrix.jpg",
			VoteAverage: 8.2,
		},
		Tagline: "Welcome to the Real World.",
		Genres:  []services.TMDBGenre{{ID: 878, Name: "Science Fiction"}},
		Credits: services.TMDBCredits{
			Crew: []services.TMDBCrewMember{{Name: "Lana Wachowski", Job: "Director"}},
		},
		Videos: services.TMDBVideos{Results: []services.TMDBVideo{
			{Key: "vKQi3bBA1y8", Name: "Official Trailer", Site: "YouTube", Type: "Trailer", Official: true},
		}},
	}
}

func heatDetail() *services.TMDBMovieDetail {
	return &services.TMDBMovieDetail{
		TMDBMovie: services.TMDBMovie{
			ID:          949,
			Title:       "Heat",
			ReleaseDate: "1995-12-15",
			PosterPath:  "/heat.jpg",
			VoteAverage: 7.9,
		},
		Genres: []services.TMDBGenre{{ID: 80, Name: "Crime"}},
		Credits: services.TMDBCredits{
			Crew: []services.TMDBCrewMember{{Name: "Michael Mann", Job: "Director"}},
		},
	}
}
