package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/liamwears/reelbase/internal/metrics"
	"github.com/liamwears/reelbase/internal/models"
)

// PlaceholderImage is returned by BuildImageURL when TMDB has no image
const PlaceholderImage = "/static/placeholder-movie.svg"

// Image size tokens accepted by the TMDB image CDN
const (
	ImageSizePoster   = "w500"
	ImageSizeBackdrop = "w1280"
	ImageSizeThumb    = "w300"
	ImageSizeOriginal = "original"
)

// TMDBService is the gateway to The Movie Database API.
// Its public methods never return errors: failures are logged and
// reported as nil (or "") meaning "data unavailable".
type TMDBService struct {
	client       *http.Client
	apiKey       string
	baseURL      string
	imageBaseURL string
	limiter      *rate.Limiter
	breaker      *gobreaker.CircuitBreaker[[]byte]
	logger       *zap.Logger
}

// TMDBConfig holds TMDB service configuration
type TMDBConfig struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	// RPS and Burst bound outgoing requests; zero RPS disables the limiter.
	RPS        float64
	Burst      int
	HTTPClient *http.Client
}

// NewTMDBService creates a new TMDB service
func NewTMDBService(cfg TMDBConfig, logger *zap.Logger) *TMDBService {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{
			Timeout: 10 * time.Second,
		}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 20
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}

	s := &TMDBService{
		client:       client,
		apiKey:       cfg.APIKey,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(cfg.ImageBaseURL, "/"),
		limiter:      limiter,
		logger:       logger.Named("tmdb"),
	}
	s.breaker = newTMDBBreaker("tmdb-api", s.logger)

	return s
}

// TMDBMovie represents a movie from TMDB API
type TMDBMovie struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path"`
	ReleaseDate   string  `json:"release_date"`
	VoteAverage   float64 `json:"vote_average"`
	Overview      string  `json:"overview"`
	GenreIDs      []int   `json:"genre_ids,omitempty"`
}

// ReleaseYear returns the year of the release date, or 0 when unknown
func (m TMDBMovie) ReleaseYear() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	released, err := time.Parse("2006-01-02", m.ReleaseDate)
	if err != nil {
		return 0
	}
	return released.Year()
}

// Genre returns the catalog genre of the first TMDB genre code
func (m TMDBMovie) Genre() models.Genre {
	return models.GenreFromIDs(m.GenreIDs)
}

// TMDBMovieResponse represents a paginated movie list response
type TMDBMovieResponse struct {
	Page         int         `json:"page"`
	Results      []TMDBMovie `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// TMDBGenre is a genre as returned by the movie details endpoint
type TMDBGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TMDBCountry is a production country
type TMDBCountry struct {
	ISO31661 string `json:"iso_3166_1"`
	Name     string `json:"name"`
}

// TMDBCastMember is a single cast entry
type TMDBCastMember struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

// TMDBCrewMember is a single crew entry
type TMDBCrewMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// TMDBCredits wraps cast and crew arrays
type TMDBCredits struct {
	Cast []TMDBCastMember `json:"cast"`
	Crew []TMDBCrewMember `json:"crew"`
}

// Director returns the first crew member whose job is Director
func (c TMDBCredits) Director() (TMDBCrewMember, bool) {
	for _, member := range c.Crew {
		if member.Job == "Director" {
			return member, true
		}
	}
	return TMDBCrewMember{}, false
}

// TMDBVideo is a video attached to a movie
type TMDBVideo struct {
	ID          string `json:"id"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Site        string `json:"site"`
	Type        string `json:"type"`
	Official    bool   `json:"official"`
	PublishedAt string `json:"published_at"`
}

// TMDBVideos wraps the videos sub-resource
type TMDBVideos struct {
	Results []TMDBVideo `json:"results"`
}

// TMDBImage is a backdrop or poster image
type TMDBImage struct {
	FilePath    string  `json:"file_path"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
}

// TMDBImages wraps the images sub-resource
type TMDBImages struct {
	Backdrops []TMDBImage `json:"backdrops"`
	Posters   []TMDBImage `json:"posters,omitempty"`
}

// TMDBMovieDetail is a movie with credits, videos and images appended
type TMDBMovieDetail struct {
	TMDBMovie
	Tagline             string        `json:"tagline"`
	Runtime             int           `json:"runtime"`
	Budget              int64         `json:"budget"`
	Revenue             int64         `json:"revenue"`
	Genres              []TMDBGenre   `json:"genres"`
	ProductionCountries []TMDBCountry `json:"production_countries"`
	Credits             TMDBCredits   `json:"credits"`
	Videos              TMDBVideos    `json:"videos"`
	Images              TMDBImages    `json:"images"`
}

// Director returns the director's name, or "" when credits have none
func (d *TMDBMovieDetail) Director() string {
	member, ok := d.Credits.Director()
	if !ok {
		return ""
	}
	return member.Name
}

// CatalogGenre returns the catalog genre of the first detailed genre
func (d *TMDBMovieDetail) CatalogGenre() models.Genre {
	if len(d.Genres) > 0 {
		return models.TranslateTMDBGenre(d.Genres[0].ID)
	}
	return d.TMDBMovie.Genre()
}

type tmdbExternalIDs struct {
	ID     int    `json:"id"`
	IMDbID string `json:"imdb_id"`
}

// tmdbStatusError is a non-2xx answer from TMDB
type tmdbStatusError struct {
	StatusCode int
	Body       string
}

func (e *tmdbStatusError) Error() string {
	return fmt.Sprintf("TMDB API error: status %d, body: %s", e.StatusCode, e.Body)
}

// doRequest performs an HTTP request to TMDB API
func (s *TMDBService) doRequest(ctx context.Context, name, endpoint string, params map[string]string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		metrics.TMDBRequests.WithLabelValues(name, "rejected").Inc()
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	body, err := s.breaker.Execute(func() ([]byte, error) {
		return s.send(ctx, endpoint, params)
	})
	if err != nil {
		var statusErr *tmdbStatusError
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.TMDBRequests.WithLabelValues(name, "rejected").Inc()
		case errors.As(err, &statusErr):
			metrics.TMDBRequests.WithLabelValues(name, fmt.Sprintf("status_%d", statusErr.StatusCode)).Inc()
		default:
			metrics.TMDBRequests.WithLabelValues(name, "error").Inc()
		}
		return nil, err
	}

	metrics.TMDBRequests.WithLabelValues(name, "ok").Inc()
	return body, nil
}

func (s *TMDBService) send(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	url := fmt.Sprintf("%s%s", s.baseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	q := req.URL.Query()
	// v4 read access tokens are JWTs; v3 keys go in the query string
	if strings.Contains(s.apiKey, ".") {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))
	} else {
		q.Set("api_key", s.apiKey)
	}
	q.Set("language", "en-US")
	for key, value := range params {
		q.Set(key, value)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &tmdbStatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 256)}
	}

	return body, nil
}

// get decodes a TMDB response into out, logging and reporting false on any failure
func (s *TMDBService) get(ctx context.Context, name, endpoint string, params map[string]string, out interface{}) bool {
	body, err := s.doRequest(ctx, name, endpoint, params)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("TMDB request failed", zap.String("endpoint", endpoint), zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal(body, out); err != nil {
		s.logger.Warn("failed to decode TMDB response", zap.String("endpoint", endpoint), zap.Error(err))
		return false
	}
	return true
}

// SearchByTitleYear finds the TMDB movie best matching a catalog title and year.
// The year-filtered search is retried without year when it yields nothing.
func (s *TMDBService) SearchByTitleYear(ctx context.Context, title string, year int) *TMDBMovie {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil
	}

	var response TMDBMovieResponse
	found := false
	if year > 0 {
		found = s.get(ctx, "search", "/search/movie", map[string]string{
			"query": title,
			"year":  strconv.Itoa(year),
		}, &response) && len(response.Results) > 0
	}

	if !found {
		if ctx.Err() != nil {
			return nil
		}
		response = TMDBMovieResponse{}
		found = s.get(ctx, "search", "/search/movie", map[string]string{
			"query": title,
		}, &response) && len(response.Results) > 0
	}

	if !found {
		s.logger.Debug("no TMDB results", zap.String("title", title), zap.Int("year", year))
		return nil
	}

	match := bestMatch(response.Results, title, year)
	return &match
}

// bestMatch picks the result whose title and year both equal the query,
// falling back to the first (most relevant) result
func bestMatch(results []TMDBMovie, title string, year int) TMDBMovie {
	for _, movie := range results {
		if strings.EqualFold(movie.Title, title) && movie.ReleaseYear() == year {
			return movie
		}
	}
	return results[0]
}

// Search runs a free-text movie search
func (s *TMDBService) Search(ctx context.Context, query string, page int) *TMDBMovieResponse {
	if page < 1 {
		page = 1
	}

	var response TMDBMovieResponse
	ok := s.get(ctx, "search", "/search/movie", map[string]string{
		"query":         query,
		"page":          strconv.Itoa(page),
		"include_adult": "false",
	}, &response)
	if !ok {
		return nil
	}
	return &response
}

// FetchNowPlaying retrieves a page of movies currently in theaters
func (s *TMDBService) FetchNowPlaying(ctx context.Context, page int) *TMDBMovieResponse {
	if page < 1 {
		page = 1
	}

	var response TMDBMovieResponse
	ok := s.get(ctx, "now_playing", "/movie/now_playing", map[string]string{
		"page": strconv.Itoa(page),
	}, &response)
	if !ok {
		return nil
	}
	return &response
}

// FetchDetail retrieves a movie with credits, videos and images, keeping
// only official trailers and HD rated backdrops
func (s *TMDBService) FetchDetail(ctx context.Context, movieID int) *TMDBMovieDetail {
	var detail TMDBMovieDetail
	ok := s.get(ctx, "movie", fmt.Sprintf("/movie/%d", movieID), map[string]string{
		"append_to_response":     "credits,videos,images",
		"include_image_language": "en,null",
	}, &detail)
	if !ok {
		return nil
	}

	detail.Videos.Results = FilterVideos(detail.Videos.Results)
	detail.Images.Backdrops = FilterBackdrops(detail.Images.Backdrops)

	return &detail
}

// FetchExternalCrossReference returns the IMDb id of a TMDB movie, or ""
func (s *TMDBService) FetchExternalCrossReference(ctx context.Context, movieID int) string {
	var ids tmdbExternalIDs
	if !s.get(ctx, "external_ids", fmt.Sprintf("/movie/%d/external_ids", movieID), nil, &ids) {
		return ""
	}
	return strings.TrimSpace(ids.IMDbID)
}

// MatchCatalogMovie looks up the TMDB detail of a catalog movie by title and year
func (s *TMDBService) MatchCatalogMovie(ctx context.Context, movie models.CatalogMovie) *TMDBMovieDetail {
	match := s.SearchByTitleYear(ctx, movie.Title, movie.Year)
	if match == nil {
		return nil
	}
	return s.FetchDetail(ctx, match.ID)
}

// BuildImageURL returns the full URL for an image path
func (s *TMDBService) BuildImageURL(path, size string) string {
	if path == "" {
		return PlaceholderImage
	}
	if size == "" {
		size = ImageSizeOriginal
	}
	return fmt.Sprintf("%s/%s%s", s.imageBaseURL, size, path)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
