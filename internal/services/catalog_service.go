package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/machinebox/graphql"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/liamwears/reelbase/internal/metrics"
	"github.com/liamwears/reelbase/internal/models"
)

const (
	listMoviesQuery = `
		query GetMovies {
			movies {
				id
				title
				imdbId
				year
				genre
				director
			}
		}
	`

	getMovieQuery = `
		query GetMovie($id: ID!) {
			movie(id: $id) {
				id
				title
				imdbId
				genre
				year
				director
			}
		}
	`

	checkMovieQuery = `
		query CheckMovie($imdbId: String!) {
			checkMovie(imdbId: $imdbId)
		}
	`

	favoriteMoviesQuery = `
		query GetFavoriteMovies {
			favoriteMovies {
				id
				tmdbId
				title
				year
				poster
				rating
			}
		}
	`

	loginMutation = `
		mutation Login($email: String!, $password: String!) {
			login(email: $email, password: $password) {
				token
				user {
					id
					email
				}
			}
		}
	`

	signupMutation = `
		mutation Signup($email: String!, $password: String!) {
			signup(email: $email, password: $password) {
				token
				user {
					id
					email
				}
			}
		}
	`

	createMovieMutation = `
		mutation CreateMovie(
			$title: String!
			$imdbId: String!
			$genre: String!
			$year: Int!
			$director: String!
		) {
			createMovie(
				title: $title
				imdbId: $imdbId
				genre: $genre
				year: $year
				director: $director
			) {
				id
				title
				imdbId
				genre
				year
				director
			}
		}
	`

	updateMovieMutation = `
		mutation UpdateMovie(
			$id: ID!
			$title: String
			$genre: String
			$year: Int
			$director: String
		) {
			updateMovie(
				id: $id
				title: $title
				genre: $genre
				year: $year
				director: $director
			) {
				id
				title
				imdbId
				year
				genre
				director
			}
		}
	`

	addToFavoritesMutation = `
		mutation AddToFavorites($input: FavoriteMovieInput!) {
			addToFavorites(input: $input) {
				id
				tmdbId
				title
				year
				poster
				rating
			}
		}
	`

	removeFromFavoritesMutation = `
		mutation RemoveFromFavorites($movieId: ID!) {
			removeFromFavorites(movieId: $movieId)
		}
	`
)

// CatalogError is an opaque failure reported by the GraphQL backend
type CatalogError struct {
	Op      string
	Message string
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// CatalogService is the GraphQL client of the movie catalog
type CatalogService struct {
	endpoint   string
	httpClient *http.Client
	client     *graphql.Client
	logger     *zap.Logger
}

// NewCatalogService creates a new catalog client for a GraphQL endpoint
func NewCatalogService(endpoint string, httpClient *http.Client, logger *zap.Logger) *CatalogService {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 10 * time.Second,
		}
	}

	s := &CatalogService{
		endpoint:   endpoint,
		httpClient: httpClient,
		logger:     logger.Named("catalog"),
	}
	s.client = s.newClient(httpClient)

	return s
}

func (s *CatalogService) newClient(httpClient *http.Client) *graphql.Client {
	client := graphql.NewClient(s.endpoint, graphql.WithHTTPClient(httpClient))
	client.Log = func(line string) {
		s.logger.Debug(line)
	}
	return client
}

// clientFor returns a client sending the session token as a bearer token
func (s *CatalogService) clientFor(ctx context.Context, token string) *graphql.Client {
	if token == "" {
		return s.client
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	authed := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	return s.newClient(authed)
}

// run executes one GraphQL operation and normalizes its failure
func (s *CatalogService) run(ctx context.Context, op, token string, req *graphql.Request, resp interface{}) error {
	err := s.clientFor(ctx, token).Run(ctx, req, resp)
	if err != nil {
		metrics.CatalogRequests.WithLabelValues(op, "error").Inc()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		s.logger.Warn("catalog operation failed", zap.String("op", op), zap.Error(err))
		return &CatalogError{Op: op, Message: strings.TrimPrefix(err.Error(), "graphql: ")}
	}

	metrics.CatalogRequests.WithLabelValues(op, "ok").Inc()
	return nil
}

// ListMovies retrieves every movie of the catalog
func (s *CatalogService) ListMovies(ctx context.Context) ([]models.CatalogMovie, error) {
	var resp struct {
		Movies []models.CatalogMovie `json:"movies"`
	}
	if err := s.run(ctx, "movies", "", graphql.NewRequest(listMoviesQuery), &resp); err != nil {
		return nil, err
	}
	return resp.Movies, nil
}

// GetMovie retrieves a catalog movie by ID
func (s *CatalogService) GetMovie(ctx context.Context, id string) (*models.CatalogMovie, error) {
	req := graphql.NewRequest(getMovieQuery)
	req.Var("id", id)

	var resp struct {
		Movie *models.CatalogMovie `json:"movie"`
	}
	if err := s.run(ctx, "movie", "", req, &resp); err != nil {
		return nil, err
	}
	if resp.Movie == nil {
		return nil, ErrMovieNotFound
	}
	return resp.Movie, nil
}

// CheckExists reports whether a movie with this IMDb id is in the catalog
func (s *CatalogService) CheckExists(ctx context.Context, imdbID string) (bool, error) {
	req := graphql.NewRequest(checkMovieQuery)
	req.Var("imdbId", imdbID)

	var resp struct {
		CheckMovie bool `json:"checkMovie"`
	}
	if err := s.run(ctx, "checkMovie", "", req, &resp); err != nil {
		return false, err
	}
	return resp.CheckMovie, nil
}

// Login exchanges credentials for a session token
func (s *CatalogService) Login(ctx context.Context, email, password string) (*models.AuthPayload, error) {
	return s.authenticate(ctx, "login", loginMutation, email, password)
}

// Signup registers a new account and returns its session token
func (s *CatalogService) Signup(ctx context.Context, email, password string) (*models.AuthPayload, error) {
	return s.authenticate(ctx, "signup", signupMutation, email, password)
}

func (s *CatalogService) authenticate(ctx context.Context, op, mutation, email, password string) (*models.AuthPayload, error) {
	req := graphql.NewRequest(mutation)
	req.Var("email", email)
	req.Var("password", password)

	resp := map[string]*models.AuthPayload{}
	if err := s.run(ctx, op, "", req, &resp); err != nil {
		return nil, err
	}

	payload := resp[op]
	if payload == nil || payload.Token == "" {
		return nil, &CatalogError{Op: op, Message: "no token returned"}
	}
	return payload, nil
}

// CreateMovie adds a movie to the catalog
func (s *CatalogService) CreateMovie(ctx context.Context, token string, input models.CreateMovieInput) (*models.CatalogMovie, error) {
	if token == "" {
		return nil, ErrAuthRequired
	}
	if input.IMDbID == "" {
		return nil, ErrMissingCrossReference
	}
	if input.Director == "" {
		return nil, ErrMissingDirector
	}

	req := graphql.NewRequest(createMovieMutation)
	req.Var("title", input.Title)
	req.Var("imdbId", input.IMDbID)
	req.Var("genre", input.Genre.String())
	req.Var("year", input.Year)
	req.Var("director", input.Director)

	var resp struct {
		CreateMovie *models.CatalogMovie `json:"createMovie"`
	}
	if err := s.run(ctx, "createMovie", token, req, &resp); err != nil {
		return nil, err
	}
	if resp.CreateMovie == nil {
		return nil, &CatalogError{Op: "createMovie", Message: "no movie returned"}
	}
	return resp.CreateMovie, nil
}

// UpdateMovie applies a partial update to a catalog movie
func (s *CatalogService) UpdateMovie(ctx context.Context, token, id string, input models.UpdateMovieInput) (*models.CatalogMovie, error) {
	if token == "" {
		return nil, ErrAuthRequired
	}

	req := graphql.NewRequest(updateMovieMutation)
	req.Var("id", id)
	if input.Title != nil {
		req.Var("title", *input.Title)
	}
	if input.Genre != nil {
		req.Var("genre", input.Genre.String())
	}
	if input.Year != nil {
		req.Var("year", *input.Year)
	}
	if input.Director != nil {
		req.Var("director", *input.Director)
	}

	var resp struct {
		UpdateMovie *models.CatalogMovie `json:"updateMovie"`
	}
	if err := s.run(ctx, "updateMovie", token, req, &resp); err != nil {
		return nil, err
	}
	if resp.UpdateMovie == nil {
		return nil, ErrMovieNotFound
	}
	return resp.UpdateMovie, nil
}

// FavoriteMovies lists the favorites of the session's user
func (s *CatalogService) FavoriteMovies(ctx context.Context, token string) ([]models.FavoriteMovie, error) {
	if token == "" {
		return nil, ErrAuthRequired
	}

	var resp struct {
		FavoriteMovies []models.FavoriteMovie `json:"favoriteMovies"`
	}
	if err := s.run(ctx, "favoriteMovies", token, graphql.NewRequest(favoriteMoviesQuery), &resp); err != nil {
		return nil, err
	}
	return resp.FavoriteMovies, nil
}

// AddToFavorites stores a TMDB movie in the user's favorites
func (s *CatalogService) AddToFavorites(ctx context.Context, token string, input models.FavoriteMovieInput) (*models.FavoriteMovie, error) {
	if token == "" {
		return nil, ErrAuthRequired
	}

	req := graphql.NewRequest(addToFavoritesMutation)
	req.Var("input", input)

	var resp struct {
		AddToFavorites *models.FavoriteMovie `json:"addToFavorites"`
	}
	if err := s.run(ctx, "addToFavorites", token, req, &resp); err != nil {
		return nil, err
	}
	if resp.AddToFavorites == nil {
		return nil, &CatalogError{Op: "addToFavorites", Message: "no favorite returned"}
	}
	return resp.AddToFavorites, nil
}

// RemoveFromFavorites removes a favorite by its ID
func (s *CatalogService) RemoveFromFavorites(ctx context.Context, token, movieID string) error {
	if token == "" {
		return ErrAuthRequired
	}

	req := graphql.NewRequest(removeFromFavoritesMutation)
	req.Var("movieId", movieID)

	var resp struct {
		RemoveFromFavorites bool `json:"removeFromFavorites"`
	}
	if err := s.run(ctx, "removeFromFavorites", token, req, &resp); err != nil {
		return err
	}
	if !resp.RemoveFromFavorites {
		return &CatalogError{Op: "removeFromFavorites", Message: "favorite not removed"}
	}
	return nil
}

// IsCatalogError reports whether err came from the backend
func IsCatalogError(err error) bool {
	var catalogErr *CatalogError
	return errors.As(err, &catalogErr)
}
