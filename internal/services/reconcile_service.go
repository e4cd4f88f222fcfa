package services

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/liamwears/reelbase/internal/metrics"
	"github.com/liamwears/reelbase/internal/models"
)

// statusCheckLimit bounds the concurrent checks of a page of TMDB movies
const statusCheckLimit = 8

// MovieGateway is the part of the TMDB gateway used by reconciliation
type MovieGateway interface {
	FetchExternalCrossReference(ctx context.Context, movieID int) string
	FetchDetail(ctx context.Context, movieID int) *TMDBMovieDetail
}

// MovieCatalog is the part of the catalog client used by reconciliation
type MovieCatalog interface {
	CheckExists(ctx context.Context, imdbID string) (bool, error)
	CreateMovie(ctx context.Context, token string, input models.CreateMovieInput) (*models.CatalogMovie, error)
}

// ReconcileService promotes TMDB movies into the catalog
type ReconcileService struct {
	gateway MovieGateway
	catalog MovieCatalog
	logger  *zap.Logger
}

// NewReconcileService creates a new ReconcileService
func NewReconcileService(gateway MovieGateway, catalog MovieCatalog, logger *zap.Logger) *ReconcileService {
	return &ReconcileService{
		gateway: gateway,
		catalog: catalog,
		logger:  logger.Named("reconcile"),
	}
}

// AddToCatalog creates a catalog entry for a TMDB movie unless one with the
// same IMDb id already exists. The book records the outcome.
func (s *ReconcileService) AddToCatalog(ctx context.Context, sess *models.Session, movie TMDBMovie, book *models.StatusBook) (*models.CatalogMovie, error) {
	created, err := s.addToCatalog(ctx, sess, movie, book)
	metrics.Reconciliations.WithLabelValues(reconcileOutcome(err)).Inc()
	if err != nil {
		s.logger.Info("movie not added to catalog",
			zap.Int("tmdb_id", movie.ID),
			zap.String("title", movie.Title),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("movie added to catalog",
		zap.Int("tmdb_id", movie.ID),
		zap.String("imdb_id", created.IMDbID),
		zap.String("catalog_id", created.ID),
	)
	return created, nil
}

func (s *ReconcileService) addToCatalog(ctx context.Context, sess *models.Session, movie TMDBMovie, book *models.StatusBook) (*models.CatalogMovie, error) {
	if sess == nil || sess.Token == "" {
		return nil, ErrAuthRequired
	}

	status, _ := book.Get(movie.ID)
	imdbID := status.IMDbID
	if imdbID == "" {
		imdbID = s.gateway.FetchExternalCrossReference(ctx, movie.ID)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if imdbID == "" {
		return nil, ErrMissingCrossReference
	}

	exists, err := s.catalog.CheckExists(ctx, imdbID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if exists {
		book.MarkExists(movie.ID, imdbID)
		return nil, ErrAlreadyInCatalog
	}

	detail := s.gateway.FetchDetail(ctx, movie.ID)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	director := ""
	if detail != nil {
		director = detail.Director()
	}
	if director == "" {
		return nil, ErrMissingDirector
	}

	year := movie.ReleaseYear()
	if year == 0 {
		return nil, ErrMissingReleaseYear
	}

	created, err := s.catalog.CreateMovie(ctx, sess.Token, models.CreateMovieInput{
		Title:    movie.Title,
		IMDbID:   imdbID,
		Genre:    movie.Genre(),
		Year:     year,
		Director: director,
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	book.MarkExists(movie.ID, imdbID)
	return created, nil
}

// CheckStatuses resolves the IMDb id and catalog presence of every movie,
// running at most statusCheckLimit checks at a time. Movies whose checks
// fail are recorded as absent. A cancelled context yields a partial book.
func (s *ReconcileService) CheckStatuses(ctx context.Context, movies []TMDBMovie) *models.StatusBook {
	book := models.NewStatusBook()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statusCheckLimit)

	for _, movie := range movies {
		movieID := movie.ID
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			imdbID := s.gateway.FetchExternalCrossReference(gctx, movieID)
			if imdbID == "" {
				book.Set(movieID, models.MovieStatus{})
				return nil
			}

			exists, err := s.catalog.CheckExists(gctx, imdbID)
			if err != nil {
				s.logger.Debug("status check failed", zap.Int("tmdb_id", movieID), zap.Error(err))
			}
			book.Set(movieID, models.MovieStatus{IMDbID: imdbID, Exists: exists})
			return nil
		})
	}

	_ = g.Wait()
	return book
}

func reconcileOutcome(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, ErrAlreadyInCatalog):
		return "exists"
	case errors.Is(err, ErrMissingCrossReference),
		errors.Is(err, ErrMissingDirector),
		errors.Is(err, ErrMissingReleaseYear):
		return "incomplete"
	case errors.Is(err, ErrAuthRequired):
		return "unauthenticated"
	default:
		return "error"
	}
}
