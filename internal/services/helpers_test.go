package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/liamwears/reelbase/internal/models"
)

func catalogMovie(title string, year int) models.CatalogMovie {
	return models.CatalogMovie{Title: title, Year: year}
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) FetchExternalCrossReference(ctx context.Context, movieID int) string {
	args := m.Called(ctx, movieID)
	return args.String(0)
}

func (m *mockGateway) FetchDetail(ctx context.Context, movieID int) *TMDBMovieDetail {
	args := m.Called(ctx, movieID)
	if detail := args.Get(0); detail != nil {
		return detail.(*TMDBMovieDetail)
	}
	return nil
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) CheckExists(ctx context.Context, imdbID string) (bool, error) {
	args := m.Called(ctx, imdbID)
	return args.Bool(0), args.Error(1)
}

func (m *mockCatalog) CreateMovie(ctx context.Context, token string, input models.CreateMovieInput) (*models.CatalogMovie, error) {
	args := m.Called(ctx, token, input)
	if movie := args.Get(0); movie != nil {
		return movie.(*models.CatalogMovie), args.Error(1)
	}
	return nil, args.Error(1)
}

func detailWithDirector(id int, director string) *TMDBMovieDetail {
	detail := &TMDBMovieDetail{TMDBMovie: TMDBMovie{ID: id}}
	if director != "" {
		detail.Credits.Crew = []TMDBCrewMember{
			{Name: "Someone Else", Job: "Producer"},
			{Name: director, Job: "Director"},
		}
	}
	return detail
}
