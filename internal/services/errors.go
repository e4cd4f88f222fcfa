package services

import "errors"

var (
	// ErrAuthRequired is returned by write operations attempted without a session
	ErrAuthRequired = errors.New("authentication required")

	// ErrMissingCrossReference means TMDB knows no IMDb id for the movie
	ErrMissingCrossReference = errors.New("movie has no IMDb id")

	// ErrMissingDirector means TMDB credits list no director for the movie
	ErrMissingDirector = errors.New("movie has no director")

	// ErrMissingReleaseYear means the TMDB release date cannot be parsed
	ErrMissingReleaseYear = errors.New("movie has no release year")

	// ErrAlreadyInCatalog means a movie with the same IMDb id is already stored
	ErrAlreadyInCatalog = errors.New("movie already in catalog")

	// ErrMovieNotFound means the catalog returned no movie for an id
	ErrMovieNotFound = errors.New("movie not found")
)
