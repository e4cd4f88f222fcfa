package validation

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/liamwears/reelbase/internal/models"
)

// MovieForm holds the fields of the add and edit movie forms
type MovieForm struct {
	Title        string   `form:"title" validate:"required"`
	Year         int      `form:"year" validate:"required,movieyear"`
	Genre        string   `form:"genre" validate:"required,genre"`
	DirectorName string   `form:"directorName" validate:"required"`
	Rating       *float64 `form:"rating" validate:"required,min=0,max=10"`
	Plot         string   `form:"plot"`
	IMDbID       string   `form:"imdbId" validate:"omitempty,imdbid"`

	// RawYear and RawRating keep the submitted text for re-rendering
	RawYear   string `form:"-" validate:"-"`
	RawRating string `form:"-" validate:"-"`
}

// EditMovieForm holds the fields of the edit movie form
type EditMovieForm struct {
	Title        string `form:"title" validate:"required"`
	Year         int    `form:"year" validate:"required,movieyear"`
	Genre        string `form:"genre" validate:"required,genre"`
	DirectorName string `form:"directorName" validate:"required"`

	RawYear string `form:"-" validate:"-"`
}

// LoginForm holds the fields of the login form
type LoginForm struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// SignupForm holds the fields of the signup form
type SignupForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

// ParseMovieForm reads an add movie form. Unparsable numbers are left
// empty so the required rules report them.
func ParseMovieForm(values url.Values) MovieForm {
	form := MovieForm{
		Title:        strings.TrimSpace(values.Get("title")),
		Genre:        strings.TrimSpace(values.Get("genre")),
		DirectorName: strings.TrimSpace(values.Get("directorName")),
		Plot:         strings.TrimSpace(values.Get("plot")),
		IMDbID:       strings.TrimSpace(values.Get("imdbId")),
		RawYear:      strings.TrimSpace(values.Get("year")),
		RawRating:    strings.TrimSpace(values.Get("rating")),
	}
	form.Year, _ = strconv.Atoi(form.RawYear)
	if rating, err := strconv.ParseFloat(form.RawRating, 64); err == nil {
		form.Rating = &rating
	}
	return form
}

// CreateInput converts a validated form into createMovie arguments
func (f MovieForm) CreateInput(imdbID string) models.CreateMovieInput {
	genre, _ := models.ParseGenre(f.Genre)
	return models.CreateMovieInput{
		Title:    f.Title,
		IMDbID:   imdbID,
		Genre:    genre,
		Year:     f.Year,
		Director: f.DirectorName,
	}
}

// ParseEditMovieForm reads an edit movie form
func ParseEditMovieForm(values url.Values) EditMovieForm {
	form := EditMovieForm{
		Title:        strings.TrimSpace(values.Get("title")),
		Genre:        strings.TrimSpace(values.Get("genre")),
		DirectorName: strings.TrimSpace(values.Get("directorName")),
		RawYear:      strings.TrimSpace(values.Get("year")),
	}
	form.Year, _ = strconv.Atoi(form.RawYear)
	return form
}

// EditMovieFormFrom fills the edit form with a catalog movie
func EditMovieFormFrom(movie models.CatalogMovie) EditMovieForm {
	return EditMovieForm{
		Title:        movie.Title,
		Year:         movie.Year,
		Genre:        movie.Genre.String(),
		DirectorName: movie.Director,
		RawYear:      strconv.Itoa(movie.Year),
	}
}

// Changes returns the fields of the form that differ from the stored movie
func (f EditMovieForm) Changes(movie models.CatalogMovie) models.UpdateMovieInput {
	var update models.UpdateMovieInput
	if f.Title != movie.Title {
		title := f.Title
		update.Title = &title
	}
	if f.Year != movie.Year {
		year := f.Year
		update.Year = &year
	}
	if genre, _ := models.ParseGenre(f.Genre); genre != movie.Genre {
		update.Genre = &genre
	}
	if f.DirectorName != movie.Director {
		director := f.DirectorName
		update.Director = &director
	}
	return update
}

// ParseLoginForm reads a login form
func ParseLoginForm(values url.Values) LoginForm {
	return LoginForm{
		Email:    strings.TrimSpace(values.Get("email")),
		Password: values.Get("password"),
	}
}

// ParseSignupForm reads a signup form
func ParseSignupForm(values url.Values) SignupForm {
	return SignupForm{
		Email:    strings.TrimSpace(values.Get("email")),
		Password: values.Get("password"),
	}
}

// MoviePatch is the JSON body of a partial movie update
type MoviePatch struct {
	Title    *string `json:"title,omitempty" form:"title" validate:"omitnil,min=1"`
	Genre    *string `json:"genre,omitempty" form:"genre" validate:"omitnil,genre"`
	Year     *int    `json:"year,omitempty" form:"year" validate:"omitnil,movieyear"`
	Director *string `json:"director,omitempty" form:"directorName" validate:"omitnil,min=1"`
}

// Input converts a validated patch into updateMovie arguments
func (p MoviePatch) Input() models.UpdateMovieInput {
	update := models.UpdateMovieInput{
		Title:    p.Title,
		Year:     p.Year,
		Director: p.Director,
	}
	if p.Genre != nil {
		genre, _ := models.ParseGenre(*p.Genre)
		update.Genre = &genre
	}
	return update
}
