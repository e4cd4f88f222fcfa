package validation

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liamwears/reelbase/internal/models"
)

func fixClock(t *testing.T, year int) {
	t.Helper()
	previous := Now
	Now = func() time.Time { return time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { Now = previous })
}

func validMovieForm() url.Values {
	return url.Values{
		"title":        {"Heat"},
		"year":         {"1995"},
		"genre":        {"CRIME"},
		"directorName": {"Michael Mann"},
		"rating":       {"8.3"},
		"plot":         {"A group of professional bank robbers"},
	}
}

func TestValidateStruct_ValidMovieForm(t *testing.T) {
	fixClock(t, 2026)

	form := ParseMovieForm(validMovieForm())
	assert.Nil(t, ValidateStruct(form))

	input := form.CreateInput("tt0113277")
	assert.Equal(t, models.CreateMovieInput{
		Title:    "Heat",
		IMDbID:   "tt0113277",
		Genre:    models.GenreCrime,
		Year:     1995,
		Director: "Michael Mann",
	}, input)
}

func TestValidateStruct_YearBounds(t *testing.T) {
	fixClock(t, 2026)

	cases := []struct {
		year  string
		valid bool
	}{
		{year: "1887", valid: false},
		{year: "1888", valid: true},
		{year: "2031", valid: true},
		{year: "2032", valid: false},
	}

	for _, tc := range cases {
		t.Run(tc.year, func(t *testing.T) {
			values := validMovieForm()
			values.Set("year", tc.year)

			errs := ValidateStruct(ParseMovieForm(values))
			if tc.valid {
				assert.Nil(t, errs)
				return
			}
			require.NotNil(t, errs)
			assert.Equal(t, "Please enter a valid year", errs["year"])
		})
	}
}

func TestValidateStruct_MovieFormMessages(t *testing.T) {
	fixClock(t, 2026)

	errs := ValidateStruct(ParseMovieForm(url.Values{
		"title":  {"   "},
		"year":   {"soon"},
		"genre":  {"POLKA"},
		"rating": {"11"},
		"imdbId": {"0113277"},
	}))

	assert.Equal(t, FieldErrors{
		"title":        "Title is required",
		"year":         "Year is required",
		"genre":        "Please choose a valid genre",
		"directorName": "Director name is required",
		"rating":       "Rating must be between 0 and 10",
		"imdbId":       "Please enter a valid IMDb id (tt1234567)",
	}, errs)
	assert.True(t, errs.Has("title"))
	assert.False(t, errs.Has("plot"))
}

func TestValidateStruct_RatingBounds(t *testing.T) {
	fixClock(t, 2026)

	for _, rating := range []string{"0", "10", "5.5"} {
		values := validMovieForm()
		values.Set("rating", rating)
		assert.Nil(t, ValidateStruct(ParseMovieForm(values)), rating)
	}

	values := validMovieForm()
	values.Set("rating", "-0.1")
	assert.Equal(t, "Rating must be between 0 and 10", ValidateStruct(ParseMovieForm(values))["rating"])

	values.Del("rating")
	assert.Equal(t, "Rating is required", ValidateStruct(ParseMovieForm(values))["rating"])
}

func TestValidateStruct_GenreAcceptsFullEnum(t *testing.T) {
	fixClock(t, 2026)

	values := validMovieForm()
	values.Set("genre", "WESTERN")
	assert.Nil(t, ValidateStruct(ParseMovieForm(values)))

	values.Set("genre", "science fiction")
	assert.Nil(t, ValidateStruct(ParseMovieForm(values)))
}

func TestValidateStruct_LoginForm(t *testing.T) {
	errs := ValidateStruct(ParseLoginForm(url.Values{}))
	assert.Equal(t, FieldErrors{
		"email":    "Email is required",
		"password": "Password is required",
	}, errs)
	assert.Equal(t, "Email is required; Password is required", errs.Error())

	assert.Nil(t, ValidateStruct(ParseLoginForm(url.Values{
		"email":    {"ana@example.com"},
		"password": {"secret"},
	})))
}

func TestValidateStruct_SignupForm(t *testing.T) {
	errs := ValidateStruct(ParseSignupForm(url.Values{
		"email":    {"not-an-email"},
		"password": {"abc"},
	}))
	assert.Equal(t, "Please enter a valid email address", errs["email"])
	assert.Equal(t, "Password must be at least 6 characters", errs["password"])
}

func TestEditMovieForm_Changes(t *testing.T) {
	fixClock(t, 2026)

	stored := models.CatalogMovie{
		ID:       "m1",
		Title:    "Heat",
		IMDbID:   "tt0113277",
		Genre:    models.GenreCrime,
		Year:     1995,
		Director: "Michael Mann",
	}

	form := EditMovieFormFrom(stored)
	assert.Nil(t, ValidateStruct(form))
	assert.True(t, form.Changes(stored).IsEmpty())

	form = ParseEditMovieForm(url.Values{
		"title":        {"Heat"},
		"year":         {"1995"},
		"genre":        {"THRILLER"},
		"directorName": {"Michael Mann"},
	})
	update := form.Changes(stored)
	require.NotNil(t, update.Genre)
	assert.Equal(t, models.GenreThriller, *update.Genre)
	assert.Nil(t, update.Title)
	assert.Nil(t, update.Year)
	assert.Nil(t, update.Director)
}

func TestValidateStruct_MoviePatch(t *testing.T) {
	fixClock(t, 2026)

	year := 1700
	genre := "POLKA"
	empty := ""
	errs := ValidateStruct(MoviePatch{Year: &year, Genre: &genre, Title: &empty})
	assert.Equal(t, "Please enter a valid year", errs["year"])
	assert.Equal(t, "Please choose a valid genre", errs["genre"])
	assert.Equal(t, "Title is required", errs["title"])

	assert.Nil(t, ValidateStruct(MoviePatch{}))
	assert.True(t, MoviePatch{}.Input().IsEmpty())

	genre = "western"
	update := MoviePatch{Genre: &genre}.Input()
	require.NotNil(t, update.Genre)
	assert.Equal(t, models.GenreWestern, *update.Genre)
}
