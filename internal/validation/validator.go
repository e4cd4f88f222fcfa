// Package validation checks the HTML forms of the web client with
// go-playground/validator v10.
//
// Failures are returned as FieldErrors keyed by form field name, so
// templates can show each message next to its input.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/liamwears/reelbase/internal/models"
)

// MinMovieYear is the year of the first motion picture
const MinMovieYear = 1888

// maxYearsAhead bounds how far in the future an announced movie may be
const maxYearsAhead = 5

// Now is the clock used by the movieyear rule. Tests may replace it.
var Now = time.Now

var imdbIDPattern = regexp.MustCompile(`^tt\d{7,8}$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldErrors maps a form field name to its error message
type FieldErrors map[string]string

// Has reports whether the field failed validation
func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// Error joins all messages, ordered by field name
func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		messages = append(messages, fe[field])
	}
	return strings.Join(messages, "; ")
}

// GetValidator returns the singleton validator instance
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report fields under their form names
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return field.Name
			}
			return name
		})

		_ = validate.RegisterValidation("movieyear", validateMovieYear)
		_ = validate.RegisterValidation("genre", validateGenre)
		_ = validate.RegisterValidation("imdbid", validateIMDbID)
	})

	return validate
}

// ValidateStruct validates a form. It returns nil when the form is valid.
func ValidateStruct(s interface{}) FieldErrors {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return FieldErrors{"form": err.Error()}
	}

	fieldErrors := make(FieldErrors, len(validationErrs))
	for _, fieldErr := range validationErrs {
		// Keep the first failing rule of each field
		if fieldErrors.Has(fieldErr.Field()) {
			continue
		}
		fieldErrors[fieldErr.Field()] = translateError(fieldErr)
	}
	return fieldErrors
}

// MaxMovieYear returns the latest year accepted for a movie
func MaxMovieYear() int {
	return Now().Year() + maxYearsAhead
}

func validateMovieYear(fl validator.FieldLevel) bool {
	year := fl.Field().Int()
	return year >= MinMovieYear && year <= int64(MaxMovieYear())
}

func validateGenre(fl validator.FieldLevel) bool {
	_, ok := models.ParseGenre(fl.Field().String())
	return ok
}

func validateIMDbID(fl validator.FieldLevel) bool {
	return imdbIDPattern.MatchString(fl.Field().String())
}

// fieldLabels names form fields in "is required" messages
var fieldLabels = map[string]string{
	"title":        "Title",
	"year":         "Year",
	"genre":        "Genre",
	"directorName": "Director name",
	"rating":       "Rating",
	"imdbId":       "IMDb id",
	"email":        "Email",
	"password":     "Password",
}

// ruleMessages holds messages for a field and rule pair. Text fields of
// patches use min=1 in place of required.
var ruleMessages = map[string]string{
	"year.movieyear":   "Please enter a valid year",
	"rating.min":       "Rating must be between 0 and 10",
	"rating.max":       "Rating must be between 0 and 10",
	"genre.genre":      "Please choose a valid genre",
	"imdbId.imdbid":    "Please enter a valid IMDb id (tt1234567)",
	"email.email":      "Please enter a valid email address",
	"title.min":        "Title is required",
	"directorName.min": "Director name is required",
}

func translateError(fe validator.FieldError) string {
	field := fe.Field()

	if message, ok := ruleMessages[field+"."+fe.Tag()]; ok {
		return message
	}

	label, ok := fieldLabels[field]
	if !ok {
		label = field
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}
