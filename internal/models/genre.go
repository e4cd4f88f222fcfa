package models

import (
	"strings"
)

// Genre represents a catalog genre
type Genre string

const (
	GenreAction         Genre = "ACTION"
	GenreAdventure      Genre = "ADVENTURE"
	GenreAnimation      Genre = "ANIMATION"
	GenreComedy         Genre = "COMEDY"
	GenreCrime          Genre = "CRIME"
	GenreDocumentary    Genre = "DOCUMENTARY"
	GenreDrama          Genre = "DRAMA"
	GenreFamily         Genre = "FAMILY"
	GenreFantasy        Genre = "FANTASY"
	GenreHistory        Genre = "HISTORY"
	GenreHorror         Genre = "HORROR"
	GenreMusic          Genre = "MUSIC"
	GenreMystery        Genre = "MYSTERY"
	GenreRomance        Genre = "ROMANCE"
	GenreScienceFiction Genre = "SCIENCE_FICTION"
	GenreThriller       Genre = "THRILLER"
	GenreWar            Genre = "WAR"
	GenreWestern        Genre = "WESTERN"
)

// DefaultGenre is used for TMDB genre codes without a catalog counterpart
const DefaultGenre = GenreDrama

// tmdbGenres maps TMDB genre codes to catalog genres
var tmdbGenres = map[int]Genre{
	28:    GenreAction,
	12:    GenreAdventure,
	16:    GenreAnimation,
	35:    GenreComedy,
	80:    GenreCrime,
	99:    GenreDocumentary,
	18:    GenreDrama,
	10751: GenreFamily,
	14:    GenreFantasy,
	36:    GenreHistory,
	27:    GenreHorror,
	10402: GenreMusic,
	9648:  GenreMystery,
	10749: GenreRomance,
	878:   GenreScienceFiction,
	53:    GenreThriller,
	10752: GenreWar,
	37:    GenreWestern,
}

// FormGenres lists the genres offered by the add and edit forms
var FormGenres = []Genre{
	GenreAction,
	GenreComedy,
	GenreDrama,
	GenreHorror,
	GenreThriller,
	GenreScienceFiction,
	GenreRomance,
	GenreDocumentary,
}

// TranslateTMDBGenre returns the catalog genre for a TMDB genre code
func TranslateTMDBGenre(code int) Genre {
	if genre, ok := tmdbGenres[code]; ok {
		return genre
	}
	return DefaultGenre
}

// GenreFromIDs translates the first TMDB genre code of a result
func GenreFromIDs(ids []int) Genre {
	if len(ids) == 0 {
		return DefaultGenre
	}
	return TranslateTMDBGenre(ids[0])
}

// TMDBGenreCodes returns the TMDB codes known to the translator
func TMDBGenreCodes() []int {
	codes := make([]int, 0, len(tmdbGenres))
	for code := range tmdbGenres {
		codes = append(codes, code)
	}
	return codes
}

// ParseGenre parses a genre name, accepting lower case and spaces
func ParseGenre(s string) (Genre, bool) {
	g := Genre(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_")))
	return g, g.IsValid()
}

// IsValid checks if the genre belongs to the catalog enum
func (g Genre) IsValid() bool {
	for _, known := range tmdbGenres {
		if known == g {
			return true
		}
	}
	return false
}

// String returns the string representation of Genre
func (g Genre) String() string {
	return string(g)
}

// Label returns the genre as shown to users
func (g Genre) Label() string {
	return strings.ReplaceAll(string(g), "_", " ")
}
