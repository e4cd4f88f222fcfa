package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateTMDBGenre_KnownCodes(t *testing.T) {
	cases := map[int]Genre{
		28:    GenreAction,
		35:    GenreComedy,
		18:    GenreDrama,
		27:    GenreHorror,
		53:    GenreThriller,
		878:   GenreScienceFiction,
		10749: GenreRomance,
		99:    GenreDocumentary,
		10752: GenreWar,
		37:    GenreWestern,
	}

	for code, want := range cases {
		assert.Equal(t, want, TranslateTMDBGenre(code), "code %d", code)
	}
}

func TestTranslateTMDBGenre_IsTotal(t *testing.T) {
	for _, code := range TMDBGenreCodes() {
		assert.True(t, TranslateTMDBGenre(code).IsValid(), "code %d", code)
	}

	for _, code := range []int{0, -1, 1, 10770, 999999} {
		assert.Equal(t, GenreDrama, TranslateTMDBGenre(code), "code %d", code)
	}
}

func TestGenreFromIDs(t *testing.T) {
	assert.Equal(t, GenreDrama, GenreFromIDs(nil))
	assert.Equal(t, GenreScienceFiction, GenreFromIDs([]int{878, 28}))
	assert.Equal(t, GenreDrama, GenreFromIDs([]int{4242, 28}))
}

func TestParseGenre(t *testing.T) {
	g, ok := ParseGenre("science fiction")
	assert.True(t, ok)
	assert.Equal(t, GenreScienceFiction, g)

	g, ok = ParseGenre(" comedy ")
	assert.True(t, ok)
	assert.Equal(t, GenreComedy, g)

	_, ok = ParseGenre("SOAP")
	assert.False(t, ok)

	_, ok = ParseGenre("")
	assert.False(t, ok)
}

func TestGenreLabel(t *testing.T) {
	assert.Equal(t, "SCIENCE FICTION", GenreScienceFiction.Label())
	assert.Equal(t, "DRAMA", GenreDrama.Label())
}
