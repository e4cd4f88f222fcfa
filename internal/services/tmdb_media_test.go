package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterVideos(t *testing.T) {
	videos := []TMDBVideo{
		{Key: "teaser-old", Site: "YouTube", Type: "Teaser", Official: true, PublishedAt: "2009-12-01T10:00:00.000Z"},
		{Key: "vimeo", Site: "Vimeo", Type: "Trailer", Official: true, PublishedAt: "2010-05-01T10:00:00.000Z"},
		{Key: "trailer-old", Site: "YouTube", Type: "Trailer", Official: true, PublishedAt: "2010-01-01T10:00:00.000Z"},
		{Key: "fan", Site: "YouTube", Type: "Trailer", Official: false, PublishedAt: "2010-06-01T10:00:00.000Z"},
		{Key: "clip", Site: "YouTube", Type: "Clip", Official: true, PublishedAt: "2010-07-01T10:00:00.000Z"},
		{Key: "trailer-new", Site: "YouTube", Type: "Trailer", Official: true, PublishedAt: "2010-05-10T10:00:00.000Z"},
		{Key: "teaser-new", Site: "YouTube", Type: "Teaser", Official: true, PublishedAt: "2010-08-01T10:00:00.000Z"},
	}

	got := FilterVideos(videos)

	require.Len(t, got, 3)
	assert.Equal(t, "trailer-new", got[0].Key)
	assert.Equal(t, "trailer-old", got[1].Key)
	assert.Equal(t, "teaser-new", got[2].Key)
	for _, v := range got {
		assert.Equal(t, "YouTube", v.Site)
		assert.True(t, v.Official)
	}
}

func TestFilterVideos_FewerThanCap(t *testing.T) {
	got := FilterVideos([]TMDBVideo{
		{Key: "a", Site: "YouTube", Type: "Teaser", Official: true, PublishedAt: "2020-01-01T00:00:00Z"},
		{Key: "b", Site: "YouTube", Type: "Teaser", Official: true, PublishedAt: "not a date"},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Key)
	assert.Empty(t, FilterVideos(nil))
}

func TestFilterBackdrops(t *testing.T) {
	images := []TMDBImage{
		{FilePath: "/small.jpg", Width: 1000, VoteAverage: 9.9},
		{FilePath: "/unvoted.jpg", Width: 1920, VoteAverage: 0},
	}
	for i := 0; i < 10; i++ {
		images = append(images, TMDBImage{
			FilePath:    "/hd.jpg",
			Width:       1280 + i,
			VoteAverage: float64(i + 1),
		})
	}

	got := FilterBackdrops(images)

	require.Len(t, got, MaxBackdrops)
	for i, img := range got {
		assert.GreaterOrEqual(t, img.Width, MinBackdropWidth)
		assert.Greater(t, img.VoteAverage, 0.0)
		if i > 0 {
			assert.GreaterOrEqual(t, got[i-1].VoteAverage, img.VoteAverage)
		}
	}
	assert.Equal(t, 10.0, got[0].VoteAverage)
}
