package services

import (
	"sort"
	"time"
)

const (
	// MaxVideos caps the trailers kept on a movie detail
	MaxVideos = 3
	// MaxBackdrops caps the backdrops kept on a movie detail
	MaxBackdrops = 8
	// MinBackdropWidth filters out non-HD backdrops
	MinBackdropWidth = 1280
)

// FilterVideos keeps official YouTube trailers and teasers, trailers first
// and newest first within a type, capped at MaxVideos
func FilterVideos(videos []TMDBVideo) []TMDBVideo {
	kept := make([]TMDBVideo, 0, len(videos))
	for _, video := range videos {
		if video.Site != "YouTube" || !video.Official {
			continue
		}
		if video.Type != "Trailer" && video.Type != "Teaser" {
			continue
		}
		kept = append(kept, video)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if (a.Type == "Trailer") != (b.Type == "Trailer") {
			return a.Type == "Trailer"
		}
		return publishedAt(a).After(publishedAt(b))
	})

	if len(kept) > MaxVideos {
		kept = kept[:MaxVideos]
	}
	return kept
}

// FilterBackdrops keeps HD backdrops with a positive rating, best rated
// first, capped at MaxBackdrops
func FilterBackdrops(images []TMDBImage) []TMDBImage {
	kept := make([]TMDBImage, 0, len(images))
	for _, image := range images {
		if image.Width >= MinBackdropWidth && image.VoteAverage > 0 {
			kept = append(kept, image)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].VoteAverage > kept[j].VoteAverage
	})

	if len(kept) > MaxBackdrops {
		kept = kept[:MaxBackdrops]
	}
	return kept
}

// publishedAt parses the TMDB publication timestamp; unknown dates sort last
func publishedAt(v TMDBVideo) time.Time {
	t, err := time.Parse(time.RFC3339, v.PublishedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
