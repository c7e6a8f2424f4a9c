package filter

import (
	"strings"

	"voice-of-kalki/internal/model"
)

// Apply reduces items by genre, verified flag, and free-text query, in that
// order. Genre All passes everything; Trending matches the urgent flag rather
// than the category field. The query is a case-insensitive substring match
// against title or summary. Input order is preserved.
func Apply(items []model.NewsItem, genre model.Genre, verifiedOnly bool, query string) []model.NewsItem {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]model.NewsItem, 0, len(items))
	for _, n := range items {
		if !genreMatch(n, genre) {
			continue
		}
		if verifiedOnly && !n.IsVerified {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(n.Title), q) && !strings.Contains(strings.ToLower(n.Summary), q) {
			continue
		}
		out = append(out, n)
	}
	return out
}

func genreMatch(n model.NewsItem, genre model.Genre) bool {
	switch genre {
	case model.GenreAll, "":
		return true
	case model.GenreTrending:
		return n.IsUrgent
	default:
		return n.Category == genre
	}
}
