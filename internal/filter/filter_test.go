package filter

import (
	"testing"

	"voice-of-kalki/internal/model"
)

func sample() []model.NewsItem {
	return []model.NewsItem{
		{ID: "1", Title: "League final tonight", Summary: "A close match expected", Category: model.GenreSports, IsUrgent: false, IsVerified: true},
		{ID: "2", Title: "Cabinet reshuffle", Summary: "New ministers sworn in", Category: model.GenrePolitics, IsUrgent: true, IsVerified: false},
	}
}

func ids(items []model.NewsItem) []string {
	out := make([]string, 0, len(items))
	for _, n := range items {
		out = append(out, n.ID)
	}
	return out
}

func TestTrendingMatchesUrgentNotCategory(t *testing.T) {
	got := Apply(sample(), model.GenreTrending, false, "")
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("trending filter returned %v, want only item 2", ids(got))
	}
}

func TestAllPassesEverything(t *testing.T) {
	got := Apply(sample(), model.GenreAll, false, "")
	if len(got) != 2 {
		t.Fatalf("all filter returned %v, want both items", ids(got))
	}
}

func TestVerifiedOnly(t *testing.T) {
	got := Apply(sample(), model.GenreAll, true, "")
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("verified filter returned %v, want only item 1", ids(got))
	}
}

func TestSearchMatchesTitleOrSummary(t *testing.T) {
	got := Apply(sample(), model.GenreAll, false, "LEAGUE")
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("title search returned %v, want only item 1", ids(got))
	}
	got = Apply(sample(), model.GenreAll, false, "sworn")
	if len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("summary search returned %v, want only item 2", ids(got))
	}
	got = Apply(sample(), model.GenreAll, false, "no such text")
	if len(got) != 0 {
		t.Fatalf("search returned %v, want empty", ids(got))
	}
}

func TestOrderPreserved(t *testing.T) {
	items := sample()
	items[0].IsUrgent = true
	got := Apply(items, model.GenreTrending, false, "")
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Fatalf("got order %v, want input order", ids(got))
	}
}
