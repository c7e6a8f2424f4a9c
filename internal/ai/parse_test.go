package ai

import (
	"testing"
	"time"

	"voice-of-kalki/internal/model"
)

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain JSON unchanged", `[{"id":"a"}]`, `[{"id":"a"}]`},
		{"strips json fenced block", "```json\n[{\"id\":\"a\"}]\n```", `[{"id":"a"}]`},
		{"strips plain fenced block", "```\n[{\"id\":\"a\"}]\n```", `[{"id":"a"}]`},
		{"trims whitespace", "  [] \n", "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSONResponse(tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeNewsItems(t *testing.T) {
	items, err := decodeNewsItems(`[{"id":"a","title":"T"},{"id":"b","title":"U"}]`)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 || items[0].ID != "a" || items[1].ID != "b" {
		t.Errorf("unexpected items: %+v", items)
	}

	if _, err := decodeNewsItems(`{"not":"an array"}`); err == nil {
		t.Error("expected error for non-array payload")
	}

	items, err = decodeNewsItems("")
	if err != nil || len(items) != 0 {
		t.Errorf("empty response should decode as empty list, got %v / %v", items, err)
	}
}

func TestDedupeByIDKeepsFirst(t *testing.T) {
	items := dedupeByID([]model.NewsItem{
		{ID: "a", Title: "first"},
		{ID: "b"},
		{ID: "a", Title: "second"},
		{ID: ""},
		{ID: ""},
	})
	if len(items) != 4 {
		t.Fatalf("got %d items, want 4", len(items))
	}
	if items[0].Title != "first" {
		t.Errorf("duplicate replaced the first occurrence: %+v", items[0])
	}
}

func TestFillPlaceholderImagesDeterministic(t *testing.T) {
	now := time.Unix(1700000000, 0)
	a := []model.NewsItem{{ID: "story-1"}, {ID: "story-2"}}
	b := []model.NewsItem{{ID: "story-1"}, {ID: "story-2"}}
	fillPlaceholderImages(a, now)
	fillPlaceholderImages(b, now.Add(time.Hour))
	for i := range a {
		if a[i].ImageURL == "" {
			t.Fatalf("item %d has no image", i)
		}
		if a[i].ImageURL != b[i].ImageURL {
			t.Errorf("placeholder for %s not deterministic: %q vs %q", a[i].ID, a[i].ImageURL, b[i].ImageURL)
		}
	}
}

func TestFillPlaceholderImagesKeepsExistingAndSeedsMissingID(t *testing.T) {
	now := time.Unix(1700000000, 0)
	items := []model.NewsItem{
		{ID: "x", ImageURL: "https://example.com/pic.jpg"},
		{ID: ""},
	}
	fillPlaceholderImages(items, now)
	if items[0].ImageURL != "https://example.com/pic.jpg" {
		t.Errorf("existing image overwritten: %q", items[0].ImageURL)
	}
	if items[1].ImageURL == "" {
		t.Error("item without id got no placeholder")
	}
}
