package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"voice-of-kalki/internal/model"
	"voice-of-kalki/internal/retry"
)

type fakeCompletion struct {
	content string
	err     error
	calls   int
	prompts []string
}

func (f *fakeCompletion) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	for _, m := range req.Messages {
		f.prompts = append(f.prompts, m.Content)
	}
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: f.content}}},
	}, nil
}

func newTestClient(fake *fakeCompletion) *Client {
	return &Client{
		client: fake,
		model:  "test-model",
		retry:  retry.Options{Retries: 1, Delay: time.Millisecond},
		now:    func() time.Time { return time.Unix(1700000000, 0) },
	}
}

func TestFetchNewsReturnsItemsWithImages(t *testing.T) {
	fake := &fakeCompletion{content: `[
		{"id":"a","title":"One","summary":"s1","category":"Sports"},
		{"id":"b","title":"Two","summary":"s2","category":"Politics","imageUrl":"https://example.com/x.jpg"}
	]`}
	c := newTestClient(fake)
	items, err := c.FetchNews(context.Background(), model.LanguageEnglish, model.RegionGlobal, "", model.GenreAll)
	if err != nil {
		t.Fatalf("FetchNews: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	for _, it := range items {
		if it.ImageURL == "" {
			t.Errorf("item %s has empty image url", it.ID)
		}
	}
	if items[1].ImageURL != "https://example.com/x.jpg" {
		t.Errorf("provided image replaced: %q", items[1].ImageURL)
	}
}

func TestFetchNewsQuotaSurfacesDistinctError(t *testing.T) {
	fake := &fakeCompletion{err: &openai.APIError{HTTPStatusCode: 429, Message: "rate limited"}}
	c := newTestClient(fake)
	_, err := c.FetchNews(context.Background(), model.LanguageEnglish, model.RegionGlobal, "", model.GenreAll)
	if !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("got %v, want ErrQuotaExhausted", err)
	}
	if fake.calls != 2 {
		t.Errorf("got %d attempts, want initial call plus one retry", fake.calls)
	}
}

func TestFetchNewsGenericFailureDegradesToEmpty(t *testing.T) {
	fake := &fakeCompletion{err: errors.New("connection reset")}
	c := newTestClient(fake)
	items, err := c.FetchNews(context.Background(), model.LanguageEnglish, model.RegionGlobal, "", model.GenreAll)
	if err != nil {
		t.Fatalf("generic failure must not propagate, got %v", err)
	}
	if len(items) != 0 {
		t.Errorf("got %d items, want empty", len(items))
	}
	if fake.calls != 1 {
		t.Errorf("non-quota error retried: %d calls", fake.calls)
	}
}

func TestFetchNewsMalformedPayloadDegradesToEmpty(t *testing.T) {
	fake := &fakeCompletion{content: "sorry, no JSON today"}
	c := newTestClient(fake)
	items, err := c.FetchNews(context.Background(), model.LanguageEnglish, model.RegionGlobal, "", model.GenreAll)
	if err != nil || len(items) != 0 {
		t.Errorf("malformed payload should yield empty list, got %v / %v", items, err)
	}
}

func TestFetchNewsPromptScope(t *testing.T) {
	fake := &fakeCompletion{content: "[]"}
	c := newTestClient(fake)
	if _, err := c.FetchNews(context.Background(), model.LanguageKannada, model.RegionCity, "", model.GenreTrending); err != nil {
		t.Fatalf("FetchNews: %v", err)
	}
	var user string
	for _, p := range fake.prompts {
		user = p
	}
	for _, want := range []string{FallbackCity, "Kannada", "viral topics"} {
		if !contains(user, want) {
			t.Errorf("prompt missing %q:\n%s", want, user)
		}
	}
}

func TestCityFromCoordsFallbacks(t *testing.T) {
	c := newTestClient(&fakeCompletion{err: errors.New("boom")})
	if got := c.CityFromCoords(context.Background(), 12.97, 77.59); got != FallbackCityState {
		t.Errorf("got %q, want fallback on error", got)
	}
	c = newTestClient(&fakeCompletion{content: "  Mysuru, Karnataka \n"})
	if got := c.CityFromCoords(context.Background(), 12.3, 76.6); got != "Mysuru, Karnataka" {
		t.Errorf("got %q, want trimmed city", got)
	}
	c = newTestClient(&fakeCompletion{content: "   "})
	if got := c.CityFromCoords(context.Background(), 0, 0); got != FallbackCityState {
		t.Errorf("got %q, want fallback on empty", got)
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
