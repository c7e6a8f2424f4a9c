package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"voice-of-kalki/internal/model"
	"voice-of-kalki/internal/retry"
)

const (
	// FallbackCity is used when a city-scoped fetch has no city name.
	FallbackCity = "Bengaluru"
	// FallbackCityState is returned when coordinate resolution fails.
	FallbackCityState = "Bengaluru, Karnataka"
)

// ErrQuotaExhausted is surfaced when the content service stays rate-limited
// after the retry budget runs out. It is the only fetch failure a consumer
// is expected to render distinctly.
var ErrQuotaExhausted = errors.New("ai: quota exhausted")

// Fetcher defines the news aggregation interface used by the server and commands.
type Fetcher interface {
	// FetchNews aggregates recent stories for the given scope. Non-quota
	// failures degrade to an empty list; only ErrQuotaExhausted is returned.
	FetchNews(ctx context.Context, lang model.Language, region model.Region, city string, genre model.Genre) ([]model.NewsItem, error)
	// CityFromCoords resolves "City, State" for coordinates. Never fails;
	// any error yields FallbackCityState.
	CityFromCoords(ctx context.Context, lat, lng float64) string
}

// completionAPI is the slice of the OpenAI client the pipeline needs;
// tests substitute a fake.
type completionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client implements Fetcher using an OpenAI-compatible Chat Completions API.
type Client struct {
	client completionAPI
	model  string
	retry  retry.Options
	now    func() time.Time
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional
}

func NewClient(cfg Config) *Client {
	var c *openai.Client
	if cfg.BaseURL != "" {
		cc := openai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		c = openai.NewClientWithConfig(cc)
	} else {
		c = openai.NewClient(cfg.APIKey)
	}
	if cfg.Model == "" {
		panic("ai model must be specified")
	}
	return &Client{
		client: c,
		model:  cfg.Model,
		retry:  retry.DefaultOptions(),
		now:    time.Now,
	}
}

func (c *Client) FetchNews(ctx context.Context, lang model.Language, region model.Region, city string, genre model.Genre) ([]model.NewsItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()

	if strings.TrimSpace(city) == "" {
		city = FallbackCity
	}
	prompt := buildNewsPrompt(lang, region, city, genre)

	raw, err := c.createWithRetry(ctx, newsSystemPrompt, prompt)
	if err != nil {
		if retry.IsQuotaError(err) {
			return nil, ErrQuotaExhausted
		}
		// Deliberate UX smoothing carried over from the original design:
		// non-quota failures keep the feed rendering with an empty result.
		slog.Error("ai: news fetch degraded to empty feed", "region", region, "genre", genre, "err", err)
		return []model.NewsItem{}, nil
	}

	items, err := decodeNewsItems(raw)
	if err != nil {
		slog.Error("ai: malformed news payload, returning empty feed", "err", err)
		return []model.NewsItem{}, nil
	}
	items = dedupeByID(items)
	fillPlaceholderImages(items, c.now())
	return items, nil
}

func (c *Client) CityFromCoords(ctx context.Context, lat, lng float64) string {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	prompt := fmt.Sprintf(`Identify the specific city and state for coordinates Lat: %f, Lng: %f. Return only "City, State".`, lat, lng)
	out, err := c.createWithRetry(ctx, "", prompt)
	if err != nil {
		slog.Warn("ai: city resolution failed, using fallback", "err", err)
		return FallbackCityState
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return FallbackCityState
	}
	return out
}

// createWithRetry submits one chat completion through the backoff wrapper.
func (c *Client) createWithRetry(ctx context.Context, system, user string) (string, error) {
	var out string
	err := retry.Do(ctx, func() error {
		msgs := []openai.ChatCompletionMessage{}
		if system != "" {
			msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: user})
		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			Messages:    msgs,
			Temperature: 0.4,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			out = ""
			return nil
		}
		out = resp.Choices[0].Message.Content
		return nil
	}, c.retry)
	return out, err
}
