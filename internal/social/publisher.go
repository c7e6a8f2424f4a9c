package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Platform identifiers accepted by the publisher.
const (
	PlatformTwitter  = "twitter"
	PlatformFacebook = "facebook"
)

// Publisher performs one HTTP POST against a platform's public posting
// endpoint and returns the external post id.
type Publisher struct {
	twitterBase  string
	facebookBase string
	http         *http.Client
}

// NewPublisher creates a publisher with the public API endpoints. Base URLs
// are overridable for tests.
func NewPublisher(timeout time.Duration) *Publisher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Publisher{
		twitterBase:  "https://api.twitter.com",
		facebookBase: "https://graph.facebook.com/v18.0",
		http:         &http.Client{Timeout: timeout},
	}
}

// WithBaseURLs overrides the platform endpoints.
func (p *Publisher) WithBaseURLs(twitter, facebook string) *Publisher {
	p2 := *p
	if strings.TrimSpace(twitter) != "" {
		p2.twitterBase = strings.TrimRight(twitter, "/")
	}
	if strings.TrimSpace(facebook) != "" {
		p2.facebookBase = strings.TrimRight(facebook, "/")
	}
	return &p2
}

// Publish posts content to the given platform using the account token and
// returns the platform-assigned post id.
func (p *Publisher) Publish(ctx context.Context, platform, content, accessToken string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(platform)) {
	case PlatformTwitter:
		return p.publishTwitter(ctx, content, accessToken)
	case PlatformFacebook:
		return p.publishFacebook(ctx, content, accessToken)
	default:
		return "", fmt.Errorf("social: unsupported platform %q", platform)
	}
}

func (p *Publisher) publishTwitter(ctx context.Context, content, accessToken string) (string, error) {
	body, err := json.Marshal(map[string]string{"text": content})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.twitterBase+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("social: twitter api status=%d body=%s", resp.StatusCode, string(b))
	}
	var out struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Data.ID == "" {
		return "", fmt.Errorf("social: twitter response missing post id")
	}
	return out.Data.ID, nil
}

func (p *Publisher) publishFacebook(ctx context.Context, content, accessToken string) (string, error) {
	body, err := json.Marshal(map[string]string{"message": content})
	if err != nil {
		return "", err
	}
	endpoint := p.facebookBase + "/me/feed?access_token=" + url.QueryEscape(accessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("social: facebook api status=%d body=%s", resp.StatusCode, string(b))
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("social: facebook response missing post id")
	}
	return out.ID, nil
}
