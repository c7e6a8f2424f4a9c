package social

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPublishTwitter(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2/tweets" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["text"] != "hello world" {
			t.Errorf("unexpected body %v", body)
		}
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"id": "tw-123"}})
	}))
	defer srv.Close()

	p := NewPublisher(time.Second).WithBaseURLs(srv.URL, "")
	id, err := p.Publish(context.Background(), PlatformTwitter, "hello world", "token-1")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if id != "tw-123" {
		t.Errorf("got id %q, want tw-123", id)
	}
	if gotAuth != "Bearer token-1" {
		t.Errorf("got auth %q", gotAuth)
	}
}

func TestPublishFacebook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/me/feed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("access_token") != "token-2" {
			t.Errorf("missing access token in query")
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "fb-456"})
	}))
	defer srv.Close()

	p := NewPublisher(time.Second).WithBaseURLs("", srv.URL)
	id, err := p.Publish(context.Background(), PlatformFacebook, "hello", "token-2")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if id != "fb-456" {
		t.Errorf("got id %q, want fb-456", id)
	}
}

func TestPublishErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	p := NewPublisher(time.Second).WithBaseURLs(srv.URL, srv.URL)
	if _, err := p.Publish(context.Background(), PlatformTwitter, "x", "t"); err == nil {
		t.Error("expected error for non-2xx status")
	}
}

func TestPublishUnknownPlatform(t *testing.T) {
	p := NewPublisher(time.Second)
	if _, err := p.Publish(context.Background(), "myspace", "x", "t"); err == nil {
		t.Error("expected error for unknown platform")
	}
}
