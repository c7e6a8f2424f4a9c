package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"voice-of-kalki/internal/model"
)

type fakeSocial struct {
	accounts  []model.SocialMediaAccount
	posts     []model.SocialMediaPost
	err       error
	published []string
	failed    []string
}

func (f *fakeSocial) ConnectAccount(_ context.Context, acct model.SocialMediaAccount) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.accounts = append(f.accounts, acct)
	return "acct-1", nil
}

func (f *fakeSocial) DisconnectAccount(context.Context, string) error { return f.err }

func (f *fakeSocial) ConnectedAccounts(context.Context, string) ([]model.SocialMediaAccount, error) {
	return f.accounts, f.err
}

func (f *fakeSocial) AccountByID(context.Context, string) (*model.SocialMediaAccount, error) {
	if len(f.accounts) == 0 {
		return nil, f.err
	}
	return &f.accounts[0], f.err
}

func (f *fakeSocial) CreatePost(_ context.Context, post model.SocialMediaPost) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.posts = append(f.posts, post)
	return "post-1", nil
}

func (f *fakeSocial) PostsByUser(context.Context, string, model.PostStatus) ([]model.SocialMediaPost, error) {
	return f.posts, f.err
}

func (f *fakeSocial) DeletePost(context.Context, string) error { return f.err }

func (f *fakeSocial) MarkPostPublished(_ context.Context, postID, _ string, _ time.Time) error {
	f.published = append(f.published, postID)
	return nil
}

func (f *fakeSocial) MarkPostFailed(_ context.Context, postID string) error {
	f.failed = append(f.failed, postID)
	return nil
}

type fakePublisher struct {
	externalID string
	err        error
}

func (f *fakePublisher) Publish(context.Context, string, string, string) (string, error) {
	return f.externalID, f.err
}

func TestConnectAndListAccounts(t *testing.T) {
	social := &fakeSocial{}
	r := newTestServer(t, &fakeFetcher{}, nil, social, nil)

	w := postJSON(r, "/social/accounts", gin.H{
		"user_id":      "u1",
		"platform":     "twitter",
		"account_name": "@kalki",
		"access_token": "tok",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/social/accounts?user_id=u1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Accounts []model.SocialMediaAccount `json:"accounts"`
	}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 1, len(res.Accounts))
	assert.Equal(t, "twitter", res.Accounts[0].Platform)
}

func TestCreatePost_Validation(t *testing.T) {
	r := newTestServer(t, &fakeFetcher{}, nil, &fakeSocial{}, nil)

	w := postJSON(r, "/social/posts", gin.H{"user_id": "u1", "platform": "twitter"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublish_Success(t *testing.T) {
	social := &fakeSocial{}
	r := newTestServer(t, &fakeFetcher{}, nil, social, &fakePublisher{externalID: "ext-9"})

	w := postJSON(r, "/social/publish", gin.H{
		"post_id":      "p1",
		"platform":     "twitter",
		"content":      "hello",
		"access_token": "tok",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var res map[string]any
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, true, res["success"])
	assert.Equal(t, "ext-9", res["external_post_id"])
	assert.Equal(t, []string{"p1"}, social.published)
}

func TestPublish_MissingFieldsIs400(t *testing.T) {
	social := &fakeSocial{}
	r := newTestServer(t, &fakeFetcher{}, nil, social, &fakePublisher{})

	w := postJSON(r, "/social/publish", gin.H{"post_id": "p1", "platform": "twitter"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var res map[string]any
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, false, res["success"])
	assert.Equal(t, 0, len(social.failed))
}

func TestPublish_FailureMarksPostFailed(t *testing.T) {
	social := &fakeSocial{}
	r := newTestServer(t, &fakeFetcher{}, nil, social, &fakePublisher{err: errors.New("api down")})

	w := postJSON(r, "/social/publish", gin.H{
		"post_id":      "p1",
		"platform":     "twitter",
		"content":      "hello",
		"access_token": "tok",
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var res map[string]any
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, false, res["success"])
	assert.Equal(t, []string{"p1"}, social.failed)
}

func TestSocialRoutesWithoutStoreAre503(t *testing.T) {
	r := newTestServer(t, &fakeFetcher{}, nil, nil, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/social/posts?user_id=u1", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
