package model

import "time"

// PostStatus tracks a social media post through its lifecycle.
type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostScheduled PostStatus = "scheduled"
	PostPublished PostStatus = "published"
	PostFailed    PostStatus = "failed"
)

// SocialMediaAccount is a connected outbound publishing account.
type SocialMediaAccount struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Platform     string    `json:"platform"` // twitter, facebook
	AccountName  string    `json:"account_name"`
	AccountID    string    `json:"account_id"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	IsConnected  bool      `json:"is_connected"`
	CreatedAt    time.Time `json:"created_at"`
}

// SocialMediaPost is a draft or scheduled posting tied to a saved article.
type SocialMediaPost struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	ArticleID       string     `json:"article_id"`
	SocialAccountID string     `json:"social_account_id"`
	Platform        string     `json:"platform"`
	Content         string     `json:"post_content"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	Status          PostStatus `json:"status"`
	ExternalPostID  string     `json:"external_post_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
