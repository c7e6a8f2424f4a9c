package remotestore

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"voice-of-kalki/internal/model"
)

// ConnectAccount registers a publishing account for a user and returns its id.
func (s *Store) ConnectAccount(ctx context.Context, acct model.SocialMediaAccount) (string, error) {
	id := acct.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO social_media_accounts(id, user_id, platform, account_name, account_id, access_token, refresh_token, is_connected)
		VALUES($1, $2, $3, $4, $5, $6, $7, TRUE)
	`, id, acct.UserID, acct.Platform, acct.AccountName, acct.AccountID, acct.AccessToken, nullable(acct.RefreshToken))
	return id, err
}

func (s *Store) DisconnectAccount(ctx context.Context, accountID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE social_media_accounts SET is_connected = FALSE WHERE id = $1
	`, accountID)
	return err
}

func (s *Store) ConnectedAccounts(ctx context.Context, userID string) ([]model.SocialMediaAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, platform, account_name, account_id, access_token, COALESCE(refresh_token, ''), is_connected, created_at
		FROM social_media_accounts
		WHERE user_id = $1 AND is_connected = TRUE
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SocialMediaAccount
	for rows.Next() {
		var a model.SocialMediaAccount
		if err := rows.Scan(&a.ID, &a.UserID, &a.Platform, &a.AccountName, &a.AccountID, &a.AccessToken, &a.RefreshToken, &a.IsConnected, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// AccountByID returns a single account, or nil when it does not exist.
func (s *Store) AccountByID(ctx context.Context, id string) (*model.SocialMediaAccount, error) {
	var a model.SocialMediaAccount
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, platform, account_name, account_id, access_token, COALESCE(refresh_token, ''), is_connected, created_at
		FROM social_media_accounts WHERE id = $1
	`, id).Scan(&a.ID, &a.UserID, &a.Platform, &a.AccountName, &a.AccountID, &a.AccessToken, &a.RefreshToken, &a.IsConnected, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreatePost stores a draft, or a scheduled post when ScheduledAt is set.
func (s *Store) CreatePost(ctx context.Context, post model.SocialMediaPost) (string, error) {
	id := post.ID
	if id == "" {
		id = uuid.NewString()
	}
	status := model.PostDraft
	if post.ScheduledAt != nil {
		status = model.PostScheduled
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO social_media_posts(id, user_id, article_id, social_account_id, platform, post_content, scheduled_at, status)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
	`, id, post.UserID, post.ArticleID, post.SocialAccountID, post.Platform, post.Content, post.ScheduledAt, status)
	return id, err
}

func (s *Store) PostsByUser(ctx context.Context, userID string, status model.PostStatus) ([]model.SocialMediaPost, error) {
	query := `
		SELECT id, user_id, article_id, social_account_id, platform, post_content, scheduled_at, published_at, status, COALESCE(external_post_id, ''), created_at
		FROM social_media_posts
		WHERE user_id = $1`
	args := []any{userID}
	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

// DuePosts returns scheduled posts whose scheduled time has passed.
func (s *Store) DuePosts(ctx context.Context, now time.Time) ([]model.SocialMediaPost, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, article_id, social_account_id, platform, post_content, scheduled_at, published_at, status, COALESCE(external_post_id, ''), created_at
		FROM social_media_posts
		WHERE status = $1 AND scheduled_at <= $2
		ORDER BY scheduled_at ASC
	`, model.PostScheduled, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPosts(rows)
}

func (s *Store) MarkPostPublished(ctx context.Context, postID, externalPostID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE social_media_posts
		SET status = $1, published_at = $2, external_post_id = $3
		WHERE id = $4
	`, model.PostPublished, at, externalPostID, postID)
	return err
}

func (s *Store) MarkPostFailed(ctx context.Context, postID string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE social_media_posts SET status = $1 WHERE id = $2
	`, model.PostFailed, postID)
	return err
}

func (s *Store) DeletePost(ctx context.Context, postID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM social_media_posts WHERE id = $1
	`, postID)
	return err
}

func scanPosts(rows *sql.Rows) ([]model.SocialMediaPost, error) {
	var out []model.SocialMediaPost
	for rows.Next() {
		var p model.SocialMediaPost
		if err := rows.Scan(&p.ID, &p.UserID, &p.ArticleID, &p.SocialAccountID, &p.Platform, &p.Content,
			&p.ScheduledAt, &p.PublishedAt, &p.Status, &p.ExternalPostID, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
