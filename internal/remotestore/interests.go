package remotestore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"voice-of-kalki/internal/model"
)

// AddInterest records one (category, region) pair the user follows. Adding
// an existing pair is a no-op.
func (s *Store) AddInterest(ctx context.Context, userID, category, region string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_interests(user_id, category, region)
		VALUES($1, $2, $3)
		ON CONFLICT (user_id, category, region) DO NOTHING
	`, userID, category, region)
	return err
}

func (s *Store) RemoveInterest(ctx context.Context, userID, category, region string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM user_interests WHERE user_id = $1 AND category = $2 AND region = $3
	`, userID, category, region)
	return err
}

func (s *Store) InterestsByUser(ctx context.Context, userID string) ([]model.UserInterest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, category, region FROM user_interests WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.UserInterest
	for rows.Next() {
		var in model.UserInterest
		if err := rows.Scan(&in.UserID, &in.Category, &in.Region); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

// ArticlesByInterests assembles a feed from the user's followed pairs: the
// newest few snapshots per pair, merged newest-first and truncated to limit.
// A user with no interests gets the plain newest-first feed.
func (s *Store) ArticlesByInterests(ctx context.Context, userID string, limit int) ([]model.NewsItem, error) {
	if limit <= 0 {
		limit = 20
	}
	interests, err := s.InterestsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(interests) == 0 {
		return s.Articles(ctx, "", "", limit, 0)
	}

	const perInterest = 5
	type dated struct {
		item model.NewsItem
		at   time.Time
	}
	var merged []dated
	seen := map[string]struct{}{}
	for _, in := range interests {
		rows, err := s.db.QueryContext(ctx, `
			SELECT content, published_at FROM news_articles
			WHERE category = $1 AND region = $2
			ORDER BY published_at DESC LIMIT $3
		`, in.Category, in.Region, perInterest)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var content []byte
			var at time.Time
			if err := rows.Scan(&content, &at); err != nil {
				rows.Close()
				return nil, err
			}
			var item model.NewsItem
			if err := json.Unmarshal(content, &item); err != nil {
				rows.Close()
				return nil, fmt.Errorf("decoding article snapshot: %w", err)
			}
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			merged = append(merged, dated{item: item, at: at})
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].at.After(merged[j].at) })
	if len(merged) > limit {
		merged = merged[:limit]
	}
	out := make([]model.NewsItem, 0, len(merged))
	for _, d := range merged {
		out = append(out, d.item)
	}
	return out, nil
}

// TrendingArticles lists the newest snapshots flagged urgent.
func (s *Store) TrendingArticles(ctx context.Context, limit int) ([]model.NewsItem, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT content FROM news_articles
		WHERE is_urgent = TRUE
		ORDER BY published_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.NewsItem
	for rows.Next() {
		var content []byte
		if err := rows.Scan(&content); err != nil {
			return nil, err
		}
		var item model.NewsItem
		if err := json.Unmarshal(content, &item); err != nil {
			return nil, fmt.Errorf("decoding article snapshot: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
