package remotestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"voice-of-kalki/internal/model"
)

// Connect opens the Postgres pool used as the shared remote store.
func Connect(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, db.Ping()
}

// Store provides record-oriented access to the remote collections:
// bookmarks, reactions, article snapshots, and the social publishing tables.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the remote tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS bookmarks (
			user_id TEXT NOT NULL,
			news_id TEXT NOT NULL,
			type    TEXT NOT NULL,
			content JSONB NOT NULL,
			PRIMARY KEY (user_id, news_id, type)
		);
		CREATE TABLE IF NOT EXISTS reactions (
			user_id       TEXT NOT NULL,
			news_id       TEXT NOT NULL,
			reaction_type TEXT NOT NULL,
			PRIMARY KEY (user_id, news_id)
		);
		CREATE TABLE IF NOT EXISTS user_interests (
			user_id  TEXT NOT NULL,
			category TEXT NOT NULL,
			region   TEXT NOT NULL,
			PRIMARY KEY (user_id, category, region)
		);
		CREATE TABLE IF NOT EXISTS news_articles (
			id           TEXT PRIMARY KEY,
			title        TEXT NOT NULL,
			summary      TEXT NOT NULL DEFAULT '',
			category     TEXT NOT NULL DEFAULT '',
			region       TEXT NOT NULL DEFAULT '',
			is_urgent    BOOLEAN NOT NULL DEFAULT FALSE,
			content      JSONB NOT NULL,
			published_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS social_media_accounts (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL,
			platform      TEXT NOT NULL,
			account_name  TEXT NOT NULL,
			account_id    TEXT NOT NULL,
			access_token  TEXT NOT NULL,
			refresh_token TEXT,
			is_connected  BOOLEAN NOT NULL DEFAULT TRUE,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS social_media_posts (
			id                TEXT PRIMARY KEY,
			user_id           TEXT NOT NULL,
			article_id        TEXT NOT NULL,
			social_account_id TEXT NOT NULL,
			platform          TEXT NOT NULL,
			post_content      TEXT NOT NULL,
			scheduled_at      TIMESTAMPTZ,
			published_at      TIMESTAMPTZ,
			status            TEXT NOT NULL,
			external_post_id  TEXT,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("ensuring remote schema: %w", err)
	}
	return nil
}

// UpsertBookmark writes one (user, article, kind) membership record with its
// article snapshot. Last write wins per row.
func (s *Store) UpsertBookmark(ctx context.Context, bm model.Bookmark) error {
	content, err := json.Marshal(bm.Content)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO bookmarks(user_id, news_id, type, content)
		VALUES($1, $2, $3, $4)
		ON CONFLICT (user_id, news_id, type) DO UPDATE SET content = excluded.content
	`, bm.UserID, bm.NewsID, bm.Kind, content)
	return err
}

func (s *Store) DeleteBookmark(ctx context.Context, userID, newsID string, kind model.BookmarkKind) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM bookmarks WHERE user_id = $1 AND news_id = $2 AND type = $3
	`, userID, newsID, kind)
	return err
}

func (s *Store) BookmarksByUser(ctx context.Context, userID string) ([]model.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, news_id, type, content FROM bookmarks WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Bookmark
	for rows.Next() {
		var bm model.Bookmark
		var content []byte
		if err := rows.Scan(&bm.UserID, &bm.NewsID, &bm.Kind, &content); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(content, &bm.Content); err != nil {
			return nil, fmt.Errorf("decoding bookmark snapshot %s: %w", bm.NewsID, err)
		}
		out = append(out, bm)
	}
	return out, rows.Err()
}

func (s *Store) UpsertReaction(ctx context.Context, userID, newsID string, r model.Reaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reactions(user_id, news_id, reaction_type)
		VALUES($1, $2, $3)
		ON CONFLICT (user_id, news_id) DO UPDATE SET reaction_type = excluded.reaction_type
	`, userID, newsID, r)
	return err
}

func (s *Store) DeleteReaction(ctx context.Context, userID, newsID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM reactions WHERE user_id = $1 AND news_id = $2
	`, userID, newsID)
	return err
}

func (s *Store) ReactionsByUser(ctx context.Context, userID string) (map[string]model.Reaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT news_id, reaction_type FROM reactions WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]model.Reaction{}
	for rows.Next() {
		var newsID string
		var r model.Reaction
		if err := rows.Scan(&newsID, &r); err != nil {
			return nil, err
		}
		out[newsID] = r
	}
	return out, rows.Err()
}

// InsertArticle stores a snapshot of an aggregated article. Existing rows are
// kept as-is; the first snapshot of a story wins.
func (s *Store) InsertArticle(ctx context.Context, item model.NewsItem) error {
	content, err := json.Marshal(item)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO news_articles(id, title, summary, category, region, is_urgent, content)
		VALUES($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`, item.ID, item.Title, item.Summary, item.Category, item.Region, item.IsUrgent, content)
	return err
}

// Articles lists stored snapshots, newest first, optionally narrowed by
// category and region.
func (s *Store) Articles(ctx context.Context, category, region string, limit, offset int) ([]model.NewsItem, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT content FROM news_articles`
	var (
		where []string
		args  []any
	)
	if category != "" && category != string(model.GenreAll) {
		args = append(args, category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if region != "" && region != "All" {
		args = append(args, region)
		where = append(where, fmt.Sprintf("region = $%d", len(args)))
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY published_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
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
