package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"voice-of-kalki/internal/model"
)

var errNoAccount = errors.New("post-scheduler: account missing or disconnected")

// SchedulerStore is the slice of the remote store the scheduler needs.
type SchedulerStore interface {
	DuePosts(ctx context.Context, now time.Time) ([]model.SocialMediaPost, error)
	AccountByID(ctx context.Context, id string) (*model.SocialMediaAccount, error)
	MarkPostPublished(ctx context.Context, postID, externalPostID string, at time.Time) error
	MarkPostFailed(ctx context.Context, postID string) error
}

// PostPublisher posts content to an external platform.
type PostPublisher interface {
	Publish(ctx context.Context, platform, content, accessToken string) (string, error)
}

// PostScheduler polls for scheduled posts whose time has come and publishes
// them through the connected account.
type PostScheduler struct {
	Store     SchedulerStore
	Publisher PostPublisher
	Interval  time.Duration
	Now       func() time.Time // test hook
}

func (w *PostScheduler) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = time.Minute
	}
	if w.Now == nil {
		w.Now = time.Now
	}

	// initial run
	w.runOnce(ctx)

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

func (w *PostScheduler) runOnce(ctx context.Context) {
	now := w.Now()
	posts, err := w.Store.DuePosts(ctx, now)
	if err != nil {
		slog.Error("post-scheduler: listing due posts error", "error", err)
		return
	}
	published := 0
	for _, post := range posts {
		if err := w.publishOne(ctx, post, now); err != nil {
			slog.Error("post-scheduler: publish error", "post_id", post.ID, "platform", post.Platform, "error", err)
			if err := w.Store.MarkPostFailed(ctx, post.ID); err != nil {
				slog.Error("post-scheduler: mark failed error", "post_id", post.ID, "error", err)
			}
			continue
		}
		published++
	}
	if len(posts) > 0 {
		slog.Info("post-scheduler: completed run", "due", len(posts), "published", published)
	}
}

func (w *PostScheduler) publishOne(ctx context.Context, post model.SocialMediaPost, now time.Time) error {
	acct, err := w.Store.AccountByID(ctx, post.SocialAccountID)
	if err != nil {
		return err
	}
	if acct == nil || !acct.IsConnected {
		return errNoAccount
	}
	externalID, err := w.Publisher.Publish(ctx, post.Platform, post.Content, acct.AccessToken)
	if err != nil {
		return err
	}
	return w.Store.MarkPostPublished(ctx, post.ID, externalID, now)
}
