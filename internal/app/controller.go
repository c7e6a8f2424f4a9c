package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"voice-of-kalki/internal/ai"
	"voice-of-kalki/internal/filter"
	"voice-of-kalki/internal/model"
	"voice-of-kalki/internal/storage"
	"voice-of-kalki/internal/store"
)

// ErrorKind classifies the outcome of the most recent feed fetch.
type ErrorKind string

const (
	ErrNone  ErrorKind = ""
	ErrQuota ErrorKind = "quota"
)

// Controller owns the feed view state for one session: the selected scope,
// the fetched list, and the visible error kind. Every scope change bumps a
// fetch sequence number; a fetch that finishes after a newer one started is
// discarded, so the view always reflects the latest selection.
type Controller struct {
	fetcher ai.Fetcher
	cache   *storage.FeedCache // optional
	store   *store.Store       // optional, backs the saved/read-later views

	mu           sync.Mutex
	lang         model.Language
	region       model.Region
	city         string
	genre        model.Genre
	query        string
	verifiedOnly bool

	news    []model.NewsItem
	errKind ErrorKind
	loading bool
	seq     uint64
}

func NewController(fetcher ai.Fetcher, cache *storage.FeedCache, st *store.Store) *Controller {
	return &Controller{
		fetcher: fetcher,
		cache:   cache,
		store:   st,
		lang:    model.LanguageEnglish,
		region:  model.RegionCountry,
		city:    ai.FallbackCity,
		genre:   model.GenreAll,
	}
}

// SetScope updates the fetch scope. Query and verified-only are view filters
// and do not invalidate the fetched list.
func (c *Controller) SetScope(lang model.Language, region model.Region, city string, genre model.Genre) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lang, c.region, c.genre = lang, region, genre
	if city != "" {
		c.city = city
	}
}

func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = q
}

func (c *Controller) SetVerifiedOnly(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.verifiedOnly = v
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Controller) LastError() ErrorKind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errKind
}

// Refresh fetches the feed for the current scope and installs the result,
// unless a newer Refresh started while this one was in flight. The saved and
// read-later views never fetch; they project straight from the store.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	if c.region == model.RegionSaved || c.region == model.RegionReadLater {
		c.news = nil
		c.errKind = ErrNone
		c.loading = false
		c.mu.Unlock()
		return
	}
	c.seq++
	seq := c.seq
	lang, region, city, genre := c.lang, c.region, c.city, c.genre
	c.loading = true
	c.mu.Unlock()

	items, errKind := c.fetchScope(ctx, lang, region, city, genre)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		slog.Debug("app: discarding stale fetch", "seq", seq, "current", c.seq)
		return
	}
	c.loading = false
	c.errKind = errKind
	if errKind == ErrNone {
		c.news = items
	}
}

func (c *Controller) fetchScope(ctx context.Context, lang model.Language, region model.Region, city string, genre model.Genre) ([]model.NewsItem, ErrorKind) {
	if c.cache != nil {
		if items, ok := c.cache.Get(ctx, lang, region, city, genre); ok {
			return items, ErrNone
		}
	}
	items, err := c.fetcher.FetchNews(ctx, lang, region, city, genre)
	if err != nil {
		if errors.Is(err, ai.ErrQuotaExhausted) {
			return nil, ErrQuota
		}
		// The fetcher degrades generic failures to an empty list itself;
		// anything else surfacing here is unexpected but non-fatal.
		slog.Error("app: fetch failed", "err", err)
		return nil, ErrNone
	}
	if c.cache != nil {
		if err := c.cache.Set(ctx, lang, region, city, genre, items); err != nil {
			slog.Warn("app: feed cache write failed", "err", err)
		}
	}
	return items, ErrNone
}

// Visible returns the list the current view should show: the bookmark
// projection for the saved/read-later regions, the fetched feed otherwise,
// with the view filters applied on top.
func (c *Controller) Visible() []model.NewsItem {
	c.mu.Lock()
	region, genre, verified, query := c.region, c.genre, c.verifiedOnly, c.query
	base := c.news
	c.mu.Unlock()

	switch region {
	case model.RegionSaved:
		if c.store == nil {
			return nil
		}
		base = c.store.Saved()
	case model.RegionReadLater:
		if c.store == nil {
			return nil
		}
		base = c.store.ReadLater()
	}
	return filter.Apply(base, genre, verified, query)
}
