package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"voice-of-kalki/internal/localcache"
	"voice-of-kalki/internal/model"
)

// Remote is the slice of the remote store the preference store writes through
// to. A nil Remote runs the store in local-only mode.
type Remote interface {
	BookmarksByUser(ctx context.Context, userID string) ([]model.Bookmark, error)
	ReactionsByUser(ctx context.Context, userID string) (map[string]model.Reaction, error)
	UpsertBookmark(ctx context.Context, bm model.Bookmark) error
	DeleteBookmark(ctx context.Context, userID, newsID string, kind model.BookmarkKind) error
	UpsertReaction(ctx context.Context, userID, newsID string, r model.Reaction) error
	DeleteReaction(ctx context.Context, userID, newsID string) error
}

// SyncState is the per-record remote synchronization status.
type SyncState string

const (
	StateSynced  SyncState = "synced"
	StatePending SyncState = "pending"
	StateFailed  SyncState = "failed"
)

const remoteOpTimeout = 10 * time.Second

// Store reconciles bookmarks and reactions for one user identity between the
// local durable cache and an optional remote store. Mutations update memory
// and the local cache synchronously; remote writes go through a FIFO queue so
// a slow earlier write can never be overtaken by a later one.
type Store struct {
	userID string
	cache  *localcache.Cache
	remote Remote

	mu        sync.Mutex
	saved     []model.NewsItem
	readLater []model.NewsItem
	reactions map[string]model.Reaction
	status    map[string]SyncState
	cloud     bool

	queue chan func()
	done  chan struct{}
}

// New loads the local cache and starts the remote sync queue. Corrupt or
// missing local data loads as empty state; initialization never fails on it.
func New(userID string, cache *localcache.Cache, remote Remote) *Store {
	s := &Store{
		userID:    userID,
		cache:     cache,
		remote:    remote,
		reactions: map[string]model.Reaction{},
		status:    map[string]SyncState{},
	}
	s.saved = s.loadItems(localcache.SlotSaved)
	s.readLater = s.loadItems(localcache.SlotReadLater)
	s.loadReactions()

	if remote != nil {
		s.queue = make(chan func(), 128)
		s.done = make(chan struct{})
		go s.runQueue()
	}
	return s
}

// Close drains the sync queue. Safe in local-only mode.
func (s *Store) Close() {
	if s.queue == nil {
		return
	}
	close(s.queue)
	<-s.done
}

// Flush blocks until every remote write enqueued so far has completed.
func (s *Store) Flush() {
	if s.queue == nil {
		return
	}
	ch := make(chan struct{})
	s.queue <- func() { close(ch) }
	<-ch
}

func (s *Store) runQueue() {
	defer close(s.done)
	for job := range s.queue {
		job()
	}
}

// SyncRemote loads the user's remote records. On success the remote state
// replaces in-memory state (remote wins on initial load) and the cloud flag
// flips on; on failure local state stays authoritative.
func (s *Store) SyncRemote(ctx context.Context) {
	if s.remote == nil {
		return
	}
	bks, err := s.remote.BookmarksByUser(ctx, s.userID)
	if err != nil {
		slog.Error("store: remote bookmark sync failed, staying local", "user", s.userID, "err", err)
		s.mu.Lock()
		s.cloud = false
		s.mu.Unlock()
		return
	}
	rts, err := s.remote.ReactionsByUser(ctx, s.userID)
	if err != nil {
		slog.Error("store: remote reaction sync failed, staying local", "user", s.userID, "err", err)
		s.mu.Lock()
		s.cloud = false
		s.mu.Unlock()
		return
	}

	var saved, later []model.NewsItem
	for _, bm := range bks {
		switch bm.Kind {
		case model.BookmarkSaved:
			saved = append(saved, bm.Content)
		case model.BookmarkReadLater:
			later = append(later, bm.Content)
		}
	}
	if rts == nil {
		rts = map[string]model.Reaction{}
	}

	s.mu.Lock()
	s.saved = saved
	s.readLater = later
	s.reactions = rts
	s.cloud = true
	s.persistLocked()
	s.mu.Unlock()
	slog.Info("store: remote sync complete", "user", s.userID, "saved", len(saved), "read_later", len(later))
}

// ToggleSave flips the saved flag for an article and returns the new state.
func (s *Store) ToggleSave(item model.NewsItem) bool {
	return s.toggleBookmark(item, model.BookmarkSaved)
}

// ToggleReadLater flips the read-later flag for an article and returns the
// new state. Saved and read-later are independent flags.
func (s *Store) ToggleReadLater(item model.NewsItem) bool {
	return s.toggleBookmark(item, model.BookmarkReadLater)
}

func (s *Store) toggleBookmark(item model.NewsItem, kind model.BookmarkKind) bool {
	s.mu.Lock()
	list := &s.saved
	if kind == model.BookmarkReadLater {
		list = &s.readLater
	}
	idx := indexOf(*list, item.ID)
	added := idx < 0
	if added {
		*list = append(*list, item)
	} else {
		*list = append((*list)[:idx], (*list)[idx+1:]...)
	}
	s.persistLocked()
	s.markPendingLocked(bookmarkKey(kind, item.ID))
	s.mu.Unlock()

	if added {
		s.enqueue(bookmarkKey(kind, item.ID), func(ctx context.Context) error {
			return s.remote.UpsertBookmark(ctx, model.Bookmark{UserID: s.userID, NewsID: item.ID, Kind: kind, Content: item})
		})
	} else {
		s.enqueue(bookmarkKey(kind, item.ID), func(ctx context.Context) error {
			return s.remote.DeleteBookmark(ctx, s.userID, item.ID, kind)
		})
	}
	return added
}

// React applies a reaction toggle and returns the resulting value. Repeating
// the current reaction clears it; a different reaction replaces it directly.
func (s *Store) React(newsID string, kind model.Reaction) model.Reaction {
	s.mu.Lock()
	next := kind
	if s.reactions[newsID] == kind {
		next = model.ReactionNone
	}
	if next == model.ReactionNone {
		delete(s.reactions, newsID)
	} else {
		s.reactions[newsID] = next
	}
	s.persistLocked()
	s.markPendingLocked(reactionKey(newsID))
	s.mu.Unlock()

	if next == model.ReactionNone {
		s.enqueue(reactionKey(newsID), func(ctx context.Context) error {
			return s.remote.DeleteReaction(ctx, s.userID, newsID)
		})
	} else {
		s.enqueue(reactionKey(newsID), func(ctx context.Context) error {
			return s.remote.UpsertReaction(ctx, s.userID, newsID, next)
		})
	}
	return next
}

// Saved returns a copy of the saved list in insertion order.
func (s *Store) Saved() []model.NewsItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.NewsItem(nil), s.saved...)
}

// ReadLater returns a copy of the read-later list in insertion order.
func (s *Store) ReadLater() []model.NewsItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.NewsItem(nil), s.readLater...)
}

// Reactions returns a copy of the reaction map.
func (s *Store) Reactions() map[string]model.Reaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]model.Reaction, len(s.reactions))
	for k, v := range s.reactions {
		out[k] = v
	}
	return out
}

func (s *Store) IsSaved(newsID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.saved, newsID) >= 0
}

func (s *Store) IsReadLater(newsID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.readLater, newsID) >= 0
}

// CloudConnected reports whether the last remote interaction succeeded.
func (s *Store) CloudConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cloud
}

// SyncStatus returns the remote sync state for a bookmark record.
func (s *Store) SyncStatus(kind model.BookmarkKind, newsID string) SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.status[bookmarkKey(kind, newsID)]; ok {
		return st
	}
	return StateSynced
}

// ReactionSyncStatus returns the remote sync state for a reaction record.
func (s *Store) ReactionSyncStatus(newsID string) SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.status[reactionKey(newsID)]; ok {
		return st
	}
	return StateSynced
}

// enqueue pushes a remote write onto the FIFO queue. In local-only mode the
// record is marked synced immediately; there is nothing to reconcile against.
func (s *Store) enqueue(key string, op func(ctx context.Context) error) {
	if s.remote == nil {
		s.mu.Lock()
		s.status[key] = StateSynced
		s.mu.Unlock()
		return
	}
	s.queue <- func() {
		ctx, cancel := context.WithTimeout(context.Background(), remoteOpTimeout)
		err := op(ctx)
		cancel()

		s.mu.Lock()
		if err != nil {
			// The optimistic local update stands; divergence is accepted
			// until a later write for the same record succeeds.
			s.status[key] = StateFailed
			s.cloud = false
		} else {
			s.status[key] = StateSynced
			s.cloud = true
		}
		s.mu.Unlock()
		if err != nil {
			slog.Error("store: remote write failed", "user", s.userID, "record", key, "err", err)
		}
	}
}

func (s *Store) markPendingLocked(key string) {
	s.status[key] = StatePending
}

// persistLocked writes all three snapshots to the local cache. Local persist
// errors are logged only; the in-memory state remains usable.
func (s *Store) persistLocked() {
	s.persistSlot(localcache.SlotSaved, s.saved)
	s.persistSlot(localcache.SlotReadLater, s.readLater)
	s.persistSlot(localcache.SlotReactions, s.reactions)
}

func (s *Store) persistSlot(slot string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		slog.Error("store: encoding local snapshot", "slot", slot, "err", err)
		return
	}
	if err := s.cache.Set(slot, string(b)); err != nil {
		slog.Error("store: writing local snapshot", "slot", slot, "err", err)
	}
}

func (s *Store) loadItems(slot string) []model.NewsItem {
	raw, err := s.cache.Get(slot)
	if err != nil {
		slog.Warn("store: reading local snapshot, starting empty", "slot", slot, "err", err)
		return nil
	}
	if raw == "" {
		return nil
	}
	var items []model.NewsItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		slog.Warn("store: corrupt local snapshot, starting empty", "slot", slot, "err", err)
		return nil
	}
	return items
}

func (s *Store) loadReactions() {
	raw, err := s.cache.Get(localcache.SlotReactions)
	if err != nil || raw == "" {
		return
	}
	m := map[string]model.Reaction{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		slog.Warn("store: corrupt reaction snapshot, starting empty", "err", err)
		return
	}
	// The original deployment persisted explicit nulls for cleared reactions.
	for k, v := range m {
		if v != model.ReactionNone {
			s.reactions[k] = v
		}
	}
}

func indexOf(items []model.NewsItem, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func bookmarkKey(kind model.BookmarkKind, newsID string) string {
	return string(kind) + ":" + newsID
}

func reactionKey(newsID string) string {
	return "reaction:" + newsID
}
