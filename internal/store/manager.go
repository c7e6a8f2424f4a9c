package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"voice-of-kalki/internal/localcache"
)

// Manager hands out one Store per user, each backed by its own local cache
// file. Stores are created lazily and kept for the process lifetime.
type Manager struct {
	dir    string
	remote Remote

	mu     sync.Mutex
	stores map[string]*Store
	caches map[string]*localcache.Cache
}

func NewManager(dir string, remote Remote) *Manager {
	return &Manager{
		dir:    dir,
		remote: remote,
		stores: make(map[string]*Store),
		caches: make(map[string]*localcache.Cache),
	}
}

// For returns the store for a user, opening it on first use. When a remote
// store is configured the initial load pulls the remote state in.
func (m *Manager) For(ctx context.Context, userID string) (*Store, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("store: empty user id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stores[userID]; ok {
		return s, nil
	}
	cache, err := localcache.Open(filepath.Join(m.dir, safeFilename(userID)+".db"))
	if err != nil {
		return nil, fmt.Errorf("store: open cache for user: %w", err)
	}
	s := New(userID, cache, m.remote)
	if m.remote != nil {
		s.SyncRemote(ctx)
	}
	m.stores[userID] = s
	m.caches[userID] = cache
	return s, nil
}

// Close flushes and closes every open store.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.stores {
		s.Close()
		m.caches[id].Close()
	}
	m.stores = make(map[string]*Store)
	m.caches = make(map[string]*localcache.Cache)
}

func safeFilename(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}
