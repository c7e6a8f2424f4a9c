package identity

import (
	"strings"

	"github.com/google/uuid"

	"voice-of-kalki/internal/localcache"
)

// AnonymousID returns the locally persisted anonymous user identifier,
// generating and storing a new one on first use. Anonymous and authenticated
// identities are separate schemes and are never merged.
func AnonymousID(cache *localcache.Cache) (string, error) {
	id, err := cache.Get(localcache.SlotAnonID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(id) != "" {
		return id, nil
	}
	id = uuid.NewString()
	if err := cache.Set(localcache.SlotAnonID, id); err != nil {
		return "", err
	}
	return id, nil
}
