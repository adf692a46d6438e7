package memory

import (
	"audio-insight-be/pkg/transport"

	"github.com/patrickmn/go-cache"
)

// SessionRepository maps session ids to their normalized result records.
// Records live for the whole process: no TTL, no eviction. Unbounded growth
// is an accepted limitation of this design, not something to silently fix.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	c := cache.New(cache.NoExpiration, 0)
	return &SessionRepository{
		cache: c,
	}
}

// Save registers a fully normalized record under the session id. Ids are
// freshly generated per upload, so an overwrite only happens if a caller
// reuses one deliberately.
func (r *SessionRepository) Save(sessionID string, record transport.Value) {
	r.cache.Set(sessionID, record, cache.NoExpiration)
}

func (r *SessionRepository) Get(sessionID string) (transport.Value, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(transport.Value), true
	}
	return transport.Value{}, false
}

// Delete removes the record and reports whether it was present.
func (r *SessionRepository) Delete(sessionID string) bool {
	if _, found := r.cache.Get(sessionID); !found {
		return false
	}
	r.cache.Delete(sessionID)
	return true
}

// Count returns the number of live sessions.
func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
