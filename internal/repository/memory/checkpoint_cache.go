package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// Checkpoint is the in-process copy of a session's indexed paper.
type Checkpoint struct {
	SessionID string
	Chunks    []string
	Vectors   [][]float32
}

type CheckpointCache struct {
	cache *cache.Cache
}

func NewCheckpointCache() *CheckpointCache {
	// Default expiration of 1 hour, purge sweep every 10 minutes. The
	// durable copy lives in paper_chunks and survives the eviction.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &CheckpointCache{
		cache: c,
	}
}

func (r *CheckpointCache) Save(cp *Checkpoint) {
	r.cache.Set(cp.SessionID, cp, cache.DefaultExpiration)
}

func (r *CheckpointCache) Get(sessionID string) (*Checkpoint, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*Checkpoint), true
	}
	return nil, false
}

func (r *CheckpointCache) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}
