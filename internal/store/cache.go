package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"plume/internal/models"
)

const snapshotCacheKey = "plume:snapshot"

// snapshotCache keeps the latest full snapshot in Redis so that repeated
// slot computations do not re-read the whole database. Any write through
// the store invalidates it.
type snapshotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// UseRedisCache attaches a Redis-backed snapshot cache to the store.
func (s *Store) UseRedisCache(rdb *redis.Client, ttl time.Duration) {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	s.cache = &snapshotCache{rdb: rdb, ttl: ttl}
}

func (s *Store) snapshotFromCache(ctx context.Context) (*models.Snapshot, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.rdb.Get(ctx, snapshotCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false
	}
	return &snap, true
}

func (s *Store) storeSnapshotInCache(ctx context.Context, snap *models.Snapshot) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	// Best effort: a failed cache write only costs the next read a query.
	s.cache.rdb.Set(ctx, snapshotCacheKey, data, s.cache.ttl)
}

func (s *Store) invalidateCache() {
	if s.cache == nil {
		return
	}
	s.cache.rdb.Del(context.Background(), snapshotCacheKey)
}
