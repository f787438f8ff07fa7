package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "notevault/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyNoteList = "note:list:"

// NoteCache caches each owner's note list in Redis.
type NoteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewNoteCache returns a new NoteCache.
func NewNoteCache(rdb *redis.Client, ttl time.Duration) *NoteCache {
	return &NoteCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached list for the user, or nil on miss.
func (c *NoteCache) GetList(ctx context.Context, userID int64) ([]dom.Note, error) {
	b, err := c.rdb.Get(ctx, listKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Note
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the user's list in cache.
func (c *NoteCache) SetList(ctx context.Context, userID int64, list []dom.Note) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, listKey(userID), b, c.ttl).Err()
}

// Invalidate drops the user's cached list (cache invalidation on write).
func (c *NoteCache) Invalidate(ctx context.Context, userID int64) error {
	return c.rdb.Del(ctx, listKey(userID)).Err()
}

func listKey(userID int64) string {
	return keyNoteList + strconv.FormatInt(userID, 10)
}
