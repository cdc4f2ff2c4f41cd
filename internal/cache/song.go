package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"taskmate/internal/model"
)

const (
	// SongCatalogKey is the Redis key holding the serialized catalog
	SongCatalogKey = "songs:catalog"

	// SongCatalogTTL bounds staleness of the public listing
	SongCatalogTTL = 5 * time.Minute
)

// SongCache caches the public song listing. Using an interface enables
// testing with mocks and potential future backends.
type SongCache interface {
	// GetList returns the cached catalog. found=false on miss or expiry.
	GetList(ctx context.Context) (songs []model.Song, found bool, err error)

	// SetList stores the catalog with the standard TTL.
	SetList(ctx context.Context, songs []model.Song) error

	// Invalidate drops the cached catalog, called after a song is added.
	Invalidate(ctx context.Context) error
}

// RedisSongCache implements SongCache using a single JSON value.
type RedisSongCache struct {
	client *redis.Client
}

// NewSongCache creates a new SongCache backed by Redis.
func NewSongCache(client *redis.Client) SongCache {
	return &RedisSongCache{client: client}
}

// GetList returns the cached catalog if present.
func (c *RedisSongCache) GetList(ctx context.Context) ([]model.Song, bool, error) {
	data, err := c.client.Get(ctx, SongCatalogKey).Result()
	if err == redis.Nil {
		log.Printf("[SongCache] GetList: MISS")
		return nil, false, nil
	}
	if err != nil {
		log.Printf("[SongCache] GetList FAILED: err=%v", err)
		return nil, false, fmt.Errorf("get song catalog: %w", err)
	}

	var songs []model.Song
	if err := json.Unmarshal([]byte(data), &songs); err != nil {
		log.Printf("[SongCache] GetList parse error: err=%v", err)
		return nil, false, fmt.Errorf("unmarshal song catalog: %w", err)
	}

	log.Printf("[SongCache] GetList: HIT count=%d", len(songs))
	return songs, true, nil
}

// SetList stores the catalog with the standard TTL.
func (c *RedisSongCache) SetList(ctx context.Context, songs []model.Song) error {
	data, err := json.Marshal(songs)
	if err != nil {
		return fmt.Errorf("marshal song catalog: %w", err)
	}

	if err := c.client.Set(ctx, SongCatalogKey, data, SongCatalogTTL).Err(); err != nil {
		log.Printf("[SongCache] SetList FAILED: err=%v", err)
		return fmt.Errorf("set song catalog: %w", err)
	}

	log.Printf("[SongCache] SetList OK: count=%d ttl=%v", len(songs), SongCatalogTTL)
	return nil
}

// Invalidate drops the cached catalog.
func (c *RedisSongCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, SongCatalogKey).Err(); err != nil {
		log.Printf("[SongCache] Invalidate FAILED: err=%v", err)
		return fmt.Errorf("invalidate song catalog: %w", err)
	}

	log.Printf("[SongCache] Invalidate OK")
	return nil
}
