package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yourusername/resale-inventory-bot/internal/domain/entity"
)

const snapshotKeyPrefix = "inventory:snapshot:"

// SnapshotCache time-boxed copy of the last full sheet read
type SnapshotCache interface {
	Get(ctx context.Context) ([]entity.InventoryRow, bool, error)
	Set(ctx context.Context, rows []entity.InventoryRow) error
	Invalidate(ctx context.Context) error
}

// MemoryCache in-process snapshot
type MemoryCache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	rows    []entity.InventoryRow
	fetched time.Time
	valid   bool
}

// NewMemoryCache a ttl of zero disables caching
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context) ([]entity.InventoryRow, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.valid || c.ttl <= 0 || c.now().Sub(c.fetched) >= c.ttl {
		return nil, false, nil
	}
	return cloneRows(c.rows), true, nil
}

func (c *MemoryCache) Set(_ context.Context, rows []entity.InventoryRow) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rows = cloneRows(rows)
	c.fetched = c.now()
	c.valid = true
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rows = nil
	c.valid = false
	return nil
}

func cloneRows(rows []entity.InventoryRow) []entity.InventoryRow {
	if rows == nil {
		return nil
	}
	out := make([]entity.InventoryRow, len(rows))
	copy(out, rows)
	return out
}

// RedisCache snapshot shared through Redis, one key per spreadsheet
type RedisCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, spreadsheetID string, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		key:    snapshotKeyPrefix + spreadsheetID,
		ttl:    ttl,
	}
}

func (c *RedisCache) Get(ctx context.Context) ([]entity.InventoryRow, bool, error) {
	if c.ttl <= 0 {
		return nil, false, nil
	}
	data, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get snapshot: %w", err)
	}

	var rows []entity.InventoryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		// a corrupt snapshot is treated as a miss
		return nil, false, nil
	}
	return rows, true, nil
}

func (c *RedisCache) Set(ctx context.Context, rows []entity.InventoryRow) error {
	if c.ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return c.client.Set(ctx, c.key, data, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
