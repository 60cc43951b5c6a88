// Package cache 提供搜尋結果快取：記憶體 (Manager) 或 Redis (RedisStore)。
package cache

import (
	"context"
	"fmt"

	"recipe-finder/internal/infrastructure/config"
)

// Store 快取後端介面
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Stats() Stats
	Close() error
}

// Stats 快取統計
type Stats struct {
	Backend   string `json:"backend"`
	Size      int    `json:"size"`
	MaxSize   int    `json:"max_size,omitempty"`
	Hits      int64  `json:"hits"`
	Misses    int64  `json:"misses"`
	Evictions int64  `json:"evictions"`
	Errors    int64  `json:"errors"`
}

// HitRatio 命中率
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// New 依設定建立快取；未啟用時回傳 nil
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}

	switch cfg.Cache.Backend {
	case config.CacheBackendMemory, "":
		return NewManager(cfg.Cache), nil
	case config.CacheBackendRedis:
		store, err := NewRedisStore(ctx, cfg.Redis, cfg.Cache.TTL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
