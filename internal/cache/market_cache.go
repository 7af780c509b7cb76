package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/irfndi/paragon-ai-go/internal/models"
)

const marketPrefix = "market:"

// marketCacheEntry wraps a cached payload with metadata
type marketCacheEntry struct {
	Payload   json.RawMessage `json:"payload"`
	CachedAt  time.Time       `json:"cached_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// MarketCacheStats tracks cache performance metrics
type MarketCacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Sets   int64 `json:"sets"`
}

// HitRate returns hits as a percentage of lookups.
func (s MarketCacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// RedisMarketCache caches ticker snapshots and bar series in Redis
type RedisMarketCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *logrus.Logger

	mu    sync.RWMutex
	stats MarketCacheStats
}

// NewRedisMarketCache creates a market cache whose entries live for ttl.
func NewRedisMarketCache(redisClient *redis.Client, ttl time.Duration, logger *logrus.Logger) *RedisMarketCache {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RedisMarketCache{
		redis:  redisClient,
		ttl:    ttl,
		logger: logger,
	}
}

// SnapshotKey is the Redis key of a cached ticker snapshot.
func SnapshotKey(symbol string) string {
	return marketPrefix + "snapshot:" + strings.ToUpper(symbol)
}

// BarsKey is the Redis key of a cached bar series.
func BarsKey(symbol, interval string, limit int) string {
	return fmt.Sprintf("%sbars:%s:%s:%d", marketPrefix, strings.ToUpper(symbol), interval, limit)
}

func (c *RedisMarketCache) GetSnapshot(ctx context.Context, symbol string) (models.MarketSnapshot, bool) {
	var snapshot models.MarketSnapshot
	ok := c.get(ctx, SnapshotKey(symbol), &snapshot)
	return snapshot, ok
}

func (c *RedisMarketCache) SetSnapshot(ctx context.Context, symbol string, snapshot models.MarketSnapshot) {
	c.set(ctx, SnapshotKey(symbol), snapshot)
}

func (c *RedisMarketCache) GetBars(ctx context.Context, symbol, interval string, limit int) ([]models.PriceBar, bool) {
	var bars []models.PriceBar
	ok := c.get(ctx, BarsKey(symbol, interval, limit), &bars)
	return bars, ok
}

func (c *RedisMarketCache) SetBars(ctx context.Context, symbol, interval string, limit int, bars []models.PriceBar) {
	c.set(ctx, BarsKey(symbol, interval, limit), bars)
}

func (c *RedisMarketCache) get(ctx context.Context, key string, dest interface{}) bool {
	data, err := c.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.record(func(s *MarketCacheStats) { s.Misses++ })
		return false
	}
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Redis error reading market cache")
		c.record(func(s *MarketCacheStats) { s.Misses++ })
		return false
	}

	var entry marketCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Failed to decode market cache entry")
		c.record(func(s *MarketCacheStats) { s.Misses++ })
		return false
	}
	if err := json.Unmarshal(entry.Payload, dest); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Failed to decode market cache payload")
		c.record(func(s *MarketCacheStats) { s.Misses++ })
		return false
	}

	c.record(func(s *MarketCacheStats) { s.Hits++ })
	return true
}

func (c *RedisMarketCache) set(ctx context.Context, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Failed to encode market cache payload")
		return
	}

	now := time.Now()
	data, err := json.Marshal(marketCacheEntry{
		Payload:   payload,
		CachedAt:  now,
		ExpiresAt: now.Add(c.ttl),
	})
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Failed to encode market cache entry")
		return
	}

	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("Redis error writing market cache")
		return
	}

	c.record(func(s *MarketCacheStats) { s.Sets++ })
	c.logger.WithFields(logrus.Fields{"key": key, "ttl": c.ttl}).Debug("Cached market data")
}

func (c *RedisMarketCache) record(update func(*MarketCacheStats)) {
	c.mu.Lock()
	update(&c.stats)
	c.mu.Unlock()
}

// GetStats returns current cache statistics
func (c *RedisMarketCache) GetStats() MarketCacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// LogStats logs current cache performance statistics
func (c *RedisMarketCache) LogStats() {
	stats := c.GetStats()
	c.logger.WithFields(logrus.Fields{
		"hits":     stats.Hits,
		"misses":   stats.Misses,
		"sets":     stats.Sets,
		"hit_rate": fmt.Sprintf("%.2f%%", stats.HitRate()),
	}).Info("Market cache stats")
}

// Clear removes every cached market entry.
func (c *RedisMarketCache) Clear(ctx context.Context) error {
	var keys []string
	iter := c.redis.Scan(ctx, 0, marketPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("error scanning cache keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("error clearing cache: %w", err)
	}

	c.logger.WithField("count", len(keys)).Info("Cleared market cache entries")
	return nil
}
