package db

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"goMatchServer/config"
	"goMatchServer/match"

	"github.com/redis/go-redis/v9"
)

var (
	// RedisClient is the global Redis client instance
	RedisClient *redis.Client
)

// InitRedis initializes the Redis client connection
func InitRedis() error {
	log.Println("🔌 Connecting to Redis...")

	// Get Redis configuration from environment
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "localhost:6379"
	}

	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDB = db
		}
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:         redisURL,
		Password:     redisPassword,
		DB:           redisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := RedisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Printf("✅ Redis connected successfully - URL: %s", redisURL)
	return nil
}

// CloseRedis closes the Redis connection
func CloseRedis() error {
	if RedisClient != nil {
		log.Println("🔌 Closing Redis connection...")
		return RedisClient.Close()
	}
	return nil
}

/* =========================
   REVERIFICATION FINDING CACHE
   Redis Key: verify:finding:{matchId} -> VerificationFinding JSON
========================= */

// CacheFinding stores a reverification finding with a short TTL.
// Reverification is deterministic, so a cached finding is only stale if
// the stored record itself changed - which is exactly what the TTL bounds.
func CacheFinding(ctx context.Context, matchID string, finding *match.VerificationFinding) error {
	if RedisClient == nil {
		return nil
	}

	data, err := json.Marshal(finding)
	if err != nil {
		return fmt.Errorf("failed to marshal finding: %w", err)
	}

	key := fmt.Sprintf(config.RedisFindingKey, matchID)
	if err := RedisClient.Set(ctx, key, data, config.FindingCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache finding: %w", err)
	}
	return nil
}

// GetCachedFinding retrieves a cached reverification finding
func GetCachedFinding(ctx context.Context, matchID string) (*match.VerificationFinding, error) {
	if RedisClient == nil {
		return nil, nil
	}

	key := fmt.Sprintf(config.RedisFindingKey, matchID)
	data, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil // Not cached
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached finding: %w", err)
	}

	var finding match.VerificationFinding
	if err := json.Unmarshal([]byte(data), &finding); err != nil {
		return nil, fmt.Errorf("failed to unmarshal finding: %w", err)
	}
	return &finding, nil
}

// InvalidateFinding drops the cached finding for a match
func InvalidateFinding(ctx context.Context, matchID string) error {
	if RedisClient == nil {
		return nil
	}
	key := fmt.Sprintf(config.RedisFindingKey, matchID)
	if err := RedisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate finding: %w", err)
	}
	return nil
}

/* =========================
   SHARE CODE INDEX
   Redis Key: match:share:{code} -> matchId
========================= */

// IndexShareCode maps a share code to its match ID for fast resolution
func IndexShareCode(ctx context.Context, shareCode, matchID string) error {
	if RedisClient == nil {
		return nil
	}

	key := fmt.Sprintf(config.RedisShareCodeKey, shareCode)
	if err := RedisClient.Set(ctx, key, matchID, config.ShareCodeTTL).Err(); err != nil {
		return fmt.Errorf("failed to index share code: %w", err)
	}
	return nil
}

// ResolveShareCode looks up the match ID behind a share code.
// Returns empty string on cache miss; callers fall back to PostgreSQL.
func ResolveShareCode(ctx context.Context, shareCode string) (string, error) {
	if RedisClient == nil {
		return "", nil
	}

	key := fmt.Sprintf(config.RedisShareCodeKey, shareCode)
	matchID, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve share code: %w", err)
	}
	return matchID, nil
}

/* =========================
   HEALTH CHECK
========================= */

// HealthCheck performs a Redis health check
func HealthCheck(ctx context.Context) error {
	if RedisClient == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return RedisClient.Ping(ctx).Err()
}
