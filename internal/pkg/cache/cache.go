package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lunarworks/LanternFox/internal/pkg/env"
)

var (
	client *redis.Client
	ctx    = context.Background()
)

// SetupCache initializes the connection to the Redis cache server
func SetupCache() {
	host := env.GetEnv("CACHE_HOST", "localhost")
	port := env.GetEnv("CACHE_PORT", "6379")

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       0,
	})

	// Test the connection
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		log.Printf("Warning: Could not connect to Redis cache: %v", err)
	} else {
		log.Printf("Successfully connected to Redis cache: %s", pong)
	}
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	if client == nil {
		SetupCache()
	}
	return client
}

// Set stores a value in the cache with the given key and expiration time
func Set(key string, value interface{}, expiration time.Duration) error {
	return GetClient().Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value from the cache by key
func Get(key string) (string, error) {
	return GetClient().Get(ctx, key).Result()
}

// Delete removes a value from the cache by key
func Delete(key string) error {
	return GetClient().Del(ctx, key).Err()
}

const balanceKeyPrefix = "credits:balance:"
const balanceTTL = 60 * time.Second

// BalanceCache is a read-through cache for per-user credit balances. Every
// ledger mutation must invalidate the user's entry; stale reads are bounded
// by the short TTL either way.
type BalanceCache struct{}

func NewBalanceCache() *BalanceCache {
	return &BalanceCache{}
}

func (BalanceCache) Get(userID string) (int64, bool) {
	val, err := GetClient().Get(ctx, balanceKeyPrefix+userID).Result()
	if err != nil {
		return 0, false
	}
	balance, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return balance, true
}

func (BalanceCache) Set(userID string, balance int64) {
	_ = GetClient().Set(ctx, balanceKeyPrefix+userID, balance, balanceTTL).Err()
}

func (BalanceCache) Invalidate(userID string) {
	_ = GetClient().Del(ctx, balanceKeyPrefix+userID).Err()
}
