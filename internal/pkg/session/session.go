package session

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/redis"

	"github.com/lunarworks/LanternFox/internal/pkg/cache"
	"github.com/lunarworks/LanternFox/internal/pkg/env"
)

var sessionStore *session.Store

func NewSessionStore() *session.Store {
	// Get Redis client configuration from existing cache setup
	cacheClient := cache.GetClient()
	host := "localhost"
	port := 6379
	password := env.GetEnv("CACHE_PASSWORD", "")
	if cacheClient != nil {
		addr := cacheClient.Options().Addr
		if h, p, err := net.SplitHostPort(addr); err == nil {
			host = h
			if v, err := strconv.Atoi(p); err == nil {
				port = v
			}
		}
		if p := cacheClient.Options().Password; p != "" {
			password = p
		}
	}

	// Sessions live in database 1, the cache uses database 0.
	storage := redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: password,
		Database: 1,
		Reset:    false,
	})

	sessionStore = session.New(session.Config{
		Storage:        storage,
		CookieHTTPOnly: true,
		Expiration:     time.Hour * 24,
		KeyLookup:      "cookie:session_id",
	})

	return sessionStore
}

func GetSessionStore() *session.Store {
	if sessionStore == nil {
		return NewSessionStore()
	}
	return sessionStore
}

// GetSessionValue reads a string value from the request's session.
func GetSessionValue(c *fiber.Ctx, key string) (string, error) {
	sess, err := GetSessionStore().Get(c)
	if err != nil {
		return "", fmt.Errorf("session not available: %w", err)
	}
	if v, ok := sess.Get(key).(string); ok {
		return v, nil
	}
	return "", nil
}
