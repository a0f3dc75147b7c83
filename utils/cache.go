// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"servicebid/config"

	"github.com/go-redis/redis/v8"
)

var (
	// StoreClient is the Redis client backing the persistence store.
	StoreClient *redis.Client
	// CacheClient is the generic cache client (market sessions, auth sessions).
	CacheClient *redis.Client
)

// InitStoreClient initializes the Redis client used by the persistence store.
func InitStoreClient() {
	StoreClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisStoreDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := StoreClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Store): %v", err)
	}
}

// GetStoreClient returns the Redis client backing the persistence store.
func GetStoreClient() *redis.Client {
	if StoreClient == nil {
		InitStoreClient()
	}
	return StoreClient
}

// InitCache initializes the generic Redis cache client.
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := CacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}
