package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/duetchat/messenger-service/internal/config"
	"github.com/duetchat/messenger-service/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

type RedisPageCache struct {
	client *redis.Client
	prefix string
}

func NewRedisPageCache(cfg config.RedisConfig, prefix string) (*RedisPageCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisPageCache{
		client: client,
		prefix: prefix,
	}, nil
}

func (c *RedisPageCache) BuildKey(conversationID int64, before *time.Time, page, limit int) string {
	cutoff := "all"
	if before != nil {
		cutoff = fmt.Sprintf("%d", before.UnixMilli())
	}
	return fmt.Sprintf("%s:%d:%s:%d:%d", c.prefix, conversationID, cutoff, page, limit)
}

func (c *RedisPageCache) Get(ctx context.Context, key string) (*domain.MessagePage, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var page domain.MessagePage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}

	return &page, nil
}

func (c *RedisPageCache) Set(ctx context.Context, key string, page *domain.MessagePage, ttl time.Duration) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}

	return nil
}

func (c *RedisPageCache) Close() error {
	return c.client.Close()
}
