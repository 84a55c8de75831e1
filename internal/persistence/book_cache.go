package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/library-service/internal/domain"
)

// ErrCacheMiss is returned by BookCache.Get when nothing is cached.
var ErrCacheMiss = errors.New("cache miss")

// BookCache caches single books by id.
type BookCache interface {
	Get(ctx context.Context, id int64) (*domain.Book, error)
	Set(ctx context.Context, book *domain.Book) error
	Invalidate(ctx context.Context, id int64) error
}

type redisBookCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisBookCache returns a Redis-backed BookCache. A nil client or zero
// ttl yields a cache that never stores anything.
func NewRedisBookCache(r *Redis, ttl time.Duration) BookCache {
	if r == nil || r.Client == nil || ttl <= 0 {
		return noopBookCache{}
	}
	return &redisBookCache{client: r.Client, prefix: "book:", ttl: ttl}
}

func (c *redisBookCache) key(id int64) string {
	return c.prefix + strconv.FormatInt(id, 10)
}

func (c *redisBookCache) Get(ctx context.Context, id int64) (*domain.Book, error) {
	val, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var book domain.Book
	if err := json.Unmarshal(val, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *redisBookCache) Set(ctx context.Context, book *domain.Book) error {
	data, err := json.Marshal(book)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(book.ID), data, c.ttl).Err()
}

func (c *redisBookCache) Invalidate(ctx context.Context, id int64) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

type noopBookCache struct{}

func (noopBookCache) Get(context.Context, int64) (*domain.Book, error) { return nil, ErrCacheMiss }
func (noopBookCache) Set(context.Context, *domain.Book) error          { return nil }
func (noopBookCache) Invalidate(context.Context, int64) error          { return nil }
