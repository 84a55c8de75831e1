package persistence

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/library-service/internal/config"
)

// Redis backs the book cache. The service keeps running when it is down;
// cache calls then fail and reads fall through to Postgres.
type Redis struct {
	Client *redis.Client
}

// NewRedis builds the client and probes it once. An unreachable server is
// logged, not fatal.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout(),
		ReadTimeout:  cfg.IOTimeout(),
		WriteTimeout: cfg.IOTimeout(),
	})

	ctx := context.Background()
	if timeout := cfg.DialTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, book cache degraded",
			zap.String("addr", cfg.Addr), zap.Error(err))
	} else {
		logger.Info("connected to redis",
			zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping is used by the readiness probe.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}
