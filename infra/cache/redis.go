package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/cobank/ledger/pkg/domain/account"
	"github.com/redis/go-redis/v9"
)

// RedisPageCache implements cache.PageCache on Redis so multiple instances
// share one memoized view. Alongside each page it maintains a per-account set
// of live keys, which is what makes whole-account invalidation a bounded
// operation instead of a keyspace scan.
type RedisPageCache struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedisPageCache creates a Redis-backed page cache from client options.
func NewRedisPageCache(opt *redis.Options, prefix string, logger *slog.Logger) *RedisPageCache {
	return &RedisPageCache{client: redis.NewClient(opt), prefix: prefix, logger: logger}
}

func (r *RedisPageCache) key(iban string, page, size int) string {
	return r.prefix + pageKey(iban, page, size)
}

func (r *RedisPageCache) accountSetKey(iban string) string {
	return r.prefix + "keys:" + iban
}

// Get returns the cached page, or nil on a miss.
func (r *RedisPageCache) Get(ctx context.Context, iban string, page, size int) (*account.HistoryPage, error) {
	val, err := r.client.Get(ctx, r.key(iban, page, size)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("redis cache get failed", "iban", iban, "error", err)
		return nil, err
	}

	var pg account.HistoryPage
	if err := json.Unmarshal([]byte(val), &pg); err != nil {
		r.logger.Error("redis cache entry corrupt, dropping", "iban", iban, "error", err)
		r.client.Del(ctx, r.key(iban, page, size))
		return nil, nil
	}
	return &pg, nil
}

// Set stores a page and registers its key in the account's key set.
func (r *RedisPageCache) Set(ctx context.Context, iban string, page, size int, val *account.HistoryPage, ttl time.Duration) error {
	data, err := json.Marshal(val)
	if err != nil {
		return err
	}

	key := r.key(iban, page, size)
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, ttl)
	pipe.SAdd(ctx, r.accountSetKey(iban), key)
	pipe.Expire(ctx, r.accountSetKey(iban), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("redis cache set failed", "iban", iban, "error", err)
		return err
	}
	return nil
}

// InvalidateAccount deletes every cached page registered for the account.
func (r *RedisPageCache) InvalidateAccount(ctx context.Context, iban string) error {
	setKey := r.accountSetKey(iban)
	keys, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		r.logger.Error("redis cache invalidate failed", "iban", iban, "error", err)
		return err
	}
	keys = append(keys, setKey)
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.logger.Error("redis cache invalidate failed", "iban", iban, "error", err)
		return err
	}
	return nil
}
