package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/xela07ax/bestcdn-board/internal/domain"
)

// KVRepo читает результаты теста скорости из Redis (строковые ключи).
type KVRepo struct {
	rdb    *redis.Client
	prefix string
}

func NewKVRepo(rdb *redis.Client, prefix string) *KVRepo {
	return &KVRepo{rdb: rdb, prefix: prefix}
}

// Get возвращает domain.ErrKeyNotFound для отсутствующего ключа,
// обёрнутый domain.ErrStoreUnavailable, если Redis не отвечает.
// Ошибка отменённого контекста пробрасывается как есть.
func (r *KVRepo) Get(ctx context.Context, key string) (string, error) {
	val, err := r.rdb.Get(ctx, r.prefix+key).Result()
	if err != nil {
		return "", classify(ctx, key, err)
	}
	return val, nil
}

func (r *KVRepo) Ping(ctx context.Context) error {
	if err := r.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: %w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func classify(ctx context.Context, key string, err error) error {
	if errors.Is(err, redis.Nil) {
		return domain.ErrKeyNotFound
	}

	// Клиент ушёл или истёк его дедлайн: Redis тут ни при чём
	if ctx.Err() != nil || domain.IsCanceled(err) {
		return fmt.Errorf("redis: read %q: %w", key, err)
	}

	// Ответ сервера (WRONGTYPE и т.п.) — сбой только этого ключа
	var replyErr redis.Error
	if errors.As(err, &replyErr) {
		return fmt.Errorf("redis: read %q: %w", key, err)
	}

	return fmt.Errorf("redis: %w: %v", domain.ErrStoreUnavailable, err)
}
