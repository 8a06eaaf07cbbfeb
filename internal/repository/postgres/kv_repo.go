package postgres

/*
Файл kv_repo.go — альтернативный источник результатов теста скорости.
Внешний тест пишет те же четыре ключа (ipv4, ipv6, ipv4time, ipv6time)
в таблицу вида:

	CREATE TABLE edge_kv (key TEXT PRIMARY KEY, value TEXT NOT NULL);

Ошибки разделяются так же, как у Redis: нет строки — ключ отсутствует,
ошибка от сервера (PgError) — сбой одного ключа, всё остальное — база недоступна.
*/

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xela07ax/bestcdn-board/internal/domain"
)

type KVRepo struct {
	pool   *pgxpool.Pool
	query  string
	prefix string
}

// NewKVRepo открывает пул соединений. Доступность проверяется отдельно через Ping.
func NewKVRepo(ctx context.Context, connString, table, prefix string, maxConns int32) (*KVRepo, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid connection string: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	return &KVRepo{
		pool:   pool,
		query:  selectQuery(table),
		prefix: prefix,
	}, nil
}

func selectQuery(table string) string {
	return fmt.Sprintf(`SELECT value FROM %s WHERE key = $1`, pgx.Identifier{table}.Sanitize())
}

func (r *KVRepo) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.pool.QueryRow(ctx, r.query, r.prefix+key).Scan(&value)
	if err != nil {
		return "", classify(ctx, key, err)
	}
	return value, nil
}

// Ping проверяет доступность базы при старте
func (r *KVRepo) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: %w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (r *KVRepo) Close() {
	r.pool.Close()
}

func classify(ctx context.Context, key string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrKeyNotFound
	}

	if ctx.Err() != nil || domain.IsCanceled(err) {
		return fmt.Errorf("postgres: read %q: %w", key, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("postgres: read %q: %w", key, err)
	}

	return fmt.Errorf("postgres: %w: %v", domain.ErrStoreUnavailable, err)
}
