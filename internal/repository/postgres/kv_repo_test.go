package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/xela07ax/bestcdn-board/internal/domain"
)

func TestSelectQuery_QuotesTable(t *testing.T) {
	got := selectQuery(`edge"kv`)
	want := `SELECT value FROM "edge""kv" WHERE key = $1`
	if got != want {
		t.Fatalf("query=%s, want %s", got, want)
	}
}

func TestClassify(t *testing.T) {
	if err := classify(context.Background(), "ipv4", pgx.ErrNoRows); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Fatalf("no rows -> %v", err)
	}

	pgErr := fmt.Errorf("query: %w", &pgconn.PgError{Code: "42P01", Message: "relation does not exist"})
	err := classify(context.Background(), "ipv4", pgErr)
	if errors.Is(err, domain.ErrStoreUnavailable) || errors.Is(err, domain.ErrKeyNotFound) {
		t.Fatalf("server error must be a per-key failure, got %v", err)
	}

	if err := classify(context.Background(), "ipv4", errors.New("dial tcp: connection refused")); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("network error -> %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, in := range []error{
		fmt.Errorf("timeout: %w", context.DeadlineExceeded),
		errors.New("conn closed"),
	} {
		err := classify(ctx, "ipv4", in)
		if errors.Is(err, domain.ErrStoreUnavailable) {
			t.Fatalf("canceled request %q must not mark the store unavailable, got %v", in, err)
		}
	}
}

// Интеграционный тест: нужен живой Postgres в TEST_DATABASE_URL.
func TestKVRepo_Integration(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	repo, err := NewKVRepo(ctx, url, "edge_kv_test", "", 2)
	if err != nil {
		t.Fatalf("NewKVRepo: %v", err)
	}
	t.Cleanup(repo.Close)

	if err := repo.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	setup := []string{
		`DROP TABLE IF EXISTS edge_kv_test`,
		`CREATE TABLE edge_kv_test (key TEXT PRIMARY KEY, value TEXT NOT NULL)`,
		`INSERT INTO edge_kv_test (key, value) VALUES ('ipv4', '1.1.1.1,4,4,0,10,12,HKG')`,
	}
	for _, q := range setup {
		if _, err := repo.pool.Exec(ctx, q); err != nil {
			t.Fatalf("setup %q: %v", q, err)
		}
	}
	t.Cleanup(func() { _, _ = repo.pool.Exec(context.Background(), `DROP TABLE IF EXISTS edge_kv_test`) })

	got, err := repo.Get(ctx, "ipv4")
	if err != nil || got != "1.1.1.1,4,4,0,10,12,HKG" {
		t.Fatalf("Get=%q, %v", got, err)
	}
	if _, err := repo.Get(ctx, "ipv6"); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Fatalf("missing key err=%v", err)
	}
}
