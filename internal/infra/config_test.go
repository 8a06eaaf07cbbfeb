package infra

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(t.TempDir())
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(newTestViper(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Port != 8080 || cfg.Server.ReadTimeout != 5*time.Second {
		t.Fatalf("server=%+v", cfg.Server)
	}
	if cfg.Store.Driver != StoreDriverRedis || cfg.Redis.MaxRetries != -1 {
		t.Fatalf("store=%+v redis=%+v", cfg.Store, cfg.Redis)
	}
	d := cfg.Dashboard
	if d.Provider != "Cloudflare" || d.Domain != "cname.example.com" || !d.Wildcard ||
		d.CheckInterval != 30 || d.RefreshInterval != 24 {
		t.Fatalf("dashboard=%+v", d)
	}
	if cfg.Breaker.FailureThreshold != 3 || cfg.Breaker.Timeout != 15*time.Second {
		t.Fatalf("breaker=%+v", cfg.Breaker)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
dashboard:
  provider: Gcore
  domain: edge.example.org
  wildcard: false
  check_interval: 15
store:
  key_prefix: "best:"
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DASHBOARD_REFRESH_INTERVAL", "12")
	t.Setenv("SERVER_PORT", "9000")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	cfg, err := load(v)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	d := cfg.Dashboard
	if d.Provider != "Gcore" || d.Domain != "edge.example.org" || d.Wildcard || d.CheckInterval != 15 {
		t.Fatalf("dashboard=%+v", d)
	}
	if d.RefreshInterval != 12 {
		t.Fatalf("env override refresh_interval=%d", d.RefreshInterval)
	}
	if cfg.Server.Port != 9000 || cfg.Server.Addr() != ":9000" {
		t.Fatalf("server=%+v", cfg.Server)
	}
	if cfg.Store.KeyPrefix != "best:" {
		t.Fatalf("key prefix=%q", cfg.Store.KeyPrefix)
	}
}

func TestLoad_Validation(t *testing.T) {
	t.Run("postgres without url", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", StoreDriverPostgres)
		if _, err := load(newTestViper(t)); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "etcd")
		if _, err := load(newTestViper(t)); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("postgres with url", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", StoreDriverPostgres)
		t.Setenv("DATABASE_URL", "postgres://localhost/edges")
		cfg, err := load(newTestViper(t))
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if cfg.Database.Table != "edge_kv" {
			t.Fatalf("table=%q", cfg.Database.Table)
		}
	})
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		if _, err := NewLogger(LoggerConfig{Level: "debug", Format: format}); err != nil {
			t.Fatalf("format %s: %v", format, err)
		}
	}
	if _, err := NewLogger(LoggerConfig{Level: "loud", Format: "json"}); err == nil {
		t.Fatalf("expected error for bad level")
	}
	if _, err := NewLogger(LoggerConfig{Level: "info", Format: "xml"}); err == nil {
		t.Fatalf("expected error for bad format")
	}
}
