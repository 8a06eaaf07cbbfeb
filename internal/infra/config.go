package infra

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreDriverRedis    = "redis"
	StoreDriverPostgres = "postgres"
)

// Config — корневая структура конфигурации дашборда.
// Загружается один раз при старте и дальше только читается.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Store     StoreConfig     `mapstructure:"store"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Breaker   BreakerConfig   `mapstructure:"breaker"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

// ServerConfig описывает настройки HTTP-сервера.
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"` // <= 0: без ограничения
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

// Addr возвращает адрес для http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type MetricsConfig struct {
	Addr string `mapstructure:"addr"` // Отдельный порт для Prometheus, пустой выключает
}

// StoreConfig выбирает, откуда читать результаты теста скорости.
type StoreConfig struct {
	Driver          string        `mapstructure:"driver"`     // redis | postgres
	KeyPrefix       string        `mapstructure:"key_prefix"` // Префикс перед ipv4/ipv6/...
	StartupAttempts uint          `mapstructure:"startup_attempts"`
	StartupDelay    time.Duration `mapstructure:"startup_delay"`
}

// RedisConfig описывает подключение к Redis.
type RedisConfig struct {
	Addr       string `mapstructure:"addr"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	MaxRetries int    `mapstructure:"max_retries"` // -1 отключает повторы внутри клиента
}

// DatabaseConfig описывает подключение к PostgreSQL.
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	Table    string `mapstructure:"table"`
	MaxConns int32  `mapstructure:"max_conns"`
}

// BreakerConfig — предохранитель вокруг хранилища.
type BreakerConfig struct {
	MaxRequests      uint32        `mapstructure:"max_requests"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
}

// DashboardConfig — то, что видит пользователь на странице.
type DashboardConfig struct {
	Provider        string `mapstructure:"provider"`
	Domain          string `mapstructure:"domain"`
	Wildcard        bool   `mapstructure:"wildcard"`
	CheckInterval   int    `mapstructure:"check_interval"`   // минуты
	RefreshInterval int    `mapstructure:"refresh_interval"` // часы
	SourceURL       string `mapstructure:"source_url"`
}

// LoggerConfig настраивает поведение zap логгера.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
}

// LoadConfig инициализирует конфигурацию, объединяя значения из файла и ENV.
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	// DASHBOARD_PROVIDER=Gcore перекроет dashboard.provider
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Если файла нет, работаем на ENV и дефолтах
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.rate_limit_rps", 0)
	v.SetDefault("server.rate_limit_burst", 20)

	v.SetDefault("metrics.addr", ":9090")

	v.SetDefault("store.driver", StoreDriverRedis)
	v.SetDefault("store.key_prefix", "")
	v.SetDefault("store.startup_attempts", 5)
	v.SetDefault("store.startup_delay", 1*time.Second)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.max_retries", -1)

	v.SetDefault("database.url", "")
	v.SetDefault("database.table", "edge_kv")
	v.SetDefault("database.max_conns", 5)

	v.SetDefault("breaker.max_requests", 1)
	v.SetDefault("breaker.interval", 0)
	v.SetDefault("breaker.timeout", 15*time.Second)
	v.SetDefault("breaker.failure_threshold", 3)

	v.SetDefault("dashboard.provider", "Cloudflare")
	v.SetDefault("dashboard.domain", "cname.example.com")
	v.SetDefault("dashboard.wildcard", true)
	v.SetDefault("dashboard.check_interval", 30)
	v.SetDefault("dashboard.refresh_interval", 24)
	v.SetDefault("dashboard.source_url", "https://github.com/Lyxot/CloudflareSpeedTestDNS")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreDriverRedis:
	case StoreDriverPostgres:
		if c.Database.URL == "" {
			return errors.New("config: database.url is required for the postgres store")
		}
	default:
		return fmt.Errorf("config: unknown store.driver %q", c.Store.Driver)
	}
	if c.Store.StartupAttempts == 0 {
		c.Store.StartupAttempts = 1
	}
	return nil
}
