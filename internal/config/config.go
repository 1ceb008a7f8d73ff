// Package config загружает конфигурацию сервиса: config.toml, затем .env и переменные окружения SALON_*
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения
const EnvPrefix = "SALON"

// ErrInvalidConfig возвращается при некорректных значениях конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Server        ServerConfig        `toml:"server" envconfig:"SERVER"`
	Database      DatabaseConfig      `toml:"database" envconfig:"DB"`
	Logs          LogsConfig          `toml:"logs" envconfig:"LOGS"`
	Metrics       MetricsConfig       `toml:"metrics" envconfig:"METRICS"`
	Engine        EngineConfig        `toml:"engine" envconfig:"ENGINE"`
	Cache         CacheConfig         `toml:"cache" envconfig:"CACHE"`
	Events        EventsConfig        `toml:"events" envconfig:"EVENTS"`
	RateLimit     RateLimitConfig     `toml:"rate_limit" envconfig:"RATE_LIMIT"`
	ClientService ClientServiceConfig `toml:"client_service" envconfig:"CLIENT_SERVICE"`
}

type ServerConfig struct {
	HTTPPort        int      `toml:"http_port" envconfig:"HTTP_PORT"`
	ReadTimeout     int      `toml:"read_timeout" envconfig:"READ_TIMEOUT"`         // секунды
	WriteTimeout    int      `toml:"write_timeout" envconfig:"WRITE_TIMEOUT"`       // секунды
	IdleTimeout     int      `toml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`         // секунды
	ShutdownTimeout int      `toml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"` // секунды
	AllowedOrigins  []string `toml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
}

type DatabaseConfig struct {
	Host            string `toml:"host" envconfig:"HOST"`
	Port            int    `toml:"port" envconfig:"PORT"`
	User            string `toml:"user" envconfig:"USER"`
	Password        string `toml:"password" envconfig:"PASSWORD"`
	DBName          string `toml:"dbname" envconfig:"NAME"`
	SSLMode         string `toml:"sslmode" envconfig:"SSLMODE"`
	MaxOpenConns    int    `toml:"max_open_conns" envconfig:"MAX_OPEN_CONNS"`
	MaxIdleConns    int    `toml:"max_idle_conns" envconfig:"MAX_IDLE_CONNS"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime" envconfig:"CONN_MAX_LIFETIME"` // секунды
}

// DSN строка подключения для lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file" envconfig:"FILE"`
	Level string `toml:"level" envconfig:"LEVEL"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled" envconfig:"ENABLED"`
	Path        string `toml:"path" envconfig:"PATH"`
	ServiceName string `toml:"service_name" envconfig:"SERVICE_NAME"`
}

// EngineConfig параметры генерации слотов
type EngineConfig struct {
	Workers         int `toml:"workers" envconfig:"WORKERS"`
	SearchTimeoutMs int `toml:"search_timeout_ms" envconfig:"SEARCH_TIMEOUT_MS"`
	MaxCombinations int `toml:"max_combinations" envconfig:"MAX_COMBINATIONS"`
}

// SearchTimeout дедлайн одного поиска
func (c EngineConfig) SearchTimeout() time.Duration {
	return time.Duration(c.SearchTimeoutMs) * time.Millisecond
}

// CacheConfig TTL кэша каталога услуг
type CacheConfig struct {
	CatalogTTL      int `toml:"catalog_ttl" envconfig:"CATALOG_TTL"`           // секунды
	CleanupInterval int `toml:"cleanup_interval" envconfig:"CLEANUP_INTERVAL"` // секунды
}

// EventsConfig публикация событий записей в Redis
type EventsConfig struct {
	Enabled  bool   `toml:"enabled" envconfig:"ENABLED"`
	RedisURL string `toml:"redis_url" envconfig:"REDIS_URL"`
	PoolSize int    `toml:"pool_size" envconfig:"POOL_SIZE"`
}

// RateLimitConfig ограничение частоты поиска слотов
type RateLimitConfig struct {
	Enabled bool    `toml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `toml:"rps" envconfig:"RPS"`
	Burst   int     `toml:"burst" envconfig:"BURST"`
}

// ClientServiceConfig справочник клиентов
type ClientServiceConfig struct {
	URL     string `toml:"url" envconfig:"URL"`
	Timeout int    `toml:"timeout" envconfig:"TIMEOUT"` // секунды
}

// Load читает конфигурацию из файла path и накладывает поверх переменные окружения.
// Отсутствующий файл не ошибка: сервис можно настроить только окружением.
func Load(path string) (*Config, error) {
	cfg := Default()

	// 1. Файл конфигурации
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("config: decode %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: stat %s: %w", path, err)
	}

	// 2. .env (если есть) дополняет окружение, уже заданные переменные не перезаписываются
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	// 3. Переменные окружения SALON_*
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("config: process env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default значения по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
			AllowedOrigins:  []string{"*"},
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "salon_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "salon-booking-service",
		},
		Engine: EngineConfig{
			Workers:         4,
			SearchTimeoutMs: 2000,
			MaxCombinations: 5000,
		},
		Cache: CacheConfig{
			CatalogTTL:      60,
			CleanupInterval: 600,
		},
		Events: EventsConfig{
			RedisURL: "redis://localhost:6379/0",
			PoolSize: 10,
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     20,
			Burst:   40,
		},
		ClientService: ClientServiceConfig{
			URL:     "http://localhost:8081",
			Timeout: 3,
		},
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	switch {
	case c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535:
		return fmt.Errorf("%w: server.http_port must be in 1..65535, got %d", ErrInvalidConfig, c.Server.HTTPPort)
	case c.Database.Host == "" || c.Database.DBName == "":
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	case c.Engine.Workers <= 0:
		return fmt.Errorf("%w: engine.workers must be positive", ErrInvalidConfig)
	case c.Engine.SearchTimeoutMs <= 0:
		return fmt.Errorf("%w: engine.search_timeout_ms must be positive", ErrInvalidConfig)
	case c.Engine.MaxCombinations <= 0:
		return fmt.Errorf("%w: engine.max_combinations must be positive", ErrInvalidConfig)
	case c.Events.Enabled && c.Events.RedisURL == "":
		return fmt.Errorf("%w: events.redis_url is required when events are enabled", ErrInvalidConfig)
	case c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0):
		return fmt.Errorf("%w: rate_limit.rps and rate_limit.burst must be positive", ErrInvalidConfig)
	case c.Metrics.Enabled && c.Metrics.Path == "":
		return fmt.Errorf("%w: metrics.path is required when metrics are enabled", ErrInvalidConfig)
	}
	return nil
}
