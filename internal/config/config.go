package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mark31d/OlympusAirDiary/internal/store"
)

type Config struct {
	Addr     string
	Port     int
	Backend  string
	DBPath   string
	RedisURL string
	TipsPath string
	LogLevel string
	// HTTP
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds and validates a Config from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Addr:            envStr("DIARY_ADDR", "127.0.0.1"),
		Port:            envInt("PORT", 8742),
		Backend:         strings.ToLower(envStr("DIARY_BACKEND", store.KindSQLite)),
		DBPath:          envStr("DIARY_DB_PATH", defaultDBPath()),
		RedisURL:        envStr("REDIS_URL", ""),
		TipsPath:        envStr("DIARY_TIPS_PATH", filepath.Join("configs", "tips.yaml")),
		LogLevel:        strings.ToLower(envStr("LOG_LEVEL", "info")),
		CORSOrigins:     envList("CORS_ORIGINS", []string{"*"}),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// ListenAddr is the host:port the HTTP server binds.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Addr, c.Port)
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	switch c.Backend {
	case store.KindSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DIARY_DB_PATH must not be empty")
		}
	case store.KindRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when DIARY_BACKEND=redis")
		}
	case store.KindMemory:
	default:
		return fmt.Errorf("DIARY_BACKEND must be one of sqlite, redis, memory, got %q", c.Backend)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("data", "diary.db")
	}
	return filepath.Join(home, ".air-moments-diary", "diary.db")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		var out []string
		for _, p := range strings.Split(v, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
