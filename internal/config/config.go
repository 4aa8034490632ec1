package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// insecureJWTSecret is used when JWT_SECRET is not set. Deployments must
// override it; startup logs a warning when the fallback is active.
const insecureJWTSecret = "your_super_secret_jwt_key_change_this_in_production"

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MigrationsPath  string
}

type RedisConfig struct {
	Addr     string
	Username string
	Password string
	TTL      time.Duration
}

type Config struct {
	App struct {
		Port string
	}
	Postgres PostgresConfig
	JWT      struct {
		Secret string
	}
	Redis RedisConfig
}

// Enabled reports whether a redis cache is configured at all.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// Load reads configuration from the environment, optionally preloading a
// .env file when path is non-empty. Database settings are required.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{}

	cfg.App.Port = getenvDefault("APP_PORT", "8080")

	for _, req := range []struct {
		key string
		dst *string
	}{
		{"DB_HOST", &cfg.Postgres.Host},
		{"DB_PORT", &cfg.Postgres.Port},
		{"DB_USER", &cfg.Postgres.User},
		{"DB_PASSWORD", &cfg.Postgres.Password},
		{"DB_NAME", &cfg.Postgres.DBName},
	} {
		*req.dst = os.Getenv(req.key)
		if *req.dst == "" {
			return nil, fmt.Errorf("%s is required", req.key)
		}
	}

	cfg.Postgres.SSLMode = getenvDefault("DB_SSLMODE", "disable")
	cfg.Postgres.MigrationsPath = getenvDefault("DB_MIGRATIONS_PATH", "migrations")
	cfg.Postgres.MaxConns = 10
	cfg.Postgres.MinConns = 2
	cfg.Postgres.MaxConnLifetime = time.Hour

	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET is not set, falling back to the insecure default")
		cfg.JWT.Secret = insecureJWTSecret
	}

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Username = os.Getenv("REDIS_USERNAME")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	cfg.Redis.TTL = 5 * time.Minute

	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
