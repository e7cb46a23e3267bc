package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	API      APIConfig
	Session  SessionConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Client   ClientConfig
}

type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables limiting
	RateBurst int
	UserAgent string
}

type SessionConfig struct {
	Store  string // "file", "redis", "postgres", "memory"
	File   string
	Secret string // key material for the file store
	Key    string // namespace for shared stores (redis, postgres)
}

type DatabaseConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type ClientConfig struct {
	RefreshInterval time.Duration
	MetricsFile     string
	Debug           bool
	LogLevel        string
}

const (
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

var ErrInvalidTokenStore = errors.New("invalid token store")

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// Load reads configuration from the environment. Variables from the file
// named by SUGGESTLY_ENV_FILE (default ".env") are applied first without
// overriding anything already set; a missing file is not an error.
func Load() (*Config, error) {
	envFile := getEnv("SUGGESTLY_ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL:   getEnv("API_BASE_URL", "http://localhost:8000/api/v1"),
			Timeout:   getEnvDuration("API_TIMEOUT", 30*time.Second),
			RateLimit: getEnvFloat("API_RATE_LIMIT", 10),
			RateBurst: getEnvInt("API_RATE_BURST", 20),
			UserAgent: getEnv("API_USER_AGENT", "suggestly-cli"),
		},
		Session: SessionConfig{
			Store:  getEnv("TOKEN_STORE", StoreFile),
			File:   getEnv("TOKEN_FILE", defaultTokenFile()),
			Secret: getEnv("TOKEN_SECRET", ""),
			Key:    getEnv("SESSION_KEY", "default"),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnvInt("DB_PORT", 5432),
			User:           getEnv("DB_USER", "suggestly"),
			Password:       getEnv("DB_PASSWORD", "suggestly"),
			DBName:         getEnv("DB_NAME", "suggestly"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Client: ClientConfig{
			RefreshInterval: getEnvDuration("REFRESH_INTERVAL", 30*time.Second),
			MetricsFile:     getEnv("METRICS_FILE", ""),
			Debug:           getEnvBool("DEBUG", false),
			LogLevel:        getEnv("LOG_LEVEL", "info"),
		},
	}

	switch cfg.Session.Store {
	case StoreFile, StoreRedis, StorePostgres, StoreMemory:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidTokenStore, cfg.Session.Store)
	}

	return cfg, nil
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".suggestly", "session")
	}
	return filepath.Join(home, ".suggestly", "session")
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
