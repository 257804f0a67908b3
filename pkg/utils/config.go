package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	GuardDriverLocal = "local"
	GuardDriverRedis = "redis"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Guard    GuardConfig
	Redis    RedisConfig
}

type AppConfig struct {
	Name        string
	Port        string
	Debug       bool
	LogPath     string
	StoreDriver string
	// MemoryTrips seeds the in-memory store, entries are "<trip-uuid>=<capacity>"
	MemoryTrips []string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	AutoMigrate bool
	LockTimeout time.Duration
}

type GuardConfig struct {
	Driver      string
	LockTimeout time.Duration
	Retries     int
	LockTTL     time.Duration
}

type RedisConfig struct {
	URL           string
	NotifyChannel string
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "dive-booking")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("STORE_DRIVER", StoreDriverPostgres)
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("DB_LOCK_TIMEOUT", "2s")
	v.SetDefault("GUARD_DRIVER", GuardDriverLocal)
	v.SetDefault("GUARD_LOCK_TIMEOUT", "3s")
	v.SetDefault("GUARD_RETRIES", 3)
	v.SetDefault("GUARD_LOCK_TTL", "10s")
	v.SetDefault("NOTIFY_CHANNEL", "booking.promoted")

	// .env is optional, the environment alone is enough
	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Port:        v.GetString("PORT"),
			Debug:       v.GetBool("DEBUG"),
			LogPath:     v.GetString("LOG_PATH"),
			StoreDriver: v.GetString("STORE_DRIVER"),
			MemoryTrips: v.GetStringSlice("MEMORY_TRIPS"),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_NAME"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
			LockTimeout: v.GetDuration("DB_LOCK_TIMEOUT"),
		},
		Guard: GuardConfig{
			Driver:      v.GetString("GUARD_DRIVER"),
			LockTimeout: v.GetDuration("GUARD_LOCK_TIMEOUT"),
			Retries:     v.GetInt("GUARD_RETRIES"),
			LockTTL:     v.GetDuration("GUARD_LOCK_TTL"),
		},
		Redis: RedisConfig{
			URL:           v.GetString("REDIS_URL"),
			NotifyChannel: v.GetString("NOTIFY_CHANNEL"),
		},
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.App.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return errors.New("STORE_DRIVER must be postgres or memory")
	}
	switch c.Guard.Driver {
	case GuardDriverLocal:
	case GuardDriverRedis:
		if c.Redis.URL == "" {
			return errors.New("GUARD_DRIVER=redis requires REDIS_URL")
		}
	default:
		return errors.New("GUARD_DRIVER must be local or redis")
	}
	if c.Guard.Retries < 1 {
		return errors.New("GUARD_RETRIES must be at least 1")
	}
	if c.Guard.LockTimeout <= 0 {
		return errors.New("GUARD_LOCK_TIMEOUT must be positive")
	}
	return nil
}
