package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"keystack/database"
)

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = database.DriverSQLite
	DriverMySQL  = database.DriverMySQL
	DriverRedis  = "redis"
)

// Config selects and configures a token-storage adapter.
type Config struct {
	Driver        string
	Path          string
	Passphrase    string
	DSN           string
	Name          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// Open builds the adapter named by cfg.Driver. An empty driver yields nil:
// the SDK then runs without token storage.
func Open(ctx context.Context, cfg Config) (TokenStorageAdapter, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "none":
		return nil, nil
	case DriverMemory:
		return NewMemoryAdapter(), nil
	case DriverFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("file token storage requires a path")
		}
		return NewFileAdapter(cfg.Path, cfg.Passphrase), nil
	case DriverSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = cfg.Path
		}
		return openSQL(ctx, DriverSQLite, dsn, cfg.Name)
	case DriverMySQL:
		return openSQL(ctx, DriverMySQL, cfg.DSN, cfg.Name)
	case DriverRedis:
		a, err := OpenRedisAdapter(ctx, &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.Name, cfg.TTL)
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown token storage driver %q", cfg.Driver)
	}
}

func openSQL(ctx context.Context, driver, dsn, name string) (TokenStorageAdapter, error) {
	a, err := OpenSQLAdapter(ctx, driver, dsn, name)
	if err != nil {
		return nil, err
	}
	return a, nil
}
