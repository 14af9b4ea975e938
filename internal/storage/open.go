package storage

import (
	"context"
	"fmt"
)

const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

type Options struct {
	Driver      string
	RedisURL    string
	PostgresURL string
	Namespace   string
}

// Open builds the backend named by opts.Driver. Postgres gets its table
// created on first use.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "", DriverMemory:
		return NewMemStore(), nil

	case DriverRedis:
		if opts.RedisURL == "" {
			return nil, fmt.Errorf("storage: redis driver requires a redis url")
		}
		client, err := ConnectRedis(opts.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, opts.Namespace), nil

	case DriverPostgres:
		if opts.PostgresURL == "" {
			return nil, fmt.Errorf("storage: postgres driver requires a postgres url")
		}
		db, err := OpenPostgres(opts.PostgresURL)
		if err != nil {
			return nil, err
		}
		s := NewPostgresStore(db)
		if err := s.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("storage: unknown driver %q", opts.Driver)
	}
}
