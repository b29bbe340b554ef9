package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"vesta_nest/config"
)

// Store is the client-side key/value persistence used for the session token,
// the cached user and search history. Missing keys return ok=false.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Inspector is implemented by stores that can enumerate and wipe their keys.
// S3Store does not: object names are escaped and cannot be mapped back to keys.
type Inspector interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
	Reset(ctx context.Context) error
}

var (
	_ Inspector = (*MemoryStore)(nil)
	_ Inspector = (*SQLiteStore)(nil)
	_ Inspector = (*PostgresStore)(nil)
)

// Open returns the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.StorageSQLite, "":
		return NewSQLiteStore(cfg.Path)
	case config.StoragePostgres:
		return NewPostgresStore(ctx, cfg.DatabaseURL)
	case config.StorageS3:
		return NewS3Store(ctx, cfg.S3)
	case config.StorageMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// GetJSON decodes the value under key into v.
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and writes it under key, replacing any previous value.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(data))
}
