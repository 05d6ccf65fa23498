package store

import (
	"context"
	"fmt"
)

// Backend kinds accepted by OpenBackend.
const (
	KindSQLite = "sqlite"
	KindRedis  = "redis"
	KindMemory = "memory"
)

// OpenBackend opens the durable storage selected by kind.
func OpenBackend(ctx context.Context, kind, dbPath, redisURL string) (Backend, error) {
	switch kind {
	case KindSQLite, "":
		db, err := Open(dbPath)
		if err != nil {
			return nil, err
		}
		return NewSQLiteKV(db), nil
	case KindRedis:
		return OpenRedis(ctx, redisURL)
	case KindMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}
