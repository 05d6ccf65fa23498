package store

import (
	"context"
	"sync"
)

// KV is durable key-value storage with simple get/set-by-key semantics.
// Get reports found=false for a key that was never written.
type KV interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Backend is a KV that can be health-checked and released.
type Backend interface {
	KV
	Ping(ctx context.Context) error
	Name() string
	Close() error
}

// MemoryKV keeps values in process memory. Nothing survives a restart.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

func (m *MemoryKV) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryKV) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryKV) Ping(ctx context.Context) error { return ctx.Err() }

func (m *MemoryKV) Name() string { return "memory" }

func (m *MemoryKV) Close() error { return nil }
