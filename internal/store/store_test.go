package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *SQLiteKV {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	kv := NewSQLiteKV(db)
	t.Cleanup(func() { kv.Close() })
	return kv
}

// exerciseKV checks the behavior every backend shares.
func exerciseKV(t *testing.T, kv Backend) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		v, found, err := kv.Get(ctx, "missing")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if found || v != "" {
			t.Fatalf("expected not found, got %q", v)
		}
	})

	t.Run("set then get", func(t *testing.T) {
		if err := kv.Set(ctx, "k", `["a"]`); err != nil {
			t.Fatalf("set: %v", err)
		}
		v, found, err := kv.Get(ctx, "k")
		if err != nil || !found {
			t.Fatalf("expected value, got found=%v err=%v", found, err)
		}
		if v != `["a"]` {
			t.Fatalf("expected [\"a\"], got %q", v)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		_ = kv.Set(ctx, "k", "1")
		_ = kv.Set(ctx, "k", "2")
		v, _, _ := kv.Get(ctx, "k")
		if v != "2" {
			t.Fatalf("expected 2, got %q", v)
		}
	})

	t.Run("empty value is found", func(t *testing.T) {
		_ = kv.Set(ctx, "blank", "")
		_, found, err := kv.Get(ctx, "blank")
		if err != nil || !found {
			t.Fatalf("expected empty value to be found, got found=%v err=%v", found, err)
		}
	})

	t.Run("ping", func(t *testing.T) {
		if err := kv.Ping(ctx); err != nil {
			t.Fatalf("ping: %v", err)
		}
	})
}

func TestSQLiteKV(t *testing.T) {
	kv := setupTestDB(t)
	if kv.Name() != KindSQLite {
		t.Fatalf("expected name sqlite, got %q", kv.Name())
	}
	exerciseKV(t, kv)
}

func TestSQLiteReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "diary.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	kv := NewSQLiteKV(db)
	if err := kv.Set(ctx, "points", "42"); err != nil {
		t.Fatalf("set: %v", err)
	}
	kv.Close()

	// Migrations run again on every open.
	db, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()

	has, err := columnExists(db.DB, "kv", "updated_at")
	if err != nil || !has {
		t.Fatalf("expected updated_at column, got %v err=%v", has, err)
	}
	v, found, err := NewSQLiteKV(db).Get(ctx, "points")
	if err != nil || !found || v != "42" {
		t.Fatalf("expected 42 after reopen, got %q found=%v err=%v", v, found, err)
	}
}

func TestMemoryKV(t *testing.T) {
	kv := NewMemoryKV()
	exerciseKV(t, kv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := kv.Get(ctx, "k"); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestRedisKV(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	kv, err := OpenRedis(context.Background(), url)
	if err != nil {
		t.Fatalf("open redis: %v", err)
	}
	defer kv.Close()
	exerciseKV(t, kv)
}

func TestOpenRedisRequiresURL(t *testing.T) {
	if _, err := OpenRedis(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty url")
	}
	if _, err := OpenRedis(context.Background(), "not-a-url"); err == nil {
		t.Fatal("expected error for bad url")
	}
}

func TestOpenBackend(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		kind     string
		wantName string
		wantErr  bool
	}{
		{name: "sqlite", kind: KindSQLite, wantName: "sqlite"},
		{name: "default is sqlite", kind: "", wantName: "sqlite"},
		{name: "memory", kind: KindMemory, wantName: "memory"},
		{name: "unknown", kind: "postgres", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := OpenBackend(ctx, tt.kind, filepath.Join(t.TempDir(), "d.db"), "")
			if tt.wantErr {
				if err == nil {
					b.Close()
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer b.Close()
			if b.Name() != tt.wantName {
				t.Fatalf("expected %q, got %q", tt.wantName, b.Name())
			}
		})
	}
}
