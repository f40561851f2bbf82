package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("LOCK_DRIVER", "")
	t.Setenv("REDIS_DB", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Storage.Driver != StorageMemory {
		t.Fatalf("expected memory storage by default, got %q", cfg.Storage.Driver)
	}
	if cfg.Storage.LockDriver != LockLocal {
		t.Fatalf("expected local lock by default, got %q", cfg.Storage.LockDriver)
	}
	if cfg.Worker.KPISnapshotSchedule == "" {
		t.Fatalf("expected default KPI schedule")
	}
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid REDIS_DB")
	}
}

func TestLoadRequiresDSNForPostgres(t *testing.T) {
	t.Setenv("REDIS_DB", "0")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("POSTGRES_DSN", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when postgres selected without DSN")
	}
}

func TestMalformedIntFallsBack(t *testing.T) {
	t.Setenv("REDIS_DB", "0")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "soon")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.RequestTimeout() != 30*time.Second {
		t.Fatalf("expected fallback timeout, got %s", cfg.App.RequestTimeout())
	}
}
