package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"API_BASE_URL", "API_TIMEOUT", "STORAGE_DRIVER", "SEARCH_BACKEND", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Fatalf("unexpected base URL %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.API.Timeout)
	}
	if cfg.Storage.Driver != StorageSQLite {
		t.Fatalf("expected sqlite driver, got %s", cfg.Storage.Driver)
	}
	if cfg.Search.Backend != SearchLocal {
		t.Fatalf("expected local search backend, got %s", cfg.Search.Backend)
	}
}

func TestLoad_TimeoutSeconds(t *testing.T) {
	t.Setenv("API_TIMEOUT", "5")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("SEARCH_BACKEND", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", cfg.API.Timeout)
	}
}

func TestLoad_RejectsUnknownDrivers(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "floppy")
	t.Setenv("SEARCH_BACKEND", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown storage driver")
	}

	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for postgres without DATABASE_URL")
	}

	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SEARCH_BACKEND", "carrier-pigeon")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown search backend")
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := []byte(`
suggestions:
  - text: Downtown loft
    type: property
    count: 12
popular_searches:
  - query: 3 bedroom house
    count: 40
trending_locations:
  - name: Lekki
    property_count: 120
    growth: 8.5
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if len(cat.Suggestions) != 1 || cat.Suggestions[0].Text != "Downtown loft" {
		t.Fatalf("unexpected suggestions %+v", cat.Suggestions)
	}
	if len(cat.PopularSearches) != 1 || cat.PopularSearches[0].Count != 40 {
		t.Fatalf("unexpected popular searches %+v", cat.PopularSearches)
	}
	if len(cat.TrendingLocations) != 1 || cat.TrendingLocations[0].Growth != 8.5 {
		t.Fatalf("unexpected trending locations %+v", cat.TrendingLocations)
	}
}
