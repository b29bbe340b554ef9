package search

import (
	"testing"

	"vesta_nest/api"
	"vesta_nest/config"
	"vesta_nest/services"
	"vesta_nest/storage"
)

func TestNewBackend(t *testing.T) {
	store := storage.NewMemoryStore()
	client := api.NewClient("http://localhost:8000", nil, nil)

	b, err := NewBackend(config.SearchConfig{Backend: config.SearchLocal}, store, nil)
	if err != nil {
		t.Fatalf("local backend: %v", err)
	}
	if _, ok := b.(*LocalBackend); !ok {
		t.Fatalf("expected *LocalBackend, got %T", b)
	}

	b, err = NewBackend(config.SearchConfig{Backend: config.SearchHTTP}, store, client)
	if err != nil {
		t.Fatalf("http backend: %v", err)
	}
	if _, ok := b.(*services.SearchService); !ok {
		t.Fatalf("expected *services.SearchService, got %T", b)
	}

	if _, err := NewBackend(config.SearchConfig{Backend: config.SearchHTTP}, store, nil); err == nil {
		t.Fatalf("expected error without a client")
	}
	if _, err := NewBackend(config.SearchConfig{Backend: "solr"}, store, client); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
