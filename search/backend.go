package search

import (
	"context"
	"errors"
	"fmt"

	"vesta_nest/api"
	"vesta_nest/config"
	"vesta_nest/models"
	"vesta_nest/services"
	"vesta_nest/storage"
)

var (
	ErrNotAuthenticated    = errors.New("search: saved searches require a signed-in user")
	ErrSavedSearchNotFound = errors.New("search: saved search not found")
)

// Backend stores search history and saved searches and serves suggestion data.
type Backend interface {
	Suggestions(ctx context.Context, query string, limit int) ([]models.SearchSuggestion, error)
	PopularSearches(ctx context.Context, limit int) ([]models.PopularSearch, error)
	TrendingLocations(ctx context.Context, limit int) ([]models.TrendingLocation, error)

	History(ctx context.Context) ([]models.SearchHistoryEntry, error)
	AddHistory(ctx context.Context, entry models.SearchHistoryEntry) error
	ClearHistory(ctx context.Context) error

	SavedSearches(ctx context.Context) ([]models.SavedSearch, error)
	CreateSavedSearch(ctx context.Context, saved models.SavedSearch) (*models.SavedSearch, error)
	UpdateSavedSearch(ctx context.Context, id string, saved models.SavedSearch) (*models.SavedSearch, error)
	DeleteSavedSearch(ctx context.Context, id string) error

	Analytics(ctx context.Context) (*models.SearchAnalytics, error)
}

var (
	_ Backend = (*LocalBackend)(nil)
	_ Backend = (*services.SearchService)(nil)
)

// NewBackend returns the backend selected by cfg.Backend.
func NewBackend(cfg config.SearchConfig, store storage.Store, client *api.Client) (Backend, error) {
	switch cfg.Backend {
	case config.SearchLocal, "":
		catalog, err := loadCatalog(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		return NewLocalBackend(store, catalog), nil
	case config.SearchHTTP:
		if client == nil {
			return nil, fmt.Errorf("search backend %q needs an API client", cfg.Backend)
		}
		return services.NewSearchService(client), nil
	default:
		return nil, fmt.Errorf("unknown search backend %q", cfg.Backend)
	}
}
