package search

import (
	"context"
	_ "embed"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"vesta_nest/config"
	"vesta_nest/models"
	"vesta_nest/storage"
)

const (
	HistoryKey      = "vesta_nest.search_history"
	SavedSearchKey  = "vesta_nest.saved_searches"
	MaxHistory      = 50
	defaultLimit    = 10
	topQueriesLimit = 5
)

//go:embed catalog.yaml
var defaultCatalog []byte

func loadCatalog(path string) (*config.Catalog, error) {
	if path != "" {
		return config.LoadCatalog(path)
	}
	return config.ParseCatalog(defaultCatalog)
}

// LocalBackend keeps history and saved searches in client storage and serves
// suggestions from a static catalog. Storage failures degrade to empty lists.
type LocalBackend struct {
	store   storage.Store
	catalog *config.Catalog
	logger  *slog.Logger
	now     func() time.Time

	mu sync.Mutex
}

// NewLocalBackend uses the embedded catalog when catalog is nil.
func NewLocalBackend(store storage.Store, catalog *config.Catalog) *LocalBackend {
	if catalog == nil {
		catalog, _ = config.ParseCatalog(defaultCatalog)
	}
	if catalog == nil {
		catalog = &config.Catalog{}
	}
	return &LocalBackend{
		store:   store,
		catalog: catalog,
		logger:  slog.Default(),
		now:     time.Now,
	}
}

func clampLimit(limit, n int) int {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > n {
		return n
	}
	return limit
}

func (b *LocalBackend) Suggestions(ctx context.Context, query string, limit int) ([]models.SearchSuggestion, error) {
	q := NormalizeText(query)
	out := []models.SearchSuggestion{}
	if q == "" {
		return out, nil
	}

	seen := make(map[string]bool)
	for _, s := range b.catalog.Suggestions {
		if matches(NormalizeText(s.Text), q) {
			seen[NormalizeText(s.Text)] = true
			out = append(out, models.SearchSuggestion{Text: s.Text, Type: s.Type, Count: s.Count})
		}
	}
	for _, loc := range b.catalog.TrendingLocations {
		norm := NormalizeText(loc.Name)
		if !seen[norm] && matches(norm, q) {
			out = append(out, models.SearchSuggestion{Text: loc.Name, Type: "location", Count: loc.PropertyCount})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out[:clampLimit(limit, len(out))], nil
}

func (b *LocalBackend) PopularSearches(ctx context.Context, limit int) ([]models.PopularSearch, error) {
	out := make([]models.PopularSearch, 0, len(b.catalog.PopularSearches))
	for _, p := range b.catalog.PopularSearches {
		out = append(out, models.PopularSearch{Query: p.Query, Count: p.Count})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out[:clampLimit(limit, len(out))], nil
}

func (b *LocalBackend) TrendingLocations(ctx context.Context, limit int) ([]models.TrendingLocation, error) {
	out := make([]models.TrendingLocation, 0, len(b.catalog.TrendingLocations))
	for _, l := range b.catalog.TrendingLocations {
		out = append(out, models.TrendingLocation{Name: l.Name, PropertyCount: l.PropertyCount, Growth: l.Growth})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Growth > out[j].Growth })
	return out[:clampLimit(limit, len(out))], nil
}

func (b *LocalBackend) readHistory(ctx context.Context) []models.SearchHistoryEntry {
	entries := []models.SearchHistoryEntry{}
	if _, err := storage.GetJSON(ctx, b.store, HistoryKey, &entries); err != nil {
		b.logger.Warn("read search history", "error", err)
		return []models.SearchHistoryEntry{}
	}
	if entries == nil {
		entries = []models.SearchHistoryEntry{}
	}
	return entries
}

func (b *LocalBackend) readSaved(ctx context.Context) []models.SavedSearch {
	saved := []models.SavedSearch{}
	if _, err := storage.GetJSON(ctx, b.store, SavedSearchKey, &saved); err != nil {
		b.logger.Warn("read saved searches", "error", err)
		return []models.SavedSearch{}
	}
	if saved == nil {
		saved = []models.SavedSearch{}
	}
	return saved
}

func (b *LocalBackend) write(ctx context.Context, key string, v any) {
	if err := storage.SetJSON(ctx, b.store, key, v); err != nil {
		b.logger.Warn("write search storage", "key", key, "error", err)
	}
}

// History returns entries newest first.
func (b *LocalBackend) History(ctx context.Context) ([]models.SearchHistoryEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.readHistory(ctx), nil
}

// AddHistory prepends entry and drops anything past MaxHistory.
func (b *LocalBackend) AddHistory(ctx context.Context, entry models.SearchHistoryEntry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = b.now()
	}

	entries := append([]models.SearchHistoryEntry{entry}, b.readHistory(ctx)...)
	if len(entries) > MaxHistory {
		entries = entries[:MaxHistory]
	}
	b.write(ctx, HistoryKey, entries)
	return nil
}

func (b *LocalBackend) ClearHistory(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.store.Delete(ctx, HistoryKey); err != nil {
		b.logger.Warn("clear search history", "error", err)
	}
	return nil
}

func (b *LocalBackend) SavedSearches(ctx context.Context) ([]models.SavedSearch, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.readSaved(ctx), nil
}

func (b *LocalBackend) CreateSavedSearch(ctx context.Context, saved models.SavedSearch) (*models.SavedSearch, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	saved.ID = uuid.New().String()
	saved.CreatedAt = now
	saved.UpdatedAt = now

	all := append(b.readSaved(ctx), saved)
	b.write(ctx, SavedSearchKey, all)
	return &saved, nil
}

// UpdateSavedSearch replaces the matching entry in place, keeping its ID and
// creation time, and bumps UpdatedAt.
func (b *LocalBackend) UpdateSavedSearch(ctx context.Context, id string, saved models.SavedSearch) (*models.SavedSearch, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	all := b.readSaved(ctx)
	for i := range all {
		if all[i].ID != id {
			continue
		}
		saved.ID = id
		saved.CreatedAt = all[i].CreatedAt
		saved.UpdatedAt = b.now()
		all[i] = saved
		b.write(ctx, SavedSearchKey, all)
		return &saved, nil
	}
	return nil, ErrSavedSearchNotFound
}

// DeleteSavedSearch is a no-op for unknown ids.
func (b *LocalBackend) DeleteSavedSearch(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	all := b.readSaved(ctx)
	kept := all[:0]
	for _, s := range all {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	if len(kept) != len(all) {
		b.write(ctx, SavedSearchKey, kept)
	}
	return nil
}

func (b *LocalBackend) Analytics(ctx context.Context) (*models.SearchAnalytics, error) {
	b.mu.Lock()
	history := b.readHistory(ctx)
	saved := b.readSaved(ctx)
	b.mu.Unlock()

	out := &models.SearchAnalytics{
		TotalSearches: len(history),
		SavedSearches: len(saved),
		TopQueries:    []models.PopularSearch{},
	}

	for _, s := range saved {
		if s.IsActive && s.NotificationFrequency != "" {
			out.ActiveAlerts++
		}
	}

	if len(history) == 0 {
		return out, nil
	}

	counts := make(map[string]int)
	display := make(map[string]string)
	total := 0
	for _, h := range history {
		total += h.ResultsCount
		key := NormalizeText(h.Query)
		if key == "" {
			continue
		}
		if _, ok := display[key]; !ok {
			display[key] = h.Query
		}
		counts[key]++
	}

	out.UniqueQueries = len(counts)
	out.AverageResults = float64(total) / float64(len(history))
	last := history[0].Timestamp
	out.LastSearchedAt = &last

	for key, n := range counts {
		out.TopQueries = append(out.TopQueries, models.PopularSearch{Query: display[key], Count: n})
	}
	sort.Slice(out.TopQueries, func(i, j int) bool {
		if out.TopQueries[i].Count != out.TopQueries[j].Count {
			return out.TopQueries[i].Count > out.TopQueries[j].Count
		}
		return out.TopQueries[i].Query < out.TopQueries[j].Query
	})
	if len(out.TopQueries) > topQueriesLimit {
		out.TopQueries = out.TopQueries[:topQueriesLimit]
	}
	return out, nil
}
