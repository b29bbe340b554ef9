package search

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"vesta_nest/models"
)

// Authenticator reports whether a user is signed in.
type Authenticator interface {
	IsAuthenticated() bool
}

// State holds the current filters plus cached history and saved searches.
// Every mutation is followed by a reload from the backend, and mutate+reload
// pairs on one State run one at a time.
type State struct {
	backend Backend
	auth    Authenticator

	ops sync.Mutex // serializes backend mutate+reload

	mu      sync.RWMutex
	filters Filters
	history []models.SearchHistoryEntry
	saved   []models.SavedSearch
}

func NewState(backend Backend, auth Authenticator) *State {
	return &State{
		backend: backend,
		auth:    auth,
		filters: DefaultFilters(),
		history: []models.SearchHistoryEntry{},
		saved:   []models.SavedSearch{},
	}
}

// Filters returns a copy of the current filters.
func (s *State) Filters() Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters.Clone()
}

// SetFilters replaces the filters wholesale.
func (s *State) SetFilters(f Filters) {
	f = f.Clone()
	f.Normalize()
	s.mu.Lock()
	s.filters = f
	s.mu.Unlock()
}

// UpdateFilters applies fn to a copy of the current filters and stores the result.
func (s *State) UpdateFilters(fn func(*Filters)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.filters.Clone()
	fn(&f)
	f.Normalize()
	s.filters = f
}

func (s *State) Reset() {
	s.SetFilters(DefaultFilters())
}

func (s *State) HasActiveFilters() bool { return HasActiveFilters(s.Filters()) }
func (s *State) FilterCount() int       { return FilterCount(s.Filters()) }
func (s *State) Summary() string        { return Summary(s.Filters()) }

// History returns the cached history, newest first.
func (s *State) History() []models.SearchHistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.SearchHistoryEntry(nil), s.history...)
}

// SavedSearches returns the cached saved searches.
func (s *State) SavedSearches() []models.SavedSearch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.SavedSearch(nil), s.saved...)
}

// SaveToHistory records query with a snapshot of the current filters.
func (s *State) SaveToHistory(ctx context.Context, query string, resultsCount int) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	entry := models.SearchHistoryEntry{
		Query:        strings.TrimSpace(query),
		Filters:      s.Filters(),
		ResultsCount: resultsCount,
	}
	if err := s.backend.AddHistory(ctx, entry); err != nil {
		return fmt.Errorf("save search history: %w", err)
	}
	_, err := s.loadHistory(ctx)
	return err
}

func (s *State) LoadHistory(ctx context.Context) ([]models.SearchHistoryEntry, error) {
	s.ops.Lock()
	defer s.ops.Unlock()
	return s.loadHistory(ctx)
}

func (s *State) loadHistory(ctx context.Context) ([]models.SearchHistoryEntry, error) {
	entries, err := s.backend.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("load search history: %w", err)
	}
	if entries == nil {
		entries = []models.SearchHistoryEntry{}
	}
	s.mu.Lock()
	s.history = entries
	s.mu.Unlock()
	return append([]models.SearchHistoryEntry(nil), entries...), nil
}

func (s *State) ClearHistory(ctx context.Context) error {
	s.ops.Lock()
	defer s.ops.Unlock()

	if err := s.backend.ClearHistory(ctx); err != nil {
		return fmt.Errorf("clear search history: %w", err)
	}
	_, err := s.loadHistory(ctx)
	return err
}

func (s *State) LoadSavedSearches(ctx context.Context) ([]models.SavedSearch, error) {
	s.ops.Lock()
	defer s.ops.Unlock()
	return s.loadSaved(ctx)
}

func (s *State) loadSaved(ctx context.Context) ([]models.SavedSearch, error) {
	saved, err := s.backend.SavedSearches(ctx)
	if err != nil {
		return nil, fmt.Errorf("load saved searches: %w", err)
	}
	if saved == nil {
		saved = []models.SavedSearch{}
	}
	s.mu.Lock()
	s.saved = saved
	s.mu.Unlock()
	return append([]models.SavedSearch(nil), saved...), nil
}

func (s *State) requireUser() error {
	if s.auth == nil || !s.auth.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

// SaveSearch stores the current filters under name. frequency may be empty
// to disable alerts.
func (s *State) SaveSearch(ctx context.Context, name, frequency string) (*models.SavedSearch, error) {
	if err := requireFrequency(frequency); err != nil {
		return nil, err
	}
	if err := s.requireUser(); err != nil {
		return nil, err
	}

	s.ops.Lock()
	defer s.ops.Unlock()

	f := s.Filters()
	name = strings.TrimSpace(name)
	if name == "" {
		name = Summary(f)
	}
	created, err := s.backend.CreateSavedSearch(ctx, models.SavedSearch{
		Name:                  name,
		Query:                 strings.TrimSpace(f.SearchTerm),
		Filters:               f,
		IsActive:              true,
		NotificationFrequency: frequency,
	})
	if err != nil {
		return nil, fmt.Errorf("save search: %w", err)
	}
	if _, err := s.loadSaved(ctx); err != nil {
		return created, err
	}
	return created, nil
}

// UpdateSavedSearch rewrites the saved search with id.
func (s *State) UpdateSavedSearch(ctx context.Context, id string, saved models.SavedSearch) (*models.SavedSearch, error) {
	if err := requireFrequency(saved.NotificationFrequency); err != nil {
		return nil, err
	}
	if err := s.requireUser(); err != nil {
		return nil, err
	}

	s.ops.Lock()
	defer s.ops.Unlock()

	updated, err := s.backend.UpdateSavedSearch(ctx, id, saved)
	if err != nil {
		return nil, fmt.Errorf("update saved search %s: %w", id, err)
	}
	if _, err := s.loadSaved(ctx); err != nil {
		return updated, err
	}
	return updated, nil
}

func (s *State) DeleteSavedSearch(ctx context.Context, id string) error {
	if err := s.requireUser(); err != nil {
		return err
	}

	s.ops.Lock()
	defer s.ops.Unlock()

	if err := s.backend.DeleteSavedSearch(ctx, id); err != nil {
		return fmt.Errorf("delete saved search %s: %w", id, err)
	}
	_, err := s.loadSaved(ctx)
	return err
}

func requireFrequency(freq string) error {
	switch freq {
	case "", models.NotifyInstant, models.NotifyDaily, models.NotifyWeekly:
		return nil
	}
	return fmt.Errorf("unknown notification frequency %q", freq)
}
