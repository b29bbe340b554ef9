package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"vesta_nest/models"
)

type fakeAuth bool

func (a fakeAuth) IsAuthenticated() bool { return bool(a) }

func newTestState(t *testing.T, signedIn bool) (*State, *LocalBackend) {
	t.Helper()
	b, _ := newTestBackend(t)
	return NewState(b, fakeAuth(signedIn)), b
}

func TestState_FilterLifecycle(t *testing.T) {
	s, _ := newTestState(t, false)

	if s.FilterCount() != 0 || s.HasActiveFilters() {
		t.Fatalf("new state should have no active filters")
	}

	s.UpdateFilters(func(f *Filters) {
		f.PropertyType = "house"
		f.PriceRange = [2]float64{800000, 200000}
	})
	f := s.Filters()
	if f.PropertyType != "house" || f.Location != "all" {
		t.Fatalf("update should only touch given fields: %+v", f)
	}
	if f.PriceRange != [2]float64{200000, 800000} {
		t.Fatalf("expected normalized price range, got %v", f.PriceRange)
	}
	if s.FilterCount() != 2 {
		t.Fatalf("expected 2 active filters, got %d", s.FilterCount())
	}

	f.Amenities = append(f.Amenities, 1)
	if len(s.Filters().Amenities) != 0 {
		t.Fatalf("Filters must return a copy")
	}

	s.Reset()
	if s.FilterCount() != 0 || s.Summary() != "All properties" {
		t.Fatalf("reset should restore defaults, got count %d", s.FilterCount())
	}
}

func TestState_SaveToHistoryReloads(t *testing.T) {
	s, _ := newTestState(t, false)
	ctx := context.Background()

	s.UpdateFilters(func(f *Filters) { f.Location = "Yaba" })
	if err := s.SaveToHistory(ctx, "  office ", 7); err != nil {
		t.Fatalf("save history: %v", err)
	}

	h := s.History()
	if len(h) != 1 || h[0].Query != "office" || h[0].Filters.Location != "Yaba" || h[0].ResultsCount != 7 {
		t.Fatalf("unexpected history %+v", h)
	}

	if err := s.ClearHistory(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(s.History()) != 0 {
		t.Fatalf("expected empty history after clear")
	}
}

func TestState_ConcurrentHistorySavesKeepEveryEntry(t *testing.T) {
	s, _ := newTestState(t, false)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.SaveToHistory(ctx, fmt.Sprintf("q%d", i), i); err != nil {
				t.Errorf("save %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	h, err := s.LoadHistory(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(h) != 20 {
		t.Fatalf("expected 20 entries, got %d", len(h))
	}
}

func TestState_SavedSearchesRequireUser(t *testing.T) {
	s, _ := newTestState(t, false)
	ctx := context.Background()

	if _, err := s.SaveSearch(ctx, "mine", ""); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if err := s.DeleteSavedSearch(ctx, "x"); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}

	anon := NewState(s.backend, nil)
	if _, err := anon.SaveSearch(ctx, "mine", ""); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated with nil auth, got %v", err)
	}
}

func TestState_SavedSearchLifecycle(t *testing.T) {
	s, _ := newTestState(t, true)
	ctx := context.Background()

	if _, err := s.SaveSearch(ctx, "x", "hourly"); err == nil {
		t.Fatalf("expected invalid frequency error")
	}

	s.UpdateFilters(func(f *Filters) {
		f.SearchTerm = "pool"
		f.PropertyType = "villa"
	})
	created, err := s.SaveSearch(ctx, "", models.NotifyInstant)
	if err != nil {
		t.Fatalf("save search: %v", err)
	}
	if created.Name != `"pool" villa` || created.Query != "pool" || !created.IsActive {
		t.Fatalf("unexpected saved search %+v", created)
	}
	if len(s.SavedSearches()) != 1 {
		t.Fatalf("expected reload after create")
	}

	upd := *created
	upd.IsActive = false
	if _, err := s.UpdateSavedSearch(ctx, created.ID, upd); err != nil {
		t.Fatalf("update: %v", err)
	}
	if s.SavedSearches()[0].IsActive {
		t.Fatalf("expected reload after update")
	}

	if err := s.DeleteSavedSearch(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(s.SavedSearches()) != 0 {
		t.Fatalf("expected reload after delete")
	}
}
