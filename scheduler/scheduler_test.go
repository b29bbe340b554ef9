package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vesta_nest/models"
	"vesta_nest/search"
	"vesta_nest/services"
	"vesta_nest/storage"
)

type staticSearches []models.SavedSearch

func (s staticSearches) SavedSearches(ctx context.Context) ([]models.SavedSearch, error) {
	return s, nil
}

type fakeLister struct {
	calls []services.ListParams
	page  *models.PropertyPage
	err   error
}

func (f *fakeLister) List(ctx context.Context, params services.ListParams) (*models.PropertyPage, error) {
	f.calls = append(f.calls, params)
	return f.page, f.err
}

func TestScheduler_CheckCountsNewListings(t *testing.T) {
	store := storage.NewMemoryStore()
	lister := &fakeLister{page: &models.PropertyPage{
		Properties: []models.Property{
			{ID: 1, CreatedAt: "2024-05-03T10:00:00.000000Z"},
			{ID: 2, CreatedAt: "2024-05-02 08:00:00"},
			{ID: 3, CreatedAt: "2024-04-20T10:00:00Z"},
		},
		Pagination: models.Pagination{Total: 3},
	}}

	s := New(staticSearches{}, lister, store)
	s.now = func() time.Time { return time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC) }

	saved := models.SavedSearch{ID: "abc", Name: "villas", Query: "pool", IsActive: true, NotificationFrequency: models.NotifyDaily}
	saved.Filters = search.DefaultFilters()
	saved.Filters.PropertyType = "villa"

	res, err := s.Check(context.Background(), saved)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if res.Matches != 3 || res.NewMatches != 0 {
		t.Fatalf("first run should report no new matches: %+v", res)
	}

	params := lister.calls[0]
	if params.Search != "pool" || params.PropertyType != "villa" || params.PerPage != alertPageSize || params.SortBy != "created_at" {
		t.Fatalf("unexpected list params %+v", params)
	}
	if params.MinPrice != nil || params.MaxPrice != nil || params.Location != "" {
		t.Fatalf("unexpected list params %+v", params)
	}

	store.Set(context.Background(), alertKeyPrefix+"abc", "2024-05-01T00:00:00Z")
	res, err = s.Check(context.Background(), saved)
	if err != nil {
		t.Fatalf("second check: %v", err)
	}
	if res.NewMatches != 2 {
		t.Fatalf("expected 2 new matches, got %d", res.NewMatches)
	}

	raw, ok, _ := store.Get(context.Background(), alertKeyPrefix+"abc")
	if !ok || raw != "2024-05-04T00:00:00Z" {
		t.Fatalf("run time not recorded: %q", raw)
	}
}

func TestScheduler_RunFrequencyFiltersSearches(t *testing.T) {
	lister := &fakeLister{page: &models.PropertyPage{}}
	searches := staticSearches{
		{ID: "1", IsActive: true, NotificationFrequency: models.NotifyDaily},
		{ID: "2", IsActive: true, NotificationFrequency: models.NotifyWeekly},
		{ID: "3", IsActive: false, NotificationFrequency: models.NotifyDaily},
		{ID: "4", IsActive: true},
	}
	s := New(searches, lister, storage.NewMemoryStore())

	results, err := s.RunFrequency(context.Background(), models.NotifyDaily)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(results) != 1 || results[0].SavedSearchID != "1" {
		t.Fatalf("expected only search 1, got %+v", results)
	}

	results, _ = s.TriggerNow(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected both active alerting searches, got %d", len(results))
	}
}

func TestScheduler_CheckFailuresAreSkipped(t *testing.T) {
	lister := &fakeLister{err: errors.New("backend down")}
	searches := staticSearches{{ID: "1", IsActive: true, NotificationFrequency: models.NotifyInstant}}
	s := New(searches, lister, storage.NewMemoryStore())

	results, err := s.RunFrequency(context.Background(), models.NotifyInstant)
	if err != nil {
		t.Fatalf("run should not fail on one search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %+v", results)
	}
}

// gateLister holds every List call until release is closed.
type gateLister struct {
	entered chan string
	release chan struct{}
}

func (g *gateLister) List(ctx context.Context, params services.ListParams) (*models.PropertyPage, error) {
	g.entered <- params.Search
	<-g.release
	return &models.PropertyPage{}, nil
}

func TestScheduler_DifferentFrequenciesOverlap(t *testing.T) {
	lister := &gateLister{entered: make(chan string, 4), release: make(chan struct{})}
	searches := staticSearches{
		{ID: "d", Query: "daily", IsActive: true, NotificationFrequency: models.NotifyDaily},
		{ID: "w", Query: "weekly", IsActive: true, NotificationFrequency: models.NotifyWeekly},
	}
	s := New(searches, lister, storage.NewMemoryStore())

	var wg sync.WaitGroup
	counts := make(map[string]int)
	var mu sync.Mutex
	for _, freq := range []string{models.NotifyDaily, models.NotifyWeekly} {
		wg.Add(1)
		go func(freq string) {
			defer wg.Done()
			results, err := s.RunFrequency(context.Background(), freq)
			if err != nil {
				t.Errorf("run %s: %v", freq, err)
			}
			mu.Lock()
			counts[freq] = len(results)
			mu.Unlock()
		}(freq)
	}

	for i := 0; i < 2; i++ {
		select {
		case <-lister.entered:
		case <-time.After(2 * time.Second):
			close(lister.release)
			wg.Wait()
			t.Fatalf("expected both frequencies to run at once, %d started", i)
		}
	}

	// same job again while daily is still running
	if results, _ := s.RunFrequency(context.Background(), models.NotifyDaily); results != nil {
		t.Fatalf("expected overlapping daily run to be skipped, got %+v", results)
	}

	close(lister.release)
	wg.Wait()
	if counts[models.NotifyDaily] != 1 || counts[models.NotifyWeekly] != 1 {
		t.Fatalf("expected one result per frequency, got %v", counts)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(staticSearches{}, &fakeLister{}, storage.NewMemoryStore())
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if n := len(s.cron.Entries()); n != len(frequencySpecs) {
		t.Fatalf("expected %d cron entries, got %d", len(frequencySpecs), n)
	}
	s.Stop()
}
