package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"vesta_nest/models"
	"vesta_nest/search"
	"vesta_nest/services"
	"vesta_nest/storage"
)

const (
	alertKeyPrefix = "vesta_nest.alerts."
	alertPageSize  = 50
)

// Cron specs per notification frequency.
var frequencySpecs = map[string]string{
	models.NotifyInstant: "@every 15m",
	models.NotifyDaily:   "@daily",
	models.NotifyWeekly:  "@weekly",
}

// PropertyLister is the slice of services.PropertyService the alerts need.
type PropertyLister interface {
	List(ctx context.Context, params services.ListParams) (*models.PropertyPage, error)
}

// SavedSearchSource lists the saved searches to check.
type SavedSearchSource interface {
	SavedSearches(ctx context.Context) ([]models.SavedSearch, error)
}

// AlertResult is the outcome of checking one saved search.
type AlertResult struct {
	SavedSearchID string
	Name          string
	Matches       int
	NewMatches    int
	CheckedAt     time.Time
}

// Scheduler re-runs active saved searches on their notification frequency and
// reports how many listings appeared since the previous run.
type Scheduler struct {
	searches   SavedSearchSource
	properties PropertyLister
	store      storage.Store
	cron       *cron.Cron
	logger     *slog.Logger
	now        func() time.Time

	mu      sync.Mutex
	running map[string]bool // by job; "" is TriggerNow
}

func New(searches SavedSearchSource, properties PropertyLister, store storage.Store) *Scheduler {
	return &Scheduler{
		searches:   searches,
		properties: properties,
		store:      store,
		cron:       cron.New(),
		logger:     slog.Default(),
		now:        time.Now,
		running:    make(map[string]bool),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	for freq, spec := range frequencySpecs {
		freq := freq
		_, err := s.cron.AddFunc(spec, func() {
			if _, err := s.RunFrequency(ctx, freq); err != nil {
				s.logger.Error("scheduled alert run failed", "frequency", freq, "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("invalid cron expression %q: %w", spec, err)
		}
	}

	s.logger.Info("starting alert scheduler", "jobs", len(frequencySpecs))
	s.cron.Start()
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// TriggerNow checks every active saved search regardless of frequency.
func (s *Scheduler) TriggerNow(ctx context.Context) ([]AlertResult, error) {
	return s.run(ctx, "", func(models.SavedSearch) bool { return true })
}

// RunFrequency checks the active saved searches with the given frequency.
func (s *Scheduler) RunFrequency(ctx context.Context, freq string) ([]AlertResult, error) {
	return s.run(ctx, freq, func(saved models.SavedSearch) bool {
		return saved.NotificationFrequency == freq
	})
}

// run skips when the same job is still running; different jobs may overlap.
func (s *Scheduler) run(ctx context.Context, job string, want func(models.SavedSearch) bool) ([]AlertResult, error) {
	s.mu.Lock()
	if s.running[job] {
		s.mu.Unlock()
		s.logger.Info("alert run already in progress, skipping", "job", job)
		return nil, nil
	}
	s.running[job] = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.running, job)
		s.mu.Unlock()
	}()

	saved, err := s.searches.SavedSearches(ctx)
	if err != nil {
		return nil, fmt.Errorf("list saved searches: %w", err)
	}

	var results []AlertResult
	for _, ss := range saved {
		if !ss.IsActive || ss.NotificationFrequency == "" || !want(ss) {
			continue
		}
		if ctx.Err() != nil {
			return results, ctx.Err()
		}

		res, err := s.Check(ctx, ss)
		if err != nil {
			s.logger.Warn("saved search check failed", "id", ss.ID, "name", ss.Name, "error", err)
			continue
		}
		results = append(results, *res)
	}
	return results, nil
}

// Check runs one saved search and records the run time.
func (s *Scheduler) Check(ctx context.Context, saved models.SavedSearch) (*AlertResult, error) {
	filters := saved.Filters
	if filters.PriceRange[1] == 0 && filters.Bedrooms[1] == 0 && filters.Bathrooms[1] == 0 && filters.AreaRange[1] == 0 {
		// saved without bounds
		d := search.DefaultFilters()
		filters.PriceRange, filters.Bedrooms, filters.Bathrooms, filters.AreaRange = d.PriceRange, d.Bedrooms, d.Bathrooms, d.AreaRange
	}
	if strings.TrimSpace(filters.SearchTerm) == "" {
		filters.SearchTerm = saved.Query
	}
	params := search.ToListParams(filters, 1, alertPageSize)
	params.SortBy = search.DefaultSortBy
	params.SortOrder = search.DefaultSortOrder

	page, err := s.properties.List(ctx, params)
	if err != nil {
		return nil, err
	}

	lastRun, hasLastRun := s.lastRun(ctx, saved.ID)
	now := s.now()

	res := &AlertResult{
		SavedSearchID: saved.ID,
		Name:          saved.Name,
		Matches:       page.Pagination.Total,
		CheckedAt:     now,
	}
	if res.Matches == 0 {
		res.Matches = len(page.Properties)
	}

	if hasLastRun {
		for _, p := range page.Properties {
			if created, ok := parseBackendTime(p.CreatedAt); ok && created.After(lastRun) {
				res.NewMatches++
			}
		}
	}

	if err := s.store.Set(ctx, alertKeyPrefix+saved.ID, now.UTC().Format(time.RFC3339Nano)); err != nil {
		s.logger.Warn("record alert run", "id", saved.ID, "error", err)
	}

	s.logger.Info("saved search checked",
		"id", saved.ID,
		"name", saved.Name,
		"frequency", saved.NotificationFrequency,
		"matches", res.Matches,
		"new", res.NewMatches)
	return res, nil
}

func (s *Scheduler) lastRun(ctx context.Context, id string) (time.Time, bool) {
	raw, ok, err := s.store.Get(ctx, alertKeyPrefix+id)
	if err != nil {
		s.logger.Warn("read alert run", "id", id, "error", err)
		return time.Time{}, false
	}
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

var backendTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseBackendTime(s string) (time.Time, bool) {
	for _, layout := range backendTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
