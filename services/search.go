package services

import (
	"context"
	"net/url"

	"vesta_nest/api"
	"vesta_nest/models"
)

// SearchService talks to the backend's /search endpoints. History, saved
// searches and analytics are per-user and always send the token.
type SearchService struct {
	client *api.Client
}

func NewSearchService(client *api.Client) *SearchService {
	return &SearchService{client: client}
}

func (s *SearchService) Suggestions(ctx context.Context, query string, limit int) ([]models.SearchSuggestion, error) {
	var env envelope
	opts := api.RequestOptions{Query: map[string]any{"q": optString(query), "limit": optInt(limit)}}
	if err := s.client.Get(ctx, "/search/suggestions", opts, &env); err != nil {
		return nil, err
	}
	return decodeList[models.SearchSuggestion](env.Data, "suggestions")
}

func (s *SearchService) PopularSearches(ctx context.Context, limit int) ([]models.PopularSearch, error) {
	var env envelope
	opts := api.RequestOptions{Query: map[string]any{"limit": optInt(limit)}}
	if err := s.client.Get(ctx, "/search/popular", opts, &env); err != nil {
		return nil, err
	}
	return decodeList[models.PopularSearch](env.Data, "searches")
}

func (s *SearchService) TrendingLocations(ctx context.Context, limit int) ([]models.TrendingLocation, error) {
	var env envelope
	opts := api.RequestOptions{Query: map[string]any{"limit": optInt(limit)}}
	if err := s.client.Get(ctx, "/search/trending-locations", opts, &env); err != nil {
		return nil, err
	}
	return decodeList[models.TrendingLocation](env.Data, "locations")
}

func (s *SearchService) History(ctx context.Context) ([]models.SearchHistoryEntry, error) {
	var env envelope
	if err := s.client.Get(ctx, "/search/history", api.RequestOptions{Auth: true}, &env); err != nil {
		return nil, err
	}
	return decodeList[models.SearchHistoryEntry](env.Data, "history")
}

func (s *SearchService) AddHistory(ctx context.Context, entry models.SearchHistoryEntry) error {
	return s.client.Post(ctx, "/search/history", api.RequestOptions{Body: entry, Auth: true}, nil)
}

func (s *SearchService) ClearHistory(ctx context.Context) error {
	return s.client.Delete(ctx, "/search/history", api.RequestOptions{Auth: true}, nil)
}

func (s *SearchService) SavedSearches(ctx context.Context) ([]models.SavedSearch, error) {
	var env envelope
	if err := s.client.Get(ctx, "/search/saved", api.RequestOptions{Auth: true}, &env); err != nil {
		return nil, err
	}
	return decodeList[models.SavedSearch](env.Data, "saved_searches")
}

func (s *SearchService) CreateSavedSearch(ctx context.Context, saved models.SavedSearch) (*models.SavedSearch, error) {
	var env envelope
	if err := s.client.Post(ctx, "/search/saved", api.RequestOptions{Body: saved, Auth: true}, &env); err != nil {
		return nil, err
	}
	out := saved
	if err := decodeItem(env, "saved_search", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SearchService) UpdateSavedSearch(ctx context.Context, id string, saved models.SavedSearch) (*models.SavedSearch, error) {
	var env envelope
	path := "/search/saved/" + url.PathEscape(id)
	if err := s.client.Put(ctx, path, api.RequestOptions{Body: saved, Auth: true}, &env); err != nil {
		return nil, err
	}
	out := saved
	out.ID = id
	if err := decodeItem(env, "saved_search", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SearchService) DeleteSavedSearch(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/search/saved/"+url.PathEscape(id), api.RequestOptions{Auth: true}, nil)
}

func (s *SearchService) Analytics(ctx context.Context) (*models.SearchAnalytics, error) {
	var env envelope
	if err := s.client.Get(ctx, "/search/analytics", api.RequestOptions{Auth: true}, &env); err != nil {
		return nil, err
	}
	var out models.SearchAnalytics
	if err := decodeItem(env, "analytics", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
