package services

import (
	"context"
	"fmt"
	"log/slog"

	"vesta_nest/api"
	"vesta_nest/models"
)

// ListParams are the filter and pagination parameters accepted by GET /properties.
// Zero values and nil pointers are left out of the query string.
type ListParams struct {
	Page         int
	PerPage      int
	Search       string
	PropertyType string
	PriceType    string
	Status       string
	City         string
	Location     string
	MinPrice     *float64
	MaxPrice     *float64
	MinBedrooms  *int
	MaxBedrooms  *int
	MinBathrooms *int
	MaxBathrooms *int
	MinArea      *float64
	MaxArea      *float64
	Amenities    []int64
	Featured     *bool
	MinRating    *float64
	SortBy       string
	SortOrder    string
}

func (p ListParams) Query() map[string]any {
	q := map[string]any{
		"page":          optInt(p.Page),
		"per_page":      optInt(p.PerPage),
		"search":        optString(p.Search),
		"property_type": optString(p.PropertyType),
		"price_type":    optString(p.PriceType),
		"status":        optString(p.Status),
		"city":          optString(p.City),
		"location":      optString(p.Location),
		"min_price":     p.MinPrice,
		"max_price":     p.MaxPrice,
		"min_bedrooms":  p.MinBedrooms,
		"max_bedrooms":  p.MaxBedrooms,
		"min_bathrooms": p.MinBathrooms,
		"max_bathrooms": p.MaxBathrooms,
		"min_area":      p.MinArea,
		"max_area":      p.MaxArea,
		"featured":      p.Featured,
		"min_rating":    p.MinRating,
		"sort_by":       optString(p.SortBy),
		"sort_order":    optString(p.SortOrder),
	}
	if len(p.Amenities) > 0 {
		q["amenities[]"] = p.Amenities
	}
	return q
}

// PropertyService wraps the /properties endpoints.
type PropertyService struct {
	client *api.Client
}

func NewPropertyService(client *api.Client) *PropertyService {
	return &PropertyService{client: client}
}

// List fetches one page and flattens data.properties / data.pagination.
func (s *PropertyService) List(ctx context.Context, params ListParams) (*models.PropertyPage, error) {
	var env envelope
	if err := s.client.Get(ctx, "/properties", api.RequestOptions{Query: params.Query()}, &env); err != nil {
		return nil, err
	}

	page := &models.PropertyPage{Properties: []models.Property{}}
	if err := decodeData(env, "properties", &page.Properties); err != nil {
		return nil, err
	}
	if err := decodeData(env, "pagination", &page.Pagination); err != nil {
		return nil, err
	}
	return page, nil
}

// ListAll follows pagination until the last page or maxPages (0 = no cap).
func (s *PropertyService) ListAll(ctx context.Context, params ListParams, maxPages int) ([]models.Property, error) {
	var all []models.Property
	if params.Page < 1 {
		params.Page = 1
	}

	for fetched := 0; maxPages == 0 || fetched < maxPages; fetched++ {
		page, err := s.List(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", params.Page, err)
		}

		all = append(all, page.Properties...)
		slog.Debug("properties page fetched", "page", params.Page, "count", len(page.Properties), "total", len(all))

		if len(page.Properties) == 0 || !page.Pagination.HasNext() {
			break
		}
		params.Page = page.Pagination.CurrentPage + 1
	}

	return all, nil
}

// Show fetches one property and unwraps data.property.
func (s *PropertyService) Show(ctx context.Context, id int64) (*models.Property, error) {
	var env envelope
	if err := s.client.Get(ctx, fmt.Sprintf("/properties/%d", id), api.RequestOptions{}, &env); err != nil {
		return nil, err
	}

	var p models.Property
	if err := decodeData(env, "property", &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Featured returns featured properties; limit 0 leaves the backend default.
func (s *PropertyService) Featured(ctx context.Context, limit int) ([]models.Property, error) {
	var env envelope
	opts := api.RequestOptions{Query: map[string]any{"limit": optInt(limit)}}
	if err := s.client.Get(ctx, "/properties/featured", opts, &env); err != nil {
		return nil, err
	}

	props := []models.Property{}
	if err := decodeData(env, "properties", &props); err != nil {
		return nil, err
	}
	return props, nil
}

func (s *PropertyService) Statistics(ctx context.Context) (*models.PropertyStatistics, error) {
	var env envelope
	if err := s.client.Get(ctx, "/properties/statistics", api.RequestOptions{}, &env); err != nil {
		return nil, err
	}

	var stats models.PropertyStatistics
	if err := decodeData(env, "", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// MediaURL resolves a property image path against the API origin.
func (s *PropertyService) MediaURL(path string) string {
	return s.client.MediaURL(path)
}
