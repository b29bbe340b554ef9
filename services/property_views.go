package services

import (
	"context"
	"fmt"

	"vesta_nest/api"
	"vesta_nest/models"
)

// PropertyViewService records and reports property page views.
type PropertyViewService struct {
	client *api.Client
}

func NewPropertyViewService(client *api.Client) *PropertyViewService {
	return &PropertyViewService{client: client}
}

// Record logs a view. The token is sent when present so the backend can
// attribute the view; anonymous views are accepted.
func (s *PropertyViewService) Record(ctx context.Context, propertyID int64, source string) (*models.PropertyView, error) {
	body := map[string]any{"property_id": propertyID}
	if source != "" {
		body["source"] = source
	}

	var env envelope
	if err := s.client.Post(ctx, "/property-views", api.RequestOptions{Body: body, Auth: true}, &env); err != nil {
		return nil, err
	}

	view := models.PropertyView{PropertyID: propertyID, Source: source}
	if err := decodeItem(env, "view", &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *PropertyViewService) ForProperty(ctx context.Context, propertyID int64) ([]models.PropertyView, error) {
	var env envelope
	if err := s.client.Get(ctx, fmt.Sprintf("/property-views/property/%d", propertyID), api.RequestOptions{}, &env); err != nil {
		return nil, err
	}
	return decodeList[models.PropertyView](env.Data, "views")
}

func (s *PropertyViewService) MyViews(ctx context.Context) ([]models.PropertyView, error) {
	var env envelope
	if err := s.client.Get(ctx, "/property-views/my-views", api.RequestOptions{Auth: true}, &env); err != nil {
		return nil, err
	}
	return decodeList[models.PropertyView](env.Data, "views")
}

func (s *PropertyViewService) Statistics(ctx context.Context) (*models.ViewStatistics, error) {
	var env envelope
	if err := s.client.Get(ctx, "/property-views/statistics", api.RequestOptions{}, &env); err != nil {
		return nil, err
	}

	var stats models.ViewStatistics
	if err := decodeItem(env, "statistics", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
