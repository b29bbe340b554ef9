package services

import (
	"context"
	"fmt"

	"vesta_nest/api"
	"vesta_nest/models"
)

type AmenityService struct {
	client *api.Client
}

func NewAmenityService(client *api.Client) *AmenityService {
	return &AmenityService{client: client}
}

func (s *AmenityService) List(ctx context.Context) ([]models.Amenity, error) {
	var env envelope
	if err := s.client.Get(ctx, "/amenities", api.RequestOptions{}, &env); err != nil {
		return nil, err
	}
	return decodeList[models.Amenity](env.Data, "amenities")
}

func (s *AmenityService) Popular(ctx context.Context, limit int) ([]models.Amenity, error) {
	var env envelope
	opts := api.RequestOptions{Query: map[string]any{"limit": optInt(limit)}}
	if err := s.client.Get(ctx, "/amenities/popular", opts, &env); err != nil {
		return nil, err
	}
	return decodeList[models.Amenity](env.Data, "amenities")
}

func (s *AmenityService) Show(ctx context.Context, id int64) (*models.Amenity, error) {
	var env envelope
	if err := s.client.Get(ctx, fmt.Sprintf("/amenities/%d", id), api.RequestOptions{}, &env); err != nil {
		return nil, err
	}

	var a models.Amenity
	if err := decodeItem(env, "amenity", &a); err != nil {
		return nil, err
	}
	return &a, nil
}
