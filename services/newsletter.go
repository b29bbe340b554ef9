package services

import (
	"context"

	"vesta_nest/api"
	"vesta_nest/models"
)

type NewsletterService struct {
	client *api.Client
}

func NewNewsletterService(client *api.Client) *NewsletterService {
	return &NewsletterService{client: client}
}

func (s *NewsletterService) Subscribe(ctx context.Context, sub models.NewsletterSubscription) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	if err := s.client.Post(ctx, "/newsletter/subscribe", api.RequestOptions{Body: sub}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *NewsletterService) Status(ctx context.Context, email string) (*models.NewsletterStatus, error) {
	var env envelope
	opts := api.RequestOptions{Query: map[string]any{"email": optString(email)}}
	if err := s.client.Get(ctx, "/newsletter/status", opts, &env); err != nil {
		return nil, err
	}

	status := models.NewsletterStatus{Email: email}
	if err := decodeItem(env, "subscription", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (s *NewsletterService) UpdatePreferences(ctx context.Context, sub models.NewsletterSubscription) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	if err := s.client.Post(ctx, "/newsletter/update-preferences", api.RequestOptions{Body: sub}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *NewsletterService) Unsubscribe(ctx context.Context, email string) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	body := map[string]string{"email": email}
	if err := s.client.Post(ctx, "/newsletter/unsubscribe", api.RequestOptions{Body: body}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
