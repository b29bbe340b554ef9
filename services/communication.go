package services

import (
	"context"
	"fmt"

	"vesta_nest/api"
	"vesta_nest/models"
)

// CommunicationService covers contact messages, inquiries, reviews, viewing
// requests and agent contact forms.
type CommunicationService struct {
	client *api.Client
}

func NewCommunicationService(client *api.Client) *CommunicationService {
	return &CommunicationService{client: client}
}

func (s *CommunicationService) CreateContactMessage(ctx context.Context, msg models.ContactMessage) (*models.ContactMessage, error) {
	var env envelope
	if err := s.client.Post(ctx, "/contact-messages", api.RequestOptions{Body: msg}, &env); err != nil {
		return nil, err
	}
	out := msg
	if err := decodeItem(env, "contact_message", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CommunicationService) ListContactMessages(ctx context.Context, page int) ([]models.ContactMessage, error) {
	var env envelope
	opts := api.RequestOptions{Query: map[string]any{"page": optInt(page)}, Auth: true}
	if err := s.client.Get(ctx, "/contact-messages", opts, &env); err != nil {
		return nil, err
	}
	return decodeList[models.ContactMessage](env.Data, "contact_messages")
}

func (s *CommunicationService) CreateInquiry(ctx context.Context, inq models.Inquiry) (*models.Inquiry, error) {
	var env envelope
	if err := s.client.Post(ctx, "/inquiries", api.RequestOptions{Body: inq, Auth: true}, &env); err != nil {
		return nil, err
	}
	out := inq
	if err := decodeItem(env, "inquiry", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CommunicationService) ListInquiries(ctx context.Context, page int) ([]models.Inquiry, error) {
	var env envelope
	opts := api.RequestOptions{Query: map[string]any{"page": optInt(page)}, Auth: true}
	if err := s.client.Get(ctx, "/inquiries", opts, &env); err != nil {
		return nil, err
	}
	return decodeList[models.Inquiry](env.Data, "inquiries")
}

// CreateReview requires a logged-in user.
func (s *CommunicationService) CreateReview(ctx context.Context, review models.Review) (*models.Review, error) {
	if review.Rating < 1 || review.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5, got %d", review.Rating)
	}

	var env envelope
	if err := s.client.Post(ctx, "/reviews", api.RequestOptions{Body: review, Auth: true}, &env); err != nil {
		return nil, err
	}
	out := review
	if err := decodeItem(env, "review", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CommunicationService) PropertyReviews(ctx context.Context, propertyID int64) ([]models.Review, error) {
	var env envelope
	if err := s.client.Get(ctx, fmt.Sprintf("/reviews/property/%d", propertyID), api.RequestOptions{}, &env); err != nil {
		return nil, err
	}
	return decodeList[models.Review](env.Data, "reviews")
}

func (s *CommunicationService) ScheduleViewing(ctx context.Context, req models.ViewingRequest) (*models.ViewingRequest, error) {
	var env envelope
	if err := s.client.Post(ctx, "/schedule-viewings", api.RequestOptions{Body: req, Auth: true}, &env); err != nil {
		return nil, err
	}
	out := req
	if err := decodeItem(env, "viewing", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CommunicationService) ContactAgent(ctx context.Context, req models.AgentContact) (*models.AgentContact, error) {
	var env envelope
	if err := s.client.Post(ctx, "/contact-agents", api.RequestOptions{Body: req, Auth: true}, &env); err != nil {
		return nil, err
	}
	out := req
	if err := decodeItem(env, "contact", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
