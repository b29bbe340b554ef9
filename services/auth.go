package services

import (
	"context"
	"encoding/json"
	"fmt"

	"vesta_nest/api"
	"vesta_nest/models"
)

// AuthService wraps the /auth endpoints.
type AuthService struct {
	client *api.Client
}

func NewAuthService(client *api.Client) *AuthService {
	return &AuthService{client: client}
}

// authPayload covers both envelope shapes the backend produces: token and user
// nested under data, or at the top level.
type authPayload struct {
	Token       string          `json:"token"`
	AccessToken string          `json:"access_token"`
	User        *models.User    `json:"user"`
	Data        json.RawMessage `json:"data"`
}

func decodeAuthPayload(raw []byte) (*models.AuthResult, error) {
	var top authPayload
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}

	result := &models.AuthResult{}

	if !isNull(top.Data) {
		var nested authPayload
		if err := json.Unmarshal(top.Data, &nested); err == nil {
			result.Token = firstNonEmpty(nested.Token, nested.AccessToken)
			result.User = nested.User
		}
	}

	if result.Token == "" {
		result.Token = firstNonEmpty(top.Token, top.AccessToken)
	}
	if result.User == nil {
		result.User = top.User
	}
	return result, nil
}

// decodeUserPayload finds the user in data.user, data, user, or the top level.
func decodeUserPayload(raw []byte) (*models.User, error) {
	auth, err := decodeAuthPayload(raw)
	if err != nil {
		return nil, err
	}
	if auth.User != nil {
		return auth.User, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode user response: %w", err)
	}
	candidate := env.Data
	if isNull(candidate) {
		candidate = raw
	}

	var user models.User
	if err := json.Unmarshal(candidate, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	if user.ID == 0 && user.Email == "" {
		return nil, fmt.Errorf("decode user: response has no user")
	}
	return &user, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (s *AuthService) authCall(ctx context.Context, method, path string, body any, auth bool) (*models.AuthResult, error) {
	var raw json.RawMessage
	if err := s.client.Request(ctx, method, path, api.RequestOptions{Body: body, Auth: auth}, &raw); err != nil {
		return nil, err
	}
	return decodeAuthPayload(raw)
}

func (s *AuthService) messageCall(ctx context.Context, path string, body any, auth bool) (*models.MessageResponse, error) {
	var resp models.MessageResponse
	if err := s.client.Post(ctx, path, api.RequestOptions{Body: body, Auth: auth}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	return s.authCall(ctx, "POST", "/auth/register", req, false)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResult, error) {
	return s.authCall(ctx, "POST", "/auth/login", req, false)
}

func (s *AuthService) Profile(ctx context.Context) (*models.User, error) {
	var raw json.RawMessage
	if err := s.client.Get(ctx, "/auth/profile", api.RequestOptions{Auth: true}, &raw); err != nil {
		return nil, err
	}
	return decodeUserPayload(raw)
}

// ProfileWithToken loads the profile for a token that is not stored yet.
func (s *AuthService) ProfileWithToken(ctx context.Context, token string) (*models.User, error) {
	var raw json.RawMessage
	opts := api.RequestOptions{Headers: map[string]string{"Authorization": "Bearer " + token}}
	if err := s.client.Get(ctx, "/auth/profile", opts, &raw); err != nil {
		return nil, err
	}
	return decodeUserPayload(raw)
}

func (s *AuthService) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	var raw json.RawMessage
	if err := s.client.Put(ctx, "/auth/profile", api.RequestOptions{Body: update, Auth: true}, &raw); err != nil {
		return nil, err
	}
	return decodeUserPayload(raw)
}

func (s *AuthService) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (*models.MessageResponse, error) {
	return s.messageCall(ctx, "/auth/change-password", req, true)
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*models.MessageResponse, error) {
	return s.messageCall(ctx, "/auth/forgot-password", map[string]string{"email": email}, false)
}

func (s *AuthService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (*models.MessageResponse, error) {
	return s.messageCall(ctx, "/auth/reset-password", req, false)
}

// VerifyEmail confirms the emailed OTP. Some deployments log the user in on
// success, so the result may carry a token.
func (s *AuthService) VerifyEmail(ctx context.Context, req models.VerifyEmailRequest) (*models.AuthResult, error) {
	return s.authCall(ctx, "POST", "/auth/verify-email", req, false)
}

func (s *AuthService) ResendOTP(ctx context.Context, email string) (*models.MessageResponse, error) {
	return s.messageCall(ctx, "/auth/resend-email-otp", map[string]string{"email": email}, false)
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.client.Post(ctx, "/auth/logout", api.RequestOptions{Auth: true}, nil)
}
