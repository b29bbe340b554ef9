package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"vesta_nest/api"
	"vesta_nest/auth"
	"vesta_nest/models"
	"vesta_nest/services"
	"vesta_nest/storage"
)

const UserKey = "vesta_nest.user"

// Manager is the single owner of the signed-in user. The token lives in the
// TokenStore; the user is cached in storage so it survives restarts.
type Manager struct {
	auth   *services.AuthService
	tokens *auth.TokenStore
	store  storage.Store
	logger *slog.Logger

	mu      sync.RWMutex
	user    *models.User
	pending int
}

func NewManager(authService *services.AuthService, tokens *auth.TokenStore, store storage.Store) *Manager {
	return &Manager{
		auth:   authService,
		tokens: tokens,
		store:  store,
		logger: slog.Default(),
	}
}

// Restore loads the persisted user. A user without a token is discarded.
func (m *Manager) Restore(ctx context.Context) {
	if m.tokens.Get(ctx) == "" {
		m.clearLocal(ctx)
		return
	}
	if m.store == nil {
		return
	}

	var user models.User
	ok, err := storage.GetJSON(ctx, m.store, UserKey, &user)
	if err != nil {
		m.logger.Warn("restore session user", "error", err)
		return
	}
	if !ok {
		return
	}

	m.mu.Lock()
	m.user = &user
	m.mu.Unlock()
}

// User returns a copy of the signed-in user, or nil.
func (m *Manager) User() *models.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user != nil
}

// Loading reports whether any session call is in flight.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pending > 0
}

func (m *Manager) begin() func() {
	m.mu.Lock()
	m.pending++
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.pending--
		m.mu.Unlock()
	}
}

func (m *Manager) setUser(ctx context.Context, user *models.User) {
	if user == nil {
		return
	}
	u := *user
	m.mu.Lock()
	m.user = &u
	m.mu.Unlock()

	if m.store == nil {
		return
	}
	if err := storage.SetJSON(ctx, m.store, UserKey, u); err != nil {
		m.logger.Warn("persist session user", "error", err)
	}
}

// signIn stores the token and user from a successful auth call, fetching the
// profile with the new token when the response carried no user. Nothing is
// stored unless both are in hand. It returns false when the backend issued no
// token.
func (m *Manager) signIn(ctx context.Context, res *models.AuthResult) (bool, error) {
	if res == nil || res.Token == "" {
		return false, nil
	}
	if res.User == nil {
		user, err := m.auth.ProfileWithToken(ctx, res.Token)
		if err != nil {
			return false, fmt.Errorf("load profile: %w", err)
		}
		res.User = user
	}
	m.tokens.Set(ctx, res.Token)
	m.setUser(ctx, res.User)
	return true, nil
}

func (m *Manager) clearLocal(ctx context.Context) {
	m.tokens.Set(ctx, "")

	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()

	if m.store == nil {
		return
	}
	if err := m.store.Delete(ctx, UserKey); err != nil {
		m.logger.Warn("clear session user", "error", err)
	}
}

func (m *Manager) Login(ctx context.Context, email, password string) (*models.User, error) {
	done := m.begin()
	defer done()

	res, err := m.auth.Login(ctx, models.LoginRequest{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return nil, err
	}
	ok, err := m.signIn(ctx, res)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("login: response carried no token")
	}
	m.logger.Info("signed in", "user_id", res.User.ID)
	return m.User(), nil
}

// Signup registers an account. When the backend requires email verification
// it issues no token; the result then has an empty Token and no session is
// started.
func (m *Manager) Signup(ctx context.Context, req models.RegisterRequest) (*models.AuthResult, error) {
	if req.Password != req.PasswordConfirmation {
		return nil, fmt.Errorf("signup: passwords do not match")
	}

	done := m.begin()
	defer done()

	req.Email = strings.TrimSpace(req.Email)
	res, err := m.auth.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	ok, err := m.signIn(ctx, res)
	if err != nil {
		return nil, err
	}
	if ok {
		m.logger.Info("signed up", "email", req.Email)
	} else {
		m.logger.Info("signup pending verification", "email", req.Email)
	}
	return res, nil
}

// VerifyEmail confirms the OTP and starts a session when a token comes back.
func (m *Manager) VerifyEmail(ctx context.Context, email, otp string) (*models.AuthResult, error) {
	done := m.begin()
	defer done()

	res, err := m.auth.VerifyEmail(ctx, models.VerifyEmailRequest{Email: strings.TrimSpace(email), OTP: strings.TrimSpace(otp)})
	if err != nil {
		return nil, err
	}
	if _, err := m.signIn(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (m *Manager) ResendOTP(ctx context.Context, email string) (*models.MessageResponse, error) {
	done := m.begin()
	defer done()
	return m.auth.ResendOTP(ctx, strings.TrimSpace(email))
}

func (m *Manager) ForgotPassword(ctx context.Context, email string) (*models.MessageResponse, error) {
	done := m.begin()
	defer done()
	return m.auth.ForgotPassword(ctx, strings.TrimSpace(email))
}

func (m *Manager) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) (*models.MessageResponse, error) {
	if req.Password != req.PasswordConfirmation {
		return nil, fmt.Errorf("reset password: passwords do not match")
	}

	done := m.begin()
	defer done()
	return m.auth.ResetPassword(ctx, req)
}

// Refresh reloads the profile. A 401 ends the local session.
func (m *Manager) Refresh(ctx context.Context) (*models.User, error) {
	done := m.begin()
	defer done()

	user, err := m.auth.Profile(ctx)
	if err != nil {
		if api.StatusOf(err) == http.StatusUnauthorized {
			m.logger.Info("session expired")
			m.clearLocal(ctx)
		}
		return nil, err
	}
	m.setUser(ctx, user)
	return m.User(), nil
}

func (m *Manager) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	done := m.begin()
	defer done()

	user, err := m.auth.UpdateProfile(ctx, update)
	if err != nil {
		return nil, err
	}
	m.setUser(ctx, user)
	return m.User(), nil
}

func (m *Manager) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (*models.MessageResponse, error) {
	if req.NewPassword != req.NewPasswordConfirmation {
		return nil, fmt.Errorf("change password: passwords do not match")
	}

	done := m.begin()
	defer done()
	return m.auth.ChangePassword(ctx, req)
}

// Logout tells the backend when a token is held, then always clears the
// local session. Backend failures are logged only.
func (m *Manager) Logout(ctx context.Context) {
	done := m.begin()
	defer done()

	if m.tokens.Get(ctx) != "" {
		if err := m.auth.Logout(ctx); err != nil {
			m.logger.Warn("backend logout failed", "error", err)
		}
	}
	m.clearLocal(ctx)
	m.logger.Info("signed out")
}
