package auth

import (
	"context"
	"log/slog"

	"vesta_nest/storage"
)

const TokenKey = "vesta_nest.auth_token"

// TokenStore persists the bearer token. Storage failures are logged and
// treated as "no token"; a store without backing storage never holds one.
type TokenStore struct {
	store  storage.Store
	logger *slog.Logger
}

func NewTokenStore(store storage.Store) *TokenStore {
	return &TokenStore{store: store, logger: slog.Default()}
}

// Get returns the stored token, or "" when there is none.
func (t *TokenStore) Get(ctx context.Context) string {
	if t == nil || t.store == nil {
		return ""
	}
	token, ok, err := t.store.Get(ctx, TokenKey)
	if err != nil {
		t.logger.Warn("read auth token", "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return token
}

// Set stores token, or removes it when token is empty.
func (t *TokenStore) Set(ctx context.Context, token string) {
	if t == nil || t.store == nil {
		return
	}

	var err error
	if token == "" {
		err = t.store.Delete(ctx, TokenKey)
	} else {
		err = t.store.Set(ctx, TokenKey, token)
	}
	if err != nil {
		t.logger.Warn("write auth token", "error", err)
	}
}

// AuthHeader returns {"Authorization": "Bearer <token>"} or an empty map.
func (t *TokenStore) AuthHeader(ctx context.Context) map[string]string {
	token := t.Get(ctx)
	if token == "" {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + token}
}
