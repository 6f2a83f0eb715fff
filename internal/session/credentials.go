package session

import (
	"context"
	"log/slog"

	"github.com/me/prep/internal/store"
)

// Credentials adapts the local store to the API client's credential
// source. Read failures surface as missing credentials and are logged,
// so a broken local database degrades to an anonymous session instead
// of failing every request.
type Credentials struct {
	st     store.Store
	logger *slog.Logger
}

// NewCredentials creates a credential source backed by st.
func NewCredentials(st store.Store, logger *slog.Logger) *Credentials {
	return &Credentials{
		st:     st,
		logger: logger.With("component", "credentials"),
	}
}

// AccessToken returns the persisted access credential, or "".
func (c *Credentials) AccessToken() string {
	return c.read(store.KeyAccessToken)
}

// RefreshToken returns the persisted refresh credential, or "".
func (c *Credentials) RefreshToken() string {
	return c.read(store.KeyRefreshToken)
}

// StoreAccessToken persists a freshly minted access credential.
func (c *Credentials) StoreAccessToken(token string) error {
	return c.st.SetCredential(context.Background(), store.KeyAccessToken, token)
}

// Clear removes all persisted session state.
func (c *Credentials) Clear() error {
	return c.st.ClearCredentials(context.Background())
}

func (c *Credentials) read(key string) string {
	value, err := c.st.GetCredential(context.Background(), key)
	if err != nil {
		c.logger.Error("read credential", "key", key, "error", err)
		return ""
	}
	return value
}
