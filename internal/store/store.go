// Package store persists client state that must survive process
// restarts: session credentials and the last-known progress snapshot
// used for offline dashboards.
package store

import (
	"context"

	"github.com/me/prep/pkg/api"
)

// Credential keys in the persisted key-value area. The session layer is
// the only writer of these keys.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUser         = "user"
)

// Store defines the local persistence layer.
type Store interface {
	// Credential key-value area
	GetCredential(ctx context.Context, key string) (string, error)
	SetCredential(ctx context.Context, key, value string) error
	ClearCredentials(ctx context.Context) error

	// Per-user offline snapshots
	SaveProgressSnapshot(ctx context.Context, userID int, records []api.ProgressRecord) error
	LoadProgressSnapshot(ctx context.Context, userID int) ([]api.ProgressRecord, error)
	SaveNotificationSnapshot(ctx context.Context, userID int, list *api.NotificationList) error
	LoadNotificationSnapshot(ctx context.Context, userID int) (*api.NotificationList, error)

	// Lifecycle
	Close() error
	Migrate(ctx context.Context) error
}
