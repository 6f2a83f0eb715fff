package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/prep/pkg/api"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns a Store.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

// --- Credential key-value area ---

// GetCredential returns the stored value for key, or "" when absent.
func (s *SQLiteStore) GetCredential(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM credentials WHERE key = ?`, key,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get credential %s: %w", key, err)
	}
	return value, nil
}

// SetCredential stores or replaces the value for key.
func (s *SQLiteStore) SetCredential(ctx context.Context, key, value string) error {
	s.logger.Debug("sql", "op", "upsert", "table", "credentials", "key", key)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO credentials (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("set credential %s: %w", key, err)
	}
	return nil
}

// ClearCredentials removes every credential key in one statement, so a
// logout or refresh failure never leaves a partial session behind.
func (s *SQLiteStore) ClearCredentials(ctx context.Context) error {
	s.logger.Debug("sql", "op", "delete", "table", "credentials")

	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials`); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// --- Offline snapshots ---

func (s *SQLiteStore) SaveProgressSnapshot(ctx context.Context, userID int, records []api.ProgressRecord) error {
	s.logger.Debug("sql", "op", "upsert", "table", "progress_snapshot", "user_id", userID)

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal progress snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO progress_snapshot (user_id, records, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET records = excluded.records, updated_at = excluded.updated_at`,
		userID, string(data), time.Now().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save progress snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadProgressSnapshot(ctx context.Context, userID int) ([]api.ProgressRecord, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT records FROM progress_snapshot WHERE user_id = ?`, userID,
	).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load progress snapshot: %w", err)
	}

	var records []api.ProgressRecord
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, fmt.Errorf("unmarshal progress snapshot: %w", err)
	}
	return records, nil
}

func (s *SQLiteStore) SaveNotificationSnapshot(ctx context.Context, userID int, list *api.NotificationList) error {
	s.logger.Debug("sql", "op", "upsert", "table", "notification_snapshot", "user_id", userID)

	data, err := json.Marshal(list.Notifications)
	if err != nil {
		return fmt.Errorf("marshal notification snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO notification_snapshot (user_id, notifications, unread_count, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET notifications = excluded.notifications,
		 unread_count = excluded.unread_count, updated_at = excluded.updated_at`,
		userID, string(data), list.UnreadCount, time.Now().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save notification snapshot: %w", err)
	}
	return nil
}

func (s *SQLiteStore) LoadNotificationSnapshot(ctx context.Context, userID int) (*api.NotificationList, error) {
	var data string
	var unread int
	err := s.db.QueryRowContext(ctx,
		`SELECT notifications, unread_count FROM notification_snapshot WHERE user_id = ?`, userID,
	).Scan(&data, &unread)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load notification snapshot: %w", err)
	}

	var notifications []api.Notification
	if err := json.Unmarshal([]byte(data), &notifications); err != nil {
		return nil, fmt.Errorf("unmarshal notification snapshot: %w", err)
	}
	return &api.NotificationList{Notifications: notifications, UnreadCount: unread}, nil
}
