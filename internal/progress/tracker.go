// Package progress caches the gamification state (points, levels,
// streaks, notifications) of the currently authenticated user and
// derives aggregate statistics on read.
package progress

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/me/prep/internal/session"
	"github.com/me/prep/internal/store"
	"github.com/me/prep/pkg/api"
)

// Tracker caches progress records and notifications for one user at a
// time. It follows the session: it loads when the session becomes
// authenticated and clears when it becomes anonymous. The epoch counter
// ties every in-flight load to the session generation that started it,
// so a slow response for user A can never land in user B's cache.
type Tracker struct {
	client *api.Client
	st     store.Store
	logger *slog.Logger

	mu            sync.Mutex
	epoch         int
	userID        int
	records       []api.ProgressRecord
	notifications []api.Notification
	unread        int
}

// NewTracker creates a progress tracker. Call Watch to bind it to a
// session manager.
func NewTracker(client *api.Client, st store.Store, logger *slog.Logger) *Tracker {
	return &Tracker{
		client: client,
		st:     st,
		logger: logger.With("component", "progress"),
	}
}

// Watch subscribes the tracker to session transitions.
func (t *Tracker) Watch(sess *session.Manager) {
	sess.Subscribe(t.onSession)
}

func (t *Tracker) onSession(state session.State, user *api.User) {
	switch state {
	case session.StateAuthenticated:
		if user != nil {
			t.activate(user.ID)
		}
	case session.StateAnonymous:
		t.clear()
	}
}

// activate resets the cache for a user and loads their data. Network
// failures degrade to the last persisted snapshot.
func (t *Tracker) activate(userID int) {
	t.mu.Lock()
	t.epoch++
	epoch := t.epoch
	if t.userID != userID {
		t.userID = userID
		t.records = nil
		t.notifications = nil
		t.unread = 0
	}
	t.mu.Unlock()

	t.load(context.Background(), epoch, userID)
}

// clear drops all cached data. Bumping the epoch invalidates any load
// still in flight.
func (t *Tracker) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.epoch++
	t.userID = 0
	t.records = nil
	t.notifications = nil
	t.unread = 0
}

// Refresh re-fetches progress and notifications for the active user.
// Load failures are logged, never propagated: the cache keeps its
// previous (possibly stale) contents.
func (t *Tracker) Refresh(ctx context.Context) {
	t.mu.Lock()
	epoch, userID := t.epoch, t.userID
	t.mu.Unlock()

	if userID == 0 {
		return
	}
	t.load(ctx, epoch, userID)
}

func (t *Tracker) load(ctx context.Context, epoch, userID int) {
	summary, err := t.client.MyProgress(ctx)
	if err != nil {
		t.logger.Warn("load progress failed, falling back to snapshot", "error", err)
		t.loadSnapshots(ctx, epoch, userID)
		return
	}

	list, err := t.client.Notifications(ctx)
	if err != nil {
		t.logger.Warn("load notifications failed", "error", err)
		list = &api.NotificationList{}
	}

	t.mu.Lock()
	if epoch != t.epoch {
		// The session changed while this load was in flight.
		t.mu.Unlock()
		t.logger.Debug("discarding stale progress response", "user_id", userID)
		return
	}
	t.records = summary.Progress
	t.notifications = list.Notifications
	t.unread = list.UnreadCount
	t.mu.Unlock()

	t.saveSnapshots(ctx, userID, summary.Progress, list)
}

// loadSnapshots restores the last persisted state for offline use.
func (t *Tracker) loadSnapshots(ctx context.Context, epoch, userID int) {
	records, err := t.st.LoadProgressSnapshot(ctx, userID)
	if err != nil {
		t.logger.Error("load progress snapshot", "error", err)
		return
	}
	list, err := t.st.LoadNotificationSnapshot(ctx, userID)
	if err != nil {
		t.logger.Error("load notification snapshot", "error", err)
		list = nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if epoch != t.epoch {
		return
	}
	if records != nil {
		t.records = records
	}
	if list != nil {
		t.notifications = list.Notifications
		t.unread = list.UnreadCount
	}
}

func (t *Tracker) saveSnapshots(ctx context.Context, userID int, records []api.ProgressRecord, list *api.NotificationList) {
	if err := t.st.SaveProgressSnapshot(ctx, userID, records); err != nil {
		t.logger.Error("save progress snapshot", "error", err)
	}
	if err := t.st.SaveNotificationSnapshot(ctx, userID, list); err != nil {
		t.logger.Error("save notification snapshot", "error", err)
	}
}

// AddPoints awards points for a subject. On success the returned record
// is merged into the cache by subject identity: updated in place when a
// record for that subject exists, appended otherwise. On failure the
// cache is left untouched and the error is returned.
func (t *Tracker) AddPoints(ctx context.Context, subjectID, points int) (*api.ProgressRecord, error) {
	updated, err := t.client.AddPoints(ctx, subjectID, points)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	merged := false
	for i := range t.records {
		if t.records[i].SubjectID() == updated.SubjectID() {
			t.records[i] = *updated
			merged = true
			break
		}
	}
	if !merged {
		t.records = append(t.records, *updated)
	}
	records := append([]api.ProgressRecord(nil), t.records...)
	userID := t.userID
	t.mu.Unlock()

	t.logger.Info("points awarded", "subject_id", subjectID, "points", points, "total", updated.TotalPoints)

	if userID != 0 {
		if err := t.st.SaveProgressSnapshot(ctx, userID, records); err != nil {
			t.logger.Error("save progress snapshot", "error", err)
		}
	}
	return updated, nil
}

// MarkNotificationRead flips the local read flag and decrements the
// unread counter, then tells the server. A server failure is logged but
// not rolled back; an already-read notification is a no-op locally so
// the counter never goes below zero.
func (t *Tracker) MarkNotificationRead(ctx context.Context, id int) error {
	t.mu.Lock()
	for i := range t.notifications {
		if t.notifications[i].ID == id && !t.notifications[i].IsRead {
			t.notifications[i].IsRead = true
			if t.unread > 0 {
				t.unread--
			}
			break
		}
	}
	t.mu.Unlock()

	if err := t.client.MarkNotificationRead(ctx, id); err != nil {
		t.logger.Warn("mark notification read", "id", id, "error", err)
		return err
	}
	return nil
}

// Records returns a copy of the cached progress records.
func (t *Tracker) Records() []api.ProgressRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]api.ProgressRecord(nil), t.records...)
}

// Notifications returns a copy of the cached notifications and the
// unread count.
func (t *Tracker) Notifications() ([]api.Notification, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]api.Notification(nil), t.notifications...), t.unread
}

// TotalPoints sums points over all cached records.
func (t *Tracker) TotalPoints() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	total := 0
	for _, r := range t.records {
		total += r.TotalPoints
	}
	return total
}

// AverageLevel is the rounded mean level over all cached records, 0
// when the cache is empty.
func (t *Tracker) AverageLevel() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.records) == 0 {
		return 0
	}
	sum := 0
	for _, r := range t.records {
		sum += r.Level
	}
	return int(math.Round(float64(sum) / float64(len(t.records))))
}

// MaxStreak is the longest streak over all cached records, 0 when the
// cache is empty.
func (t *Tracker) MaxStreak() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	best := 0
	for _, r := range t.records {
		if r.StreakDays > best {
			best = r.StreakDays
		}
	}
	return best
}
