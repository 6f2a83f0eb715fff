package progress

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/me/prep/internal/session"
	"github.com/me/prep/internal/store"
	"github.com/me/prep/pkg/api"
)

// stubStore is an in-memory Store for tests.
type stubStore struct {
	creds         map[string]string
	progress      map[int][]api.ProgressRecord
	notifications map[int]*api.NotificationList
}

func newStubStore() *stubStore {
	return &stubStore{
		creds:         map[string]string{},
		progress:      map[int][]api.ProgressRecord{},
		notifications: map[int]*api.NotificationList{},
	}
}

func (s *stubStore) GetCredential(_ context.Context, key string) (string, error) {
	return s.creds[key], nil
}

func (s *stubStore) SetCredential(_ context.Context, key, value string) error {
	s.creds[key] = value
	return nil
}

func (s *stubStore) ClearCredentials(_ context.Context) error {
	s.creds = map[string]string{}
	return nil
}

func (s *stubStore) SaveProgressSnapshot(_ context.Context, userID int, records []api.ProgressRecord) error {
	s.progress[userID] = records
	return nil
}

func (s *stubStore) LoadProgressSnapshot(_ context.Context, userID int) ([]api.ProgressRecord, error) {
	return s.progress[userID], nil
}

func (s *stubStore) SaveNotificationSnapshot(_ context.Context, userID int, list *api.NotificationList) error {
	s.notifications[userID] = list
	return nil
}

func (s *stubStore) LoadNotificationSnapshot(_ context.Context, userID int) (*api.NotificationList, error) {
	return s.notifications[userID], nil
}

func (s *stubStore) Close() error                    { return nil }
func (s *stubStore) Migrate(_ context.Context) error { return nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTracker(t *testing.T, handler http.Handler) (*Tracker, *stubStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	st := newStubStore()
	st.creds[store.KeyAccessToken] = "test-token"
	config := api.DefaultConfig().WithBaseURL(srv.URL)
	client := api.NewClient(config, session.NewCredentials(st, testLogger()), testLogger())
	return NewTracker(client, st, testLogger()), st
}

// progressBackend serves a fixed set of records and notifications.
func progressBackend(records []api.ProgressRecord, list api.NotificationList) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /progress/my-progress", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.ProgressSummary{Progress: records})
	})
	mux.HandleFunc("GET /progress/notifications", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(list)
	})
	return mux
}

func record(subjectID, points, level, streak int) api.ProgressRecord {
	return api.ProgressRecord{
		ID:          subjectID * 100,
		Subject:     &api.Subject{ID: subjectID, Name: "Subject"},
		TotalPoints: points,
		Level:       level,
		StreakDays:  streak,
	}
}

func TestActivation_LoadsUserData(t *testing.T) {
	tr, _ := newTestTracker(t, progressBackend(
		[]api.ProgressRecord{record(1, 50, 1, 2)},
		api.NotificationList{
			Notifications: []api.Notification{{ID: 9, Title: "Welcome"}},
			UnreadCount:   1,
		},
	))

	tr.onSession(session.StateAuthenticated, &api.User{ID: 7})

	if got := tr.Records(); len(got) != 1 || got[0].TotalPoints != 50 {
		t.Errorf("records = %+v", got)
	}
	notifications, unread := tr.Notifications()
	if len(notifications) != 1 || unread != 1 {
		t.Errorf("notifications = %+v, unread = %d", notifications, unread)
	}
}

func TestLogout_ClearsCache(t *testing.T) {
	tr, _ := newTestTracker(t, progressBackend(
		[]api.ProgressRecord{record(1, 50, 1, 2)},
		api.NotificationList{UnreadCount: 3},
	))

	tr.onSession(session.StateAuthenticated, &api.User{ID: 7})
	tr.onSession(session.StateAnonymous, nil)

	if got := tr.Records(); len(got) != 0 {
		t.Errorf("records after logout = %+v, want empty", got)
	}
	if _, unread := tr.Notifications(); unread != 0 {
		t.Errorf("unread after logout = %d, want 0", unread)
	}
	if tr.TotalPoints() != 0 {
		t.Errorf("total points after logout = %d, want 0", tr.TotalPoints())
	}
}

func TestLoadFailure_FallsBackToSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.NewServeMux())
	srv.Close()

	st := newStubStore()
	st.progress[7] = []api.ProgressRecord{record(3, 80, 2, 4)}
	st.notifications[7] = &api.NotificationList{
		Notifications: []api.Notification{{ID: 1, Title: "Cached"}},
		UnreadCount:   1,
	}
	config := api.DefaultConfig().WithBaseURL(srv.URL)
	client := api.NewClient(config, session.NewCredentials(st, testLogger()), testLogger())
	tr := NewTracker(client, st, testLogger())

	tr.onSession(session.StateAuthenticated, &api.User{ID: 7})

	if got := tr.Records(); len(got) != 1 || got[0].TotalPoints != 80 {
		t.Errorf("records = %+v, want snapshot contents", got)
	}
	notifications, unread := tr.Notifications()
	if len(notifications) != 1 || unread != 1 {
		t.Errorf("notifications = %+v, unread = %d, want snapshot contents", notifications, unread)
	}
}

func TestAddPoints_NewSubjectAppends(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /progress/add-points", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]int
		json.NewDecoder(r.Body).Decode(&in)
		json.NewEncoder(w).Encode(map[string]any{
			"progress": record(in["subject_id"], in["points"], 1, 0),
		})
	})
	tr, _ := newTestTracker(t, mux)

	if _, err := tr.AddPoints(context.Background(), 5, 25); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}

	got := tr.Records()
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if got[0].SubjectID() != 5 || got[0].TotalPoints != 25 {
		t.Errorf("record = %+v", got[0])
	}
}

func TestAddPoints_ExistingSubjectMerges(t *testing.T) {
	total := 0
	mux := http.NewServeMux()
	mux.HandleFunc("POST /progress/add-points", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]int
		json.NewDecoder(r.Body).Decode(&in)
		total += in["points"]
		json.NewEncoder(w).Encode(map[string]any{
			"progress": record(in["subject_id"], total, 1, 0),
		})
	})
	tr, _ := newTestTracker(t, mux)

	if _, err := tr.AddPoints(context.Background(), 5, 25); err != nil {
		t.Fatalf("first AddPoints: %v", err)
	}
	if _, err := tr.AddPoints(context.Background(), 5, 15); err != nil {
		t.Fatalf("second AddPoints: %v", err)
	}

	got := tr.Records()
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1 (no duplicate subject entries)", len(got))
	}
	if got[0].TotalPoints != 40 {
		t.Errorf("total points = %d, want 40", got[0].TotalPoints)
	}
}

func TestAddPoints_FailureLeavesCacheUntouched(t *testing.T) {
	tr, _ := newTestTracker(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
	}))

	if _, err := tr.AddPoints(context.Background(), 5, 25); err == nil {
		t.Fatal("expected error")
	}
	if got := tr.Records(); len(got) != 0 {
		t.Errorf("records = %+v, want empty after failed award", got)
	}
}

func TestMarkNotificationRead_DecrementsOnce(t *testing.T) {
	acks := 0
	mux := http.NewServeMux()
	mux.HandleFunc("GET /progress/my-progress", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.ProgressSummary{})
	})
	mux.HandleFunc("GET /progress/notifications", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.NotificationList{
			Notifications: []api.Notification{
				{ID: 1, IsRead: false},
				{ID: 2, IsRead: false},
			},
			UnreadCount: 2,
		})
	})
	mux.HandleFunc("PUT /progress/notifications/{id}/read", func(w http.ResponseWriter, r *http.Request) {
		acks++
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})
	tr, _ := newTestTracker(t, mux)
	tr.onSession(session.StateAuthenticated, &api.User{ID: 7})

	if err := tr.MarkNotificationRead(context.Background(), 1); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}
	if _, unread := tr.Notifications(); unread != 1 {
		t.Errorf("unread = %d, want 1", unread)
	}

	// Marking the same notification again must not decrement further.
	if err := tr.MarkNotificationRead(context.Background(), 1); err != nil {
		t.Fatalf("second MarkNotificationRead: %v", err)
	}
	if _, unread := tr.Notifications(); unread != 1 {
		t.Errorf("unread after repeat = %d, want 1", unread)
	}
	if acks != 2 {
		t.Errorf("server acks = %d, want 2", acks)
	}
}

func TestMarkNotificationRead_NeverBelowZero(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /progress/notifications/{id}/read", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})
	tr, _ := newTestTracker(t, mux)

	if err := tr.MarkNotificationRead(context.Background(), 42); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}
	if _, unread := tr.Notifications(); unread != 0 {
		t.Errorf("unread = %d, want 0", unread)
	}
}

func TestDerivedStats(t *testing.T) {
	tr, _ := newTestTracker(t, progressBackend(
		[]api.ProgressRecord{
			record(1, 50, 2, 2),
			record(2, 125, 4, 9),
			record(3, 0, 0, 4),
		},
		api.NotificationList{},
	))
	tr.onSession(session.StateAuthenticated, &api.User{ID: 7})

	if got := tr.TotalPoints(); got != 175 {
		t.Errorf("TotalPoints = %d, want 175", got)
	}
	if got := tr.MaxStreak(); got != 9 {
		t.Errorf("MaxStreak = %d, want 9", got)
	}
	if got := tr.AverageLevel(); got != 2 {
		t.Errorf("AverageLevel = %d, want 2", got)
	}
}

func TestDerivedStats_Empty(t *testing.T) {
	tr, _ := newTestTracker(t, http.NewServeMux())

	if got := tr.TotalPoints(); got != 0 {
		t.Errorf("TotalPoints = %d, want 0", got)
	}
	if got := tr.AverageLevel(); got != 0 {
		t.Errorf("AverageLevel = %d, want 0", got)
	}
	if got := tr.MaxStreak(); got != 0 {
		t.Errorf("MaxStreak = %d, want 0", got)
	}
}

func TestDerivedStats_AverageRounds(t *testing.T) {
	tr, _ := newTestTracker(t, progressBackend(
		[]api.ProgressRecord{record(1, 0, 2, 0), record(2, 0, 4, 0)},
		api.NotificationList{},
	))
	tr.onSession(session.StateAuthenticated, &api.User{ID: 7})

	if got := tr.AverageLevel(); got != 3 {
		t.Errorf("AverageLevel = %d, want 3", got)
	}
}

func TestLoad_PersistsSnapshot(t *testing.T) {
	tr, st := newTestTracker(t, progressBackend(
		[]api.ProgressRecord{record(1, 50, 1, 2)},
		api.NotificationList{UnreadCount: 0},
	))

	tr.onSession(session.StateAuthenticated, &api.User{ID: 7})

	if snap := st.progress[7]; len(snap) != 1 || snap[0].TotalPoints != 50 {
		t.Errorf("persisted snapshot = %+v", snap)
	}
}
