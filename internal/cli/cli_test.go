package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/me/prep/pkg/api"
)

// startTestBackend serves the platform endpoints the CLI touches.
func startTestBackend(t *testing.T) string {
	t.Helper()

	user := &api.User{
		ID:        7,
		Email:     "ana@example.com",
		FirstName: "Ana",
		LastName:  "García",
		FullName:  "Ana García",
		Role:      &api.Role{ID: 1, Name: api.RoleStudent},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in api.LoginInput
		json.NewDecoder(r.Body).Decode(&in)
		if in.Password != "secret-password" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(api.AuthResponse{
			User:         user,
			AccessToken:  "tok-access",
			RefreshToken: "tok-refresh",
		})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-access" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]*api.User{"user": user})
	})
	mux.HandleFunc("GET /progress/my-progress", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.ProgressSummary{
			Progress: []api.ProgressRecord{
				{ID: 1, Subject: &api.Subject{ID: 3, Name: "Mathematics"}, TotalPoints: 150, Level: 2, StreakDays: 5},
			},
		})
	})
	mux.HandleFunc("GET /progress/notifications", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.NotificationList{
			Notifications: []api.Notification{{ID: 1, Title: "Welcome to the platform"}},
			UnreadCount:   1,
		})
	})
	mux.HandleFunc("GET /subjects/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"subjects": []api.Subject{
				{ID: 3, Name: "Mathematics", TotalTopics: 12},
				{ID: 4, Name: "Critical Reading", TotalTopics: 8},
			},
			"total": 2,
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv.URL
}

// runCLI executes the root command with args, capturing stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()

	var errBuf bytes.Buffer
	root.SetOut(&errBuf)
	root.SetErr(&errBuf)
	root.SetArgs(args)

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	execErr := root.Execute()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String(), execErr
}

func TestLoginCommand(t *testing.T) {
	url := startTestBackend(t)
	dataDir := t.TempDir()

	out, err := runCLI(t,
		"--api-url", url, "--data-dir", dataDir,
		"login", "--email", "ana@example.com", "--password", "secret-password",
	)
	if err != nil {
		t.Fatalf("login: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "Logged in as Ana García") {
		t.Errorf("output = %q", out)
	}
}

func TestLoginCommand_BadPassword(t *testing.T) {
	url := startTestBackend(t)
	dataDir := t.TempDir()

	_, err := runCLI(t,
		"--api-url", url, "--data-dir", dataDir,
		"login", "--email", "ana@example.com", "--password", "wrong",
	)
	if err == nil {
		t.Fatal("expected error for bad password")
	}
	if !api.IsAuthError(err) {
		t.Errorf("error = %v, want auth error", err)
	}
}

func TestWhoami_PersistsAcrossRuns(t *testing.T) {
	url := startTestBackend(t)
	dataDir := t.TempDir()

	if _, err := runCLI(t,
		"--api-url", url, "--data-dir", dataDir,
		"login", "--email", "ana@example.com", "--password", "secret-password",
	); err != nil {
		t.Fatalf("login: %v", err)
	}

	// A fresh process restores the session from the local store.
	out, err := runCLI(t, "--api-url", url, "--data-dir", dataDir, "whoami")
	if err != nil {
		t.Fatalf("whoami: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "ana@example.com") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, api.RoleStudent) {
		t.Errorf("output missing role: %q", out)
	}
}

func TestWhoami_NotLoggedIn(t *testing.T) {
	url := startTestBackend(t)

	_, err := runCLI(t, "--api-url", url, "--data-dir", t.TempDir(), "whoami")
	if err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Errorf("error = %v, want not-logged-in", err)
	}
}

func TestLogoutCommand(t *testing.T) {
	url := startTestBackend(t)
	dataDir := t.TempDir()

	if _, err := runCLI(t,
		"--api-url", url, "--data-dir", dataDir,
		"login", "--email", "ana@example.com", "--password", "secret-password",
	); err != nil {
		t.Fatalf("login: %v", err)
	}

	out, err := runCLI(t, "--api-url", url, "--data-dir", dataDir, "logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !strings.Contains(out, "Logged out.") {
		t.Errorf("output = %q", out)
	}

	if _, err := runCLI(t, "--api-url", url, "--data-dir", dataDir, "whoami"); err == nil {
		t.Error("whoami after logout should fail")
	}
}

func TestSubjectsCommand(t *testing.T) {
	url := startTestBackend(t)
	dataDir := t.TempDir()

	if _, err := runCLI(t,
		"--api-url", url, "--data-dir", dataDir,
		"login", "--email", "ana@example.com", "--password", "secret-password",
	); err != nil {
		t.Fatalf("login: %v", err)
	}

	out, err := runCLI(t, "--api-url", url, "--data-dir", dataDir, "subjects")
	if err != nil {
		t.Fatalf("subjects: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "Mathematics") || !strings.Contains(out, "Critical Reading") {
		t.Errorf("output = %q", out)
	}
}

func TestProgressCommand(t *testing.T) {
	url := startTestBackend(t)
	dataDir := t.TempDir()

	if _, err := runCLI(t,
		"--api-url", url, "--data-dir", dataDir,
		"login", "--email", "ana@example.com", "--password", "secret-password",
	); err != nil {
		t.Fatalf("login: %v", err)
	}

	out, err := runCLI(t, "--api-url", url, "--data-dir", dataDir, "progress")
	if err != nil {
		t.Fatalf("progress: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "Mathematics") {
		t.Errorf("output missing subject: %q", out)
	}
	if !strings.Contains(out, "Total points:  150") {
		t.Errorf("output missing totals: %q", out)
	}
}

func TestNotificationsCommand(t *testing.T) {
	url := startTestBackend(t)
	dataDir := t.TempDir()

	if _, err := runCLI(t,
		"--api-url", url, "--data-dir", dataDir,
		"login", "--email", "ana@example.com", "--password", "secret-password",
	); err != nil {
		t.Fatalf("login: %v", err)
	}

	out, err := runCLI(t, "--api-url", url, "--data-dir", dataDir, "notifications")
	if err != nil {
		t.Fatalf("notifications: %v\noutput: %s", err, out)
	}
	if !strings.Contains(out, "Welcome to the platform") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "1 unread") {
		t.Errorf("output missing unread count: %q", out)
	}
}
