package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/me/prep/internal/store"
	"github.com/me/prep/pkg/api"
)

// Listener observes session state transitions. The user is non-nil
// only in the authenticated state.
type Listener func(state State, user *api.User)

// Manager drives the session lifecycle. All state transitions funnel
// through it, including the forced logout triggered by the API client
// when a credential refresh fails.
type Manager struct {
	client   *api.Client
	st       store.Store
	logger   *slog.Logger
	validate *validator.Validate

	mu        sync.Mutex
	state     State
	user      *api.User
	listeners []Listener
}

// NewManager wires a session manager to the API client and local
// store. It registers itself as the client's expiry handler.
func NewManager(client *api.Client, st store.Store, logger *slog.Logger) *Manager {
	m := &Manager{
		client:   client,
		st:       st,
		logger:   logger.With("component", "session"),
		validate: newValidator(),
		state:    StateUninitialized,
	}
	client.OnSessionExpired(m.expired)
	return m
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// User returns the cached identity, or nil when not authenticated.
func (m *Manager) User() *api.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// IsAuthenticated reports whether a user identity is established.
func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// IsStudent reports whether the current user has the student role.
func (m *Manager) IsStudent() bool { return m.hasRole(api.RoleStudent) }

// IsTeacher reports whether the current user has the teacher role.
func (m *Manager) IsTeacher() bool { return m.hasRole(api.RoleTeacher) }

// IsAdmin reports whether the current user has the admin role.
func (m *Manager) IsAdmin() bool { return m.hasRole(api.RoleAdmin) }

func (m *Manager) hasRole(role string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil && m.user.HasRole(role)
}

// Subscribe registers a listener for state transitions. Listeners are
// invoked synchronously, outside the manager's lock, in registration
// order. Not safe to call concurrently with transitions.
func (m *Manager) Subscribe(fn Listener) {
	m.listeners = append(m.listeners, fn)
}

// Restore examines persisted credentials and settles the session into
// authenticated or anonymous. A reachable server that rejects the
// stored credentials ends the session; an unreachable server keeps the
// cached identity so the app works offline.
func (m *Manager) Restore(ctx context.Context) error {
	m.mu.Lock()
	if m.state != StateUninitialized {
		m.mu.Unlock()
		return nil
	}
	m.state = StateRestoring
	m.mu.Unlock()

	token, err := m.st.GetCredential(ctx, store.KeyAccessToken)
	if err != nil {
		m.transition(StateAnonymous, nil)
		return fmt.Errorf("restore session: %w", err)
	}
	userJSON, err := m.st.GetCredential(ctx, store.KeyUser)
	if err != nil {
		m.transition(StateAnonymous, nil)
		return fmt.Errorf("restore session: %w", err)
	}

	if token == "" || userJSON == "" {
		m.transition(StateAnonymous, nil)
		return nil
	}

	var user api.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		m.logger.Warn("discarding corrupt persisted identity", "error", err)
		if cerr := m.st.ClearCredentials(ctx); cerr != nil {
			m.logger.Error("clear persisted session", "error", cerr)
		}
		m.transition(StateAnonymous, nil)
		return nil
	}

	// Trust the persisted identity up front, then verify it against
	// the server.
	m.transition(StateAuthenticated, &user)

	fresh, err := m.client.CurrentUser(ctx)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) || errors.Is(err, api.ErrSessionExpired) {
			// The server is reachable and rejected the session. The
			// client has already cleared credentials on a failed
			// refresh; make sure the in-memory state follows.
			m.logger.Warn("persisted session rejected by server", "error", err)
			m.Logout(ctx)
			return nil
		}
		m.logger.Debug("identity check unreachable, keeping cached identity", "error", err)
		return nil
	}

	if fresh != nil {
		if err := m.persistUser(ctx, fresh); err != nil {
			m.logger.Error("persist refreshed identity", "error", err)
		}
		m.transition(StateAuthenticated, fresh)
	}
	return nil
}

// Login authenticates and persists the issued credentials. The session
// state is untouched on failure.
func (m *Manager) Login(ctx context.Context, in api.LoginInput) (*api.User, error) {
	if err := checkInput(m.validate, in); err != nil {
		return nil, err
	}

	resp, err := m.client.Login(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := m.persistAuth(ctx, resp); err != nil {
		return nil, err
	}
	m.logger.Info("logged in", "user_id", resp.User.ID, "role", resp.User.Role)
	m.transition(StateAuthenticated, resp.User)
	return resp.User, nil
}

// Register creates an account and, when the backend issues credentials
// with the response, authenticates the new user immediately.
func (m *Manager) Register(ctx context.Context, in api.RegisterInput) (*api.User, error) {
	if err := checkInput(m.validate, in); err != nil {
		return nil, err
	}

	resp, err := m.client.Register(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := m.persistAuth(ctx, resp); err != nil {
		return nil, err
	}
	m.logger.Info("registered", "user_id", resp.User.ID, "role", resp.User.Role)
	m.transition(StateAuthenticated, resp.User)
	return resp.User, nil
}

// Logout ends the session locally. It is idempotent and never fails
// visibly: a storage error is logged but the in-memory session still
// ends.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.st.ClearCredentials(ctx); err != nil {
		m.logger.Error("clear persisted session", "error", err)
	}
	m.transition(StateAnonymous, nil)
}

// UpdateUser replaces the cached identity after a profile change and
// re-persists it so the next restore sees the new profile.
func (m *Manager) UpdateUser(ctx context.Context, user *api.User) error {
	m.mu.Lock()
	if m.state != StateAuthenticated {
		m.mu.Unlock()
		return fmt.Errorf("update user: not authenticated")
	}
	m.mu.Unlock()

	if err := m.persistUser(ctx, user); err != nil {
		return err
	}
	m.transition(StateAuthenticated, user)
	return nil
}

// ChangePassword validates and submits a password change.
func (m *Manager) ChangePassword(ctx context.Context, current, updated, confirm string) error {
	in := struct {
		Current string `json:"current_password" validate:"required"`
		New     string `json:"new_password" validate:"required,min=8"`
		Confirm string `json:"-" validate:"required,eqfield=New"`
	}{current, updated, confirm}

	if err := checkInput(m.validate, in); err != nil {
		return err
	}
	return m.client.ChangePassword(ctx, current, updated)
}

// expired handles the API client's session teardown signal. Persisted
// credentials are already cleared by the client at this point.
func (m *Manager) expired() {
	m.logger.Warn("session expired, switching to anonymous")
	m.transition(StateAnonymous, nil)
}

func (m *Manager) persistAuth(ctx context.Context, resp *api.AuthResponse) error {
	if resp.AccessToken != "" {
		if err := m.st.SetCredential(ctx, store.KeyAccessToken, resp.AccessToken); err != nil {
			return fmt.Errorf("persist access credential: %w", err)
		}
	}
	if resp.RefreshToken != "" {
		if err := m.st.SetCredential(ctx, store.KeyRefreshToken, resp.RefreshToken); err != nil {
			return fmt.Errorf("persist refresh credential: %w", err)
		}
	}
	return m.persistUser(ctx, resp.User)
}

func (m *Manager) persistUser(ctx context.Context, user *api.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	if err := m.st.SetCredential(ctx, store.KeyUser, string(data)); err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}

// transition swaps the state under the lock, then notifies listeners
// outside it so a listener may call back into the manager.
func (m *Manager) transition(state State, user *api.User) {
	m.mu.Lock()
	if m.state == state && m.user == user {
		m.mu.Unlock()
		return
	}
	m.state = state
	m.user = user
	listeners := m.listeners
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(state, user)
	}
}
