// Package session is the single source of truth for who is logged in.
// It owns the persisted credential keys and exposes a small state
// machine with restore-on-start semantics.
package session

// State is the session lifecycle state.
type State int

const (
	// StateUninitialized is the initial state before Restore runs.
	StateUninitialized State = iota

	// StateRestoring means persisted credentials are being examined.
	StateRestoring

	// StateAuthenticated means a user identity is established.
	StateAuthenticated

	// StateAnonymous means no user is logged in.
	StateAnonymous
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRestoring:
		return "restoring"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}
