package state

import "time"

// State identifies a finite-state-machine step used in conversations.
// Applications define their own closed sets, conventionally "<flow>:<step>".
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
)

// Session stores conversation state, collected-but-uncommitted field values,
// and the last-activity timestamp for a user.
type Session struct {
	State        State
	Temp         map[string]string
	LastActivity time.Time
}

// Manager orchestrates user sessions and FSM state transitions.
type Manager interface {
	Get(userID int64) Session
	Clear(userID int64)

	SetState(userID int64, st State)
	GetState(userID int64) State
	InProgress(userID int64) bool

	SetTemp(userID int64, key, value string)
	GetTemp(userID int64, key string) (string, bool)
	ClearTemp(userID int64, key string)

	// Touch records activity for the user at the given instant.
	Touch(userID int64, now time.Time)
	// ExpireIfIdle clears the session when its last activity is older than
	// ttl and reports whether a reset happened. Sessions that never saw
	// activity are left untouched.
	ExpireIfIdle(userID int64, now time.Time, ttl time.Duration) bool
}
