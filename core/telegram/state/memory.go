package state

import (
	"sync"
	"time"
)

type memoryManager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryManager constructs the in-memory Manager implementation.
func NewMemoryManager() Manager {
	return &memoryManager{
		sessions: make(map[int64]*Session),
	}
}

// Get returns a snapshot of the session for a user, or a default idle session.
func (m *memoryManager) Get(userID int64) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if session, ok := m.sessions[userID]; ok {
		snap := Session{State: session.State, LastActivity: session.LastActivity, Temp: make(map[string]string, len(session.Temp))}
		for k, v := range session.Temp {
			snap.Temp[k] = v
		}
		return snap
	}
	return Session{State: StateIdle, Temp: make(map[string]string)}
}

func (m *memoryManager) locked(userID int64) *Session {
	session, ok := m.sessions[userID]
	if !ok {
		session = &Session{State: StateIdle, Temp: make(map[string]string)}
		m.sessions[userID] = session
	}
	return session
}

// SetState sets the FSM state for the given user.
func (m *memoryManager) SetState(userID int64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locked(userID).State = st
}

// GetState returns the current FSM state of a user, or StateIdle if none exists.
func (m *memoryManager) GetState(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if sess, ok := m.sessions[userID]; ok {
		return sess.State
	}
	return StateIdle
}

// InProgress reports whether the user currently has an active FSM state.
func (m *memoryManager) InProgress(userID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[userID]
	return ok && sess.State != StateIdle
}

// SetTemp stores a collected field value for the given user session.
func (m *memoryManager) SetTemp(userID int64, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locked(userID).Temp[key] = value
}

// GetTemp retrieves a collected field value by key for the given user session.
func (m *memoryManager) GetTemp(userID int64, key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[userID]
	if !ok {
		return "", false
	}
	val, ok := session.Temp[key]
	return val, ok
}

// ClearTemp removes a collected field value for the given user session.
func (m *memoryManager) ClearTemp(userID int64, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions[userID]; ok {
		delete(session.Temp, key)
	}
}

// Clear removes the entire session for a user.
func (m *memoryManager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// Touch records activity for the user at the given instant.
func (m *memoryManager) Touch(userID int64, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locked(userID).LastActivity = now
}

// ExpireIfIdle resets a stale session back to idle, dropping collected data.
func (m *memoryManager) ExpireIfIdle(userID int64, now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[userID]
	if !ok || session.State == StateIdle || session.LastActivity.IsZero() {
		return false
	}
	if now.Sub(session.LastActivity) <= ttl {
		return false
	}
	session.State = StateIdle
	session.Temp = make(map[string]string)
	return true
}
