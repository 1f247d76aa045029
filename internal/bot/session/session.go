package session

import (
	"sync"
)

// State is the current step of a user's guided conversation.
type State int

const (
	StateIdle State = iota
	StateAwaitingPhoto
	StateAwaitingConfirmation
	StateAwaitingFieldValue
	StateAwaitingGoalChoice
	StateAwaitingWeightValue
	StateAwaitingLanguageChoice
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingPhoto:
		return "awaiting_photo"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	case StateAwaitingFieldValue:
		return "awaiting_field_value"
	case StateAwaitingGoalChoice:
		return "awaiting_goal_choice"
	case StateAwaitingWeightValue:
		return "awaiting_weight_value"
	case StateAwaitingLanguageChoice:
		return "awaiting_language_choice"
	}
	return "unknown"
}

// Session tracks one user's FSM position. The meal candidate itself lives in
// the pending registry, never here, so the two can not diverge.
type Session struct {
	State        State
	EditingField string
}

// Store holds sessions for the process lifetime, created lazily on first
// interaction. Handlers for a single user are serialized by the dispatcher;
// the mutex only guards cross-user map access.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[int64]Session)}
}

func (s *Store) Get(userID int64) Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[userID]
}

func (s *Store) SetState(userID int64, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[userID]
	sess.State = state
	if state != StateAwaitingFieldValue {
		sess.EditingField = ""
	}
	s.sessions[userID] = sess
}

func (s *Store) SetEditing(userID int64, field string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = Session{State: StateAwaitingFieldValue, EditingField: field}
}

// Reset returns the user to Idle and drops any editing scratch.
func (s *Store) Reset(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = Session{}
}
