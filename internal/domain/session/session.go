package session

import "sync"

// UserInfo is the identity record held for a signed-in user.
type UserInfo struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// State is a snapshot of the session container.
type State struct {
	UserInfo *UserInfo `json:"user_info"`
	Loading  bool      `json:"loading"`
	Err      string    `json:"error,omitempty"`
}

// Store is the session state container. Each mutation is applied atomically;
// reads return copies so callers never hold live references.
type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{}
}

// SetUser records a signed-in identity, clearing loading and error state.
func (s *Store) SetUser(info UserInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{UserInfo: &info}
}

// SignOut drops the identity and resets loading and error state.
func (s *Store) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
}

// SetLoading flags an identity resolution in flight.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = loading
}

// SetError records a user-facing failure message and clears loading.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = msg
	s.state.Loading = false
}

// ClearError drops the failure message.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = ""
}

// Current returns the signed-in identity, false when signed out.
func (s *Store) Current() (UserInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.UserInfo == nil {
		return UserInfo{}, false
	}
	return *s.state.UserInfo, true
}

// Snapshot returns a copy of the full session state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.state
	if s.state.UserInfo != nil {
		info := *s.state.UserInfo
		out.UserInfo = &info
	}
	return out
}
