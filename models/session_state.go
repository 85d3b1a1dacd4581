package models

// SessionState is the per-request view of who is visiting.
//
// User is non-nil iff the visitor is authenticated. Loading is true while the
// session could not be settled (for example the session store is unreachable);
// consumers must then neither render guarded content nor redirect.
type SessionState struct {
	User    *User
	Loading bool
}

// Anonymous is the settled state of a visitor without a session.
var Anonymous = SessionState{}

// Pending is the unsettled state.
var Pending = SessionState{Loading: true}

// Authenticated returns the settled state for the given user.
func Authenticated(user *User) SessionState {
	return SessionState{User: user}
}

// IsAuthenticated reports whether the session settled with a user.
func (s SessionState) IsAuthenticated() bool {
	return !s.Loading && s.User != nil
}

// IsAnonymous reports whether the session settled without a user.
func (s SessionState) IsAnonymous() bool {
	return !s.Loading && s.User == nil
}
