/*
Package session tracks the login identity bound to each live connection.

A Session associates a connection ID with a username and a resolved avatar URL.
The Registry holds all current sessions in insertion/update order, which is the
order clients see in the presence list.
*/
package session

import "minichat/internal/app/avatar"

// Session is the login identity currently bound to a connection.
// Fields use JSON tags matching the wire protocol's user list entries.
type Session struct {
	// ID is the opaque connection identifier that owns this session.
	ID string `json:"id"`

	// Username is the display name chosen at login.
	Username string `json:"username"`

	// Avatar is the URL resolved for the username.
	Avatar string `json:"avatar"`
}

// Registry is the process-wide set of sessions, keyed by connection ID for
// removal and by username for merge on login.
//
// The Registry is not safe for concurrent use. The chat hub owns it and
// serializes every mutating operation together with the history buffer.
type Registry struct {
	sessions []Session
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Login binds username to connID and returns the resulting session.
//
// If a session with the same username already exists, its connection ID and
// avatar are updated in place: the latest login wins, and the previous
// connection no longer owns the session (but is not disconnected). Usernames
// are not validated; an empty name produces a degenerate but valid session.
func (r *Registry) Login(connID, username string) Session {
	resolved := avatar.Resolve(username)

	for i := range r.sessions {
		if r.sessions[i].Username == username {
			r.sessions[i].ID = connID
			r.sessions[i].Avatar = resolved
			return r.sessions[i]
		}
	}

	sess := Session{
		ID:       connID,
		Username: username,
		Avatar:   resolved,
	}
	r.sessions = append(r.sessions, sess)

	return sess
}

// Remove deletes the session owned by connID. It is a no-op when no session
// matches, which happens when a connection disconnects before logging in or
// after its username was taken over by a newer connection.
func (r *Registry) Remove(connID string) {
	for i := range r.sessions {
		if r.sessions[i].ID == connID {
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			return
		}
	}
}

// FindByConnectionID returns the session owned by connID, if any.
func (r *Registry) FindByConnectionID(connID string) (Session, bool) {
	for i := range r.sessions {
		if r.sessions[i].ID == connID {
			return r.sessions[i], true
		}
	}
	return Session{}, false
}

// ListAll returns a copy of all sessions in insertion/update order.
func (r *Registry) ListAll() []Session {
	out := make([]Session, len(r.sessions))
	copy(out, r.sessions)
	return out
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	return len(r.sessions)
}
