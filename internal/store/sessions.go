package store

import "sync"

// SessionRegistry owns the connection<->user mapping. It keeps a maintained
// bidirectional index so reverse lookups never scan all sessions.
type SessionRegistry interface {
	// Register binds a connection to a user. A later registration for the
	// same user wins: the previous connection's mapping is removed and its
	// id returned so the caller can close the stale socket.
	Register(connID, userID string) (evictedConnID string, evicted bool)
	ResolveConnection(userID string) (connID string, ok bool)
	ResolveUser(connID string) (userID string, ok bool)
	// Unregister removes the mapping for a connection and returns the user
	// that owned it.
	Unregister(connID string) (userID string, ok bool)
	// IsOnline reports whether the user has a live connection. Presence is
	// derived from this, never from a stored flag.
	IsOnline(userID string) bool
}

type sessionRegistry struct {
	mu     sync.RWMutex
	byConn map[string]string
	byUser map[string]string
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() SessionRegistry {
	return &sessionRegistry{
		byConn: make(map[string]string),
		byUser: make(map[string]string),
	}
}

func (r *sessionRegistry) Register(connID, userID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := ""
	if prev, ok := r.byUser[userID]; ok && prev != connID {
		delete(r.byConn, prev)
		evicted = prev
	}
	if prevUser, ok := r.byConn[connID]; ok && prevUser != userID {
		delete(r.byUser, prevUser)
	}
	r.byConn[connID] = userID
	r.byUser[userID] = connID
	return evicted, evicted != ""
}

func (r *sessionRegistry) ResolveConnection(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	connID, ok := r.byUser[userID]
	return connID, ok
}

func (r *sessionRegistry) ResolveUser(connID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	userID, ok := r.byConn[connID]
	return userID, ok
}

func (r *sessionRegistry) Unregister(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.byConn[connID]
	if !ok {
		return "", false
	}
	delete(r.byConn, connID)
	if r.byUser[userID] == connID {
		delete(r.byUser, userID)
	}
	return userID, true
}

func (r *sessionRegistry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byUser[userID]
	return ok
}
