package presence

import (
	"sync"

	"github.com/samber/lo"
)

// Registry is the single source of truth for which users are currently
// reachable and through which connections. A user may hold several
// simultaneous connections (multiple tabs, multiple devices); a connection
// belongs to at most one user at a time.
//
// All methods are safe for concurrent use. Operations are in-memory only and
// never block on I/O.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]string              // connID -> userID
	users map[string]map[string]struct{} // userID -> set of connIDs
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]string),
		users: make(map[string]map[string]struct{}),
	}
}

// Register adds the mapping userID -> connID. Registering the same connection
// for the same user twice is a no-op. If the connection is already registered
// under a different user, the stale mapping is removed first so a connection
// ID never appears under two users.
func (r *Registry) Register(userID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if owner, ok := r.conns[connID]; ok {
		if owner == userID {
			return
		}
		r.removeLocked(connID, owner)
	}

	r.conns[connID] = userID
	if r.users[userID] == nil {
		r.users[userID] = make(map[string]struct{})
	}
	r.users[userID][connID] = struct{}{}
}

// Unregister removes the mapping for whichever user owns the connection.
// Unregistering an unknown connection is a no-op.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	userID, ok := r.conns[connID]
	if !ok {
		return
	}
	r.removeLocked(connID, userID)
}

// removeLocked deletes a connection entry. Callers must hold the write lock.
func (r *Registry) removeLocked(connID, userID string) {
	delete(r.conns, connID)
	if set := r.users[userID]; set != nil {
		delete(set, connID)
		if len(set) == 0 {
			delete(r.users, userID)
		}
	}
}

// Lookup returns a snapshot of the connection IDs currently registered for
// the user. The returned slice is empty when the user is unreachable; absence
// is not an error.
func (r *Registry) Lookup(userID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.users[userID]
	if !ok {
		return nil
	}
	return lo.Keys(set)
}

// IsOnline reports whether the user has at least one live connection.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users[userID]) > 0
}

// OnlineUsers returns a snapshot of all user IDs with at least one live
// connection.
func (r *Registry) OnlineUsers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Keys(r.users)
}

// Connections returns the total number of registered connections.
func (r *Registry) Connections() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
