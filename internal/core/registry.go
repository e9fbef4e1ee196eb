package core

import (
	"errors"
	"sync"

	"github.com/raghavshulka/ai-draw/internal/utils"
)

// ErrInvalidIdentity is returned by Admit when the identity is missing.
var ErrInvalidIdentity = errors.New("invalid identity")

// DefaultEventBuffer is the per-connection outbound queue size used when the
// caller does not configure one.
const DefaultEventBuffer = 32

// Registry is the concurrency-safe store of live connections and their room
// memberships. Rooms are not materialized: a room exists only as the set of
// connections that joined it, so joining an unknown room simply starts an
// empty group.
//
// Every mutation and every MembersOf snapshot is serialized by a single
// lock, so a broadcaster always observes a fully applied membership state.
// Operations on a connection that was never admitted, or was already
// removed, are silent no-ops: disconnects race with in-flight dispatches
// and must never turn into errors.
type Registry struct {
	mu     sync.RWMutex
	conns  map[*Conn]struct{}
	buffer int
}

// NewRegistry constructs an empty registry. buffer sets the per-connection
// outbound queue size; values below 1 fall back to DefaultEventBuffer.
func NewRegistry(buffer int) *Registry {
	if buffer < 1 {
		buffer = DefaultEventBuffer
	}
	return &Registry{
		conns:  make(map[*Conn]struct{}),
		buffer: buffer,
	}
}

// Admit registers a new connection for a validated identity. The connection
// starts with no room memberships and stays invisible to MembersOf until it
// joins a room.
func (r *Registry) Admit(userID int64, username string) (*Conn, error) {
	if userID <= 0 {
		return nil, ErrInvalidIdentity
	}

	c := newConn(utils.NewID(), userID, username, r.buffer)

	r.mu.Lock()
	r.conns[c] = struct{}{}
	r.mu.Unlock()

	return c, nil
}

// Remove deletes the connection and all its memberships. Idempotent.
func (r *Registry) Remove(c *Conn) {
	if c == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[c]; !ok {
		return
	}
	delete(r.conns, c)
	clear(c.rooms)
}

// Join adds room to the connection's membership set. Joining a room the
// connection is already in, or joining on a removed connection, is a no-op.
func (r *Registry) Join(c *Conn, room string) {
	if c == nil || room == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[c]; !ok {
		return
	}
	c.rooms[room] = struct{}{}
}

// Leave removes room from the connection's membership set. Idempotent.
func (r *Registry) Leave(c *Conn, room string) {
	if c == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[c]; !ok {
		return
	}
	delete(c.rooms, room)
}

// MembersOf returns a point-in-time snapshot of the connections currently in
// room. The returned slice is owned by the caller and does not change when
// memberships mutate afterwards, so it is safe to broadcast over while other
// connections join and leave.
func (r *Registry) MembersOf(room string) []*Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var members []*Conn
	for c := range r.conns {
		if _, ok := c.rooms[room]; ok {
			members = append(members, c)
		}
	}
	return members
}

// SetDisplayName records an optional human-readable label for the
// connection. Last write wins.
func (r *Registry) SetDisplayName(c *Conn, name string) {
	if c == nil || name == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[c]; !ok {
		return
	}
	c.name = name
}

// DisplayName returns the connection's label, falling back to the username
// from its credential when no join has set one.
func (r *Registry) DisplayName(c *Conn) string {
	if c == nil {
		return ""
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if c.name != "" {
		return c.name
	}
	return c.Username
}

// contains reports whether c is still admitted.
func (r *Registry) contains(c *Conn) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.conns[c]
	return ok
}

// Count reports the number of live connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
