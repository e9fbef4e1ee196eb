package core

// Conn is one live authenticated socket session as seen by the core layer.
// UserID and Username come from the validated credential and never change;
// the display name and room set are owned by the Registry and must only be
// touched through it.
type Conn struct {
	ID       string
	UserID   int64
	Username string

	name  string
	rooms map[string]struct{}

	events chan *Event
}

func newConn(id string, userID int64, username string, buffer int) *Conn {
	return &Conn{
		ID:       id,
		UserID:   userID,
		Username: username,
		rooms:    make(map[string]struct{}),
		events:   make(chan *Event, buffer),
	}
}

// Events is the outbound stream for this connection. The channel is never
// closed; consumers stop draining when their transport context ends.
func (c *Conn) Events() <-chan *Event {
	return c.events
}

// send enqueues an event without blocking. Returns false when the buffer is
// full, in which case the event is dropped for this connection only.
func (c *Conn) send(ev *Event) bool {
	select {
	case c.events <- ev:
		return true
	default:
		return false
	}
}
