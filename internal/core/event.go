package core

import "time"

// EventKind is a notification the core fans out to connections.
type EventKind int

const (
	// EventChat carries a chat message to every member of a room,
	// sender included.
	EventChat EventKind = iota
	// EventStroke carries a drawing stroke to every other member of a room.
	EventStroke
	// EventClear tells every other member of a room to wipe the canvas.
	EventClear
)

// Event is one outbound notification. SenderID and Sender always describe
// the authenticated connection the event originated from; clients cannot
// forge them.
type Event struct {
	Kind     EventKind
	Room     string
	SenderID int64
	Sender   string
	Text     string
	Stroke   *Stroke
	SentAt   time.Time
}
