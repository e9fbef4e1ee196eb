package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinRoom subscribes the connection to a room.
	CommandJoinRoom CommandKind = iota
	// CommandLeaveRoom unsubscribes the connection from a room.
	CommandLeaveRoom
	// CommandSendChat delivers a chat message to room participants.
	CommandSendChat
	// CommandDrawStroke relays a freehand stroke to the other participants.
	CommandDrawStroke
	// CommandClearCanvas relays a canvas wipe to the other participants.
	CommandClearCanvas
)

// Point is a canvas coordinate.
type Point struct {
	X float64
	Y float64
}

// Stroke is one freehand line segment.
type Stroke struct {
	From      Point
	To        Point
	Color     string
	LineWidth float64
}

// Command is one decoded action requested by a connection. Room is always
// set; Name, Text and Stroke are populated per kind.
type Command struct {
	Kind   CommandKind
	Room   string
	Name   string // optional display name carried by join
	Text   string
	Stroke *Stroke
}
