package proto

// Frame type discriminators used on the socket.
const (
	TypeJoin        = "join"
	TypeLeave       = "leave"
	TypeChat        = "chat"
	TypeDrawing     = "drawing"
	TypeClearCanvas = "clear_canvas"
)

// Point is a canvas coordinate on the wire.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Frame is the envelope for every inbound socket message, one JSON object
// per frame. Type selects the kind; the remaining fields are populated per
// kind. join/leave address rooms via "room", the relayed kinds via "roomId",
// matching the web client.
type Frame struct {
	Type string `json:"type"`

	// join / leave
	Room string `json:"room,omitempty"`
	Name string `json:"name,omitempty"`

	// chat / drawing / clear_canvas
	RoomID  string `json:"roomId,omitempty"`
	Message string `json:"message,omitempty"`
	// The web client sends chat text as "messages"; accept both spellings.
	Messages string `json:"messages,omitempty"`

	// drawing
	From      *Point  `json:"from,omitempty"`
	To        *Point  `json:"to,omitempty"`
	Color     string  `json:"color,omitempty"`
	LineWidth float64 `json:"lineWidth,omitempty"`
}

// ChatText returns the chat body regardless of which field spelling the
// client used, preferring "messages" as sent by the web client.
func (f Frame) ChatText() string {
	if f.Messages != "" {
		return f.Messages
	}
	return f.Message
}

// ChatEvent is the outbound shape for a relayed chat message. Sender fields
// come from the authenticated connection, never from the inbound frame.
type ChatEvent struct {
	Type       string `json:"type"`
	RoomID     string `json:"roomId"`
	Message    string `json:"message"`
	SenderID   int64  `json:"senderId"`
	SenderName string `json:"senderName,omitempty"`
	TS         int64  `json:"ts"`
}

// DrawingEvent is the outbound shape for a relayed stroke.
type DrawingEvent struct {
	Type      string  `json:"type"`
	RoomID    string  `json:"roomId"`
	From      Point   `json:"from"`
	To        Point   `json:"to"`
	Color     string  `json:"color,omitempty"`
	LineWidth float64 `json:"lineWidth,omitempty"`
	UserID    int64   `json:"userId"`
}

// ClearCanvasEvent is the outbound shape for a relayed canvas wipe.
type ClearCanvasEvent struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
	UserID int64  `json:"userId"`
}
