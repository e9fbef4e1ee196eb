package http

import (
	"fmt"

	"github.com/raghavshulka/ai-draw/internal/core"
	"github.com/raghavshulka/ai-draw/internal/proto"
)

// frameToCommand decodes one inbound frame into a core command. The mapping
// happens exactly once at the boundary; the router only ever sees the closed
// command type.
func frameToCommand(frame proto.Frame) (*core.Command, error) {
	switch frame.Type {
	case proto.TypeJoin:
		if frame.Room == "" {
			return nil, fmt.Errorf("join: room is required")
		}
		return &core.Command{
			Kind: core.CommandJoinRoom,
			Room: frame.Room,
			Name: frame.Name,
		}, nil
	case proto.TypeLeave:
		if frame.Room == "" {
			return nil, fmt.Errorf("leave: room is required")
		}
		return &core.Command{
			Kind: core.CommandLeaveRoom,
			Room: frame.Room,
		}, nil
	case proto.TypeChat:
		if frame.RoomID == "" {
			return nil, fmt.Errorf("chat: roomId is required")
		}
		return &core.Command{
			Kind: core.CommandSendChat,
			Room: frame.RoomID,
			Text: frame.ChatText(),
		}, nil
	case proto.TypeDrawing:
		if frame.RoomID == "" {
			return nil, fmt.Errorf("drawing: roomId is required")
		}
		if frame.From == nil || frame.To == nil {
			return nil, fmt.Errorf("drawing: from and to are required")
		}
		return &core.Command{
			Kind: core.CommandDrawStroke,
			Room: frame.RoomID,
			Stroke: &core.Stroke{
				From:      core.Point{X: frame.From.X, Y: frame.From.Y},
				To:        core.Point{X: frame.To.X, Y: frame.To.Y},
				Color:     frame.Color,
				LineWidth: frame.LineWidth,
			},
		}, nil
	case proto.TypeClearCanvas:
		if frame.RoomID == "" {
			return nil, fmt.Errorf("clear_canvas: roomId is required")
		}
		return &core.Command{
			Kind: core.CommandClearCanvas,
			Room: frame.RoomID,
		}, nil
	default:
		return nil, fmt.Errorf("unknown frame type %q", frame.Type)
	}
}

// outboundFromEvent maps a core event to its wire shape.
func outboundFromEvent(event *core.Event) any {
	switch event.Kind {
	case core.EventChat:
		return proto.ChatEvent{
			Type:       proto.TypeChat,
			RoomID:     event.Room,
			Message:    event.Text,
			SenderID:   event.SenderID,
			SenderName: event.Sender,
			TS:         event.SentAt.Unix(),
		}
	case core.EventStroke:
		return proto.DrawingEvent{
			Type:      proto.TypeDrawing,
			RoomID:    event.Room,
			From:      proto.Point{X: event.Stroke.From.X, Y: event.Stroke.From.Y},
			To:        proto.Point{X: event.Stroke.To.X, Y: event.Stroke.To.Y},
			Color:     event.Stroke.Color,
			LineWidth: event.Stroke.LineWidth,
			UserID:    event.SenderID,
		}
	case core.EventClear:
		return proto.ClearCanvasEvent{
			Type:   proto.TypeClearCanvas,
			RoomID: event.Room,
			UserID: event.SenderID,
		}
	default:
		return nil
	}
}
