package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/raghavshulka/ai-draw/internal/store"
)

const persistTimeout = 5 * time.Second

// Router applies decoded commands from a connection: membership mutation for
// join/leave, persist-then-broadcast for chat, broadcast-only for drawing
// and canvas clears.
//
// Dispatch must be called in arrival order for a given connection; calls for
// distinct connections may run concurrently. The relay is permissive about
// room scope: it does not require the sender to have joined a room before
// accepting events scoped to it, matching the original relay behavior. The
// sender's identity, however, is always stamped from its credential.
type Router struct {
	registry *Registry
	messages store.MessageStore
	log      *zerolog.Logger
}

// NewRouter builds a router over the given registry. messages may be nil,
// in which case chat is relayed without being recorded.
func NewRouter(registry *Registry, messages store.MessageStore, logger *zerolog.Logger) *Router {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Router{
		registry: registry,
		messages: messages,
		log:      logger,
	}
}

// Dispatch handles one command originating from c. Commands from a
// connection that has already been removed are ignored: teardown can race
// with in-flight reads.
func (rt *Router) Dispatch(ctx context.Context, c *Conn, cmd *Command) {
	if c == nil || cmd == nil || !rt.registry.contains(c) {
		return
	}

	switch cmd.Kind {
	case CommandJoinRoom:
		rt.registry.Join(c, cmd.Room)
		if cmd.Name != "" {
			rt.registry.SetDisplayName(c, cmd.Name)
		}
	case CommandLeaveRoom:
		rt.registry.Leave(c, cmd.Room)
	case CommandSendChat:
		ev := &Event{
			Kind:     EventChat,
			Room:     cmd.Room,
			SenderID: c.UserID,
			Sender:   rt.registry.DisplayName(c),
			Text:     cmd.Text,
			SentAt:   time.Now(),
		}
		rt.persistChat(ctx, ev)
		rt.broadcast(cmd.Room, ev, nil)
	case CommandDrawStroke:
		rt.broadcast(cmd.Room, &Event{
			Kind:     EventStroke,
			Room:     cmd.Room,
			SenderID: c.UserID,
			Stroke:   cmd.Stroke,
		}, c)
	case CommandClearCanvas:
		rt.broadcast(cmd.Room, &Event{
			Kind:     EventClear,
			Room:     cmd.Room,
			SenderID: c.UserID,
		}, c)
	default:
		rt.log.Warn().Int("kind", int(cmd.Kind)).Msg("unknown command kind")
	}
}

// persistChat records the message without delaying the broadcast. Durability
// is best effort: a store failure is logged and the message still fans out.
// The write is detached from the connection context so a disconnect cannot
// abort an already accepted message.
func (rt *Router) persistChat(ctx context.Context, ev *Event) {
	if rt.messages == nil {
		return
	}

	msg := &store.Message{
		Room:      ev.Room,
		UserID:    ev.SenderID,
		Body:      ev.Text,
		CreatedAt: ev.SentAt,
	}

	go func(ctx context.Context) {
		saveCtx, cancel := context.WithTimeout(ctx, persistTimeout)
		defer cancel()

		if err := rt.messages.SaveMessage(saveCtx, msg); err != nil {
			rt.log.Error().Err(err).Str("room", msg.Room).Int64("user_id", msg.UserID).Msg("save chat message")
		}
	}(context.WithoutCancel(ctx))
}

// broadcast delivers ev to the room's current membership snapshot, skipping
// exclude when set. A full outbound buffer on one target drops the event for
// that target only; remaining targets still receive it.
func (rt *Router) broadcast(room string, ev *Event, exclude *Conn) {
	for _, member := range rt.registry.MembersOf(room) {
		if member == exclude {
			continue
		}
		if !member.send(ev) {
			rt.log.Warn().
				Str("room", room).
				Str("conn_id", member.ID).
				Msg("dropping event for slow consumer")
		}
	}
}
