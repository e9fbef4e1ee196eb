package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/raghavshulka/ai-draw/internal/auth"
	"github.com/raghavshulka/ai-draw/internal/core"
	"github.com/raghavshulka/ai-draw/internal/proto"
)

// WSHandler upgrades HTTP connections, admits them against the bearer token
// in the "token" query parameter, and bridges frames to the core router.
type WSHandler struct {
	registry *core.Registry
	router   *core.Router
	auth     *auth.Service
	log      *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(registry *core.Registry, router *core.Router, authService *auth.Service, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{
		registry: registry,
		router:   router,
		auth:     authService,
		log:      logger,
	}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	// Admission happens before the upgrade: a missing or invalid credential
	// never produces a registry entry.
	token := r.URL.Query().Get("token")
	if token == "" {
		h.log.Debug().Msg("ws connect without token")
		stdhttp.Error(w, "missing token", stdhttp.StatusUnauthorized)
		return
	}

	claims, err := h.auth.ValidateToken(token)
	if err != nil {
		h.log.Debug().Err(err).Msg("ws connect with invalid token")
		stdhttp.Error(w, "invalid token", stdhttp.StatusUnauthorized)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client, err := h.registry.Admit(claims.UserID, claims.Username)
	if err != nil {
		h.log.Warn().Err(err).Int64("user_id", claims.UserID).Msg("ws admission rejected")
		conn.Close(websocket.StatusPolicyViolation, "admission rejected")
		return
	}
	defer h.registry.Remove(client)

	h.log.Info().Str("conn_id", client.ID).Int64("user_id", client.UserID).Msg("ws connected")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	h.log.Info().Str("conn_id", client.ID).Int64("user_id", client.UserID).Msg("ws disconnected")

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// readLoop processes the connection's inbound frames strictly in arrival
// order. A frame that fails to decode is skipped; only a transport-level
// read failure ends the loop.
func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Conn) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		var frame proto.Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			h.log.Debug().Err(err).Str("conn_id", client.ID).Msg("ignoring malformed frame")
			continue
		}

		cmd, err := frameToCommand(frame)
		if err != nil {
			h.log.Debug().Err(err).Str("conn_id", client.ID).Str("type", frame.Type).Msg("ignoring unrecognized frame")
			continue
		}

		h.router.Dispatch(ctx, client, cmd)
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Conn) error {
	for {
		select {
		case event := <-client.Events():
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Warn().Err(err).Str("conn_id", client.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
