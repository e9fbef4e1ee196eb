package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/raghavshulka/ai-draw/internal/store"
)

const defaultHistoryLimit = 50

// MessageHandlers provides HTTP handlers for chat history.
type MessageHandlers struct {
	messages store.MessageStore
	log      *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(messages store.MessageStore, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{
		messages: messages,
		log:      logger,
	}
}

// MessageResponse represents a persisted chat message in API responses.
type MessageResponse struct {
	ID       int64  `json:"id"`
	RoomID   string `json:"roomId"`
	Message  string `json:"message"`
	SenderID int64  `json:"senderId"`
	TS       int64  `json:"ts"`
}

// ListRoomMessages returns the most recent chat messages for a room,
// newest first.
// GET /api/rooms/:room/messages?limit=N
func (h *MessageHandlers) ListRoomMessages(c *gin.Context) {
	room := c.Param("room")
	if room == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "room is required"})
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}

	messages, err := h.messages.ListMessages(c.Request.Context(), room, limit)
	if err != nil {
		h.log.Error().Err(err).Str("room", room).Msg("failed to list messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]MessageResponse, 0, len(messages))
	for _, msg := range messages {
		response = append(response, MessageResponse{
			ID:       msg.ID,
			RoomID:   msg.Room,
			Message:  msg.Body,
			SenderID: msg.UserID,
			TS:       msg.CreatedAt.Unix(),
		})
	}

	c.JSON(http.StatusOK, response)
}
