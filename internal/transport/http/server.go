package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/raghavshulka/ai-draw/internal/auth"
	"github.com/raghavshulka/ai-draw/internal/config"
	"github.com/raghavshulka/ai-draw/internal/core"
	"github.com/raghavshulka/ai-draw/internal/store"
)

// NewServer builds the HTTP server: auth API, chat history API, and the
// websocket relay endpoint.
func NewServer(registry *core.Registry, router *core.Router, authService *auth.Service, st store.Store, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(LoggerMiddleware(logger))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(stdhttp.StatusOK, gin.H{
			"status":      "ok",
			"connections": registry.Count(),
		})
	})

	apiHandlers := NewAPIHandlers(authService, logger)
	messageHandlers := NewMessageHandlers(st, logger)

	api := engine.Group("/api")
	{
		api.POST("/register", apiHandlers.Register)
		api.POST("/login", apiHandlers.Login)

		authed := api.Group("")
		authed.Use(AuthMiddleware(authService, logger))
		authed.GET("/rooms/:room/messages", messageHandlers.ListRoomMessages)
	}

	engine.GET("/ws", gin.WrapH(NewWSHandler(registry, router, authService, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           engine,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
