package api

import (
	"github.com/gin-gonic/gin"

	"drainwatch/internal/logging"
)

func NewRouter(h *Handler, logger *logging.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(logger))

	api := r.Group("/api/v0")
	{
		api.POST("/push", h.HandlePush)
		api.POST("/interactions", h.HandleInteraction)
		api.POST("/dismissals", h.HandleDismissal)
	}
	r.GET("/ws", h.HandleViewSocket)
	r.GET("/health", h.HandleHealth)

	return r
}
