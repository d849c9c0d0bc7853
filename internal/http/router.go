// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"lifeline/internal/http/middleware"
	"lifeline/internal/modules/dispatch"
	"lifeline/internal/ws"
)

type statsResponse struct {
	Sessions int `json:"sessions"`
	dispatch.Stats
}

func NewRouter(
	wsHandler *ws.Handler,
	engine *dispatch.Engine,
	hub *ws.Hub,
	logger *slog.Logger,
) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Logging(logger), middleware.Recovery(logger))

	r.GET("/ws", gin.WrapH(wsHandler))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	// Read-only snapshot of dispatch state for operators.
	r.GET("/api/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, statsResponse{
			Sessions: hub.Count(),
			Stats:    engine.Stats(),
		})
	})

	return r
}
