package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/velmoney/velmo_app/internal/middleware"
	"github.com/velmoney/velmo_app/internal/websocket"
)

// registerWebsocketRoutes exposes the realtime balance feed on the
// authenticated API group.
func registerWebsocketRoutes(rg *gin.RouterGroup, hub *websocket.Hub) {
	rg.GET("/ws", func(c *gin.Context) {
		userID, ok := middleware.GetUserIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
			return
		}
		websocket.ServeWS(c.Writer, c.Request, hub, userID)
	})
}
