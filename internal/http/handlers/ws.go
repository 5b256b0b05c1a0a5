package handlers

import (
	"log"
	"net/http"
	"os"

	"hideseek_webapp/internal/http/middleware"
	"hideseek_webapp/internal/service"
	"hideseek_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WS upgrades the connection into a watch stream: каждый коммит игры приходит
// полным снапшотом, наверх уходят только location-сэмплы и ping-и.
func (h *Handler) WS(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		// JWT from query
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		userID, err := service.ParseJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		gameID := c.Query("game")
		if gameID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "game id required"})
			return
		}

		allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println("ws upgrade error:", err)
			return
		}

		middleware.WatchClients.Inc()
		client := ws.NewClient(userID, gameID, conn, hub)
		go func() {
			defer middleware.WatchClients.Dec()
			client.Run()
		}()
	}
}
