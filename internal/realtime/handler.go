package realtime

import (
	"net/http"
	"time"

	"unmute/internal/auth"
	"unmute/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The UI may be served from a different origin than the API.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades authenticated browsers onto the hub. Browsers cannot set
// an Authorization header on a WebSocket handshake, so the access token
// arrives as a query parameter instead.
func (h *Hub) Handler(m *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := m.Verify(token, auth.TokenTypeAccess, time.Now())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.FromGin(c).Warn("websocket upgrade failed", "user_id", claims.UserID, "err", err)
			return
		}

		cl := &client{
			hub:  h,
			conn: conn,
			send: make(chan []byte, sendBufferSize),
		}
		h.add(cl)

		go cl.writePump()
		cl.readPump()
	}
}
