// server/internal/api/handlers/websocket_handler.go
package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"pharmacy-refill-dispatch/internal/directory"
	"pharmacy-refill-dispatch/internal/socket"
)

// Maximum wait for a ping from the client before the read loop gives up.
const pongWait = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	Hub       *socket.Hub
	Directory *directory.Directory
}

// ServeWs upgrades the connection and subscribes it to one store's refill
// events until the client goes away.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	storeID := c.Query("store")
	if storeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "store query parameter is required"})
		return
	}
	if _, ok := h.Directory.Lookup(storeID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	connID := uuid.New().String()
	h.Hub.Register(connID, storeID, conn)

	defer func() {
		h.Hub.Unregister(connID)
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Unexpected close error: %v", err)
			}
			break
		}
	}
}
