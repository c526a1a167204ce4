package realtime

import (
	"log"
	"net/http"
	"time"

	"cabinbooking/internal/middleware"
	"cabinbooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler accepts upgrades from the given origins; an empty list accepts
// any origin.
func NewHandler(hub *Hub, origins []string) *Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

// ServeWS streams snapshot views to an authenticated client.
//
// Endpoint: GET /ws?token=JWT_TOKEN
func (h *Handler) ServeWS(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket_upgrade_failed user_id=%s error=%q", actor.ID, err.Error())
		return
	}

	cl := &client{
		actor: actor,
		conn:  conn,
		send:  make(chan []byte, 1),
		done:  make(chan struct{}),
	}
	h.hub.register(cl)
	log.Printf("websocket_connected user_id=%s role=%s", actor.ID, actor.Role)

	go h.writePump(cl)
	h.readPump(cl)

	h.hub.unregister(cl)
	log.Printf("websocket_disconnected user_id=%s", actor.ID)
}

// readPump only services control frames; clients never send commands here.
func (h *Handler) readPump(cl *client) {
	cl.conn.SetReadLimit(512)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket_error user_id=%s error=%q", cl.actor.ID, err.Error())
			}
			return
		}
	}
}

func (h *Handler) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				cl.close()
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				cl.close()
				return
			}
		case <-cl.done:
			return
		}
	}
}
