package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gorillaWS "github.com/gorilla/websocket"
	"github.com/mautops/testimonial-gin/internal/service"
)

var upgrader = gorillaWS.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// 来源校验由 CORS 中间件负责
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler 审核事件流处理器
func Handler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			hub.logger.WithError(err).Warn("failed to upgrade moderation feed connection")
			return
		}

		client := NewClient(uuid.New().String(), service.GetActor(c.Request.Context()), hub, conn)
		if !hub.register(client) {
			conn.Close()
			return
		}

		go client.ReadPump()
		go client.WritePump()
	}
}
