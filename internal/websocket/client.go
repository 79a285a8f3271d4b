package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	// ping 周期 (必须小于 pongWait)
	pingPeriod = (pongWait * 9) / 10

	// 审核页面只接收事件, 入站消息只需容纳控制帧
	maxMessageSize = 4 * 1024
)

// Client 审核页面连接
type Client struct {
	// ID 连接 ID
	ID string

	// Actor 审核人
	Actor string

	Hub *Hub

	Conn *websocket.Conn

	// Send 待发送事件
	Send chan []byte
}

// NewClient 创建新的客户端
func NewClient(id string, actor string, hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:    id,
		Actor: actor,
		Hub:   hub,
		Conn:  conn,
		Send:  make(chan []byte, 64),
	}
}

// ReadPump 读取连接直到断开, 只处理控制帧
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.WithError(err).WithField("client_id", c.ID).Warn("moderation feed connection error")
			}
			break
		}
	}
}

// WritePump 向连接写入事件, 每个事件一帧
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
