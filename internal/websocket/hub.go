package websocket

import (
	"encoding/json"
	"sync"

	"github.com/mautops/testimonial-gin/internal/service"
	"github.com/sirupsen/logrus"
)

// Hub 管理后台审核页面的 WebSocket 连接
type Hub struct {
	// 已注册的客户端
	clients map[*Client]bool

	// 广播消息到所有客户端
	Broadcast chan []byte

	// 注册新客户端
	Register chan *Client

	// 注销客户端
	Unregister chan *Client

	// done 在 Run 退出后关闭
	done chan struct{}

	logger logrus.FieldLogger

	// 保护 clients map
	mu sync.RWMutex
}

// NewHub 创建新的 Hub
func NewHub(logger logrus.FieldLogger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run 运行 Hub, stop 关闭后断开所有客户端
func (h *Hub) Run(stop <-chan struct{}) {
	defer close(h.done)
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.removeClient(client)

		case message := <-h.Broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// 客户端消费过慢, 直接断开
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()

		case <-stop:
			h.mu.Lock()
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// register 注册客户端, Hub 已停止时返回 false
func (h *Hub) register(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

// unregister 注销客户端, Hub 已停止时直接返回
func (h *Hub) unregister(client *Client) {
	select {
	case h.Unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.Send)
	}
}

// Publish 推送评价变更事件, 队列已满时丢弃
func (h *Hub) Publish(event service.TestimonialEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.WithError(err).WithField("event", event.Type).Warn("failed to encode testimonial event")
		return
	}

	select {
	case h.Broadcast <- payload:
	default:
		h.logger.WithField("event", event.Type).Warn("moderation feed queue full, event dropped")
	}
}

// HasClient 检查客户端是否存在
func (h *Hub) HasClient(clientID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if client.ID == clientID {
			return true
		}
	}
	return false
}

// GetClientCount 获取客户端数量
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}
