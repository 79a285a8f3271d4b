package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorillaWS "github.com/gorilla/websocket"
	"github.com/mautops/testimonial-gin/internal/service"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	logger, _ := test.NewNullLogger()
	hub := NewHub(logger)
	stop := make(chan struct{})
	go hub.Run(stop)
	t.Cleanup(func() { close(stop) })
	return hub
}

// TestHub_PublishDropsWhenFull 测试队列已满时丢弃事件且不阻塞
func TestHub_PublishDropsWhenFull(t *testing.T) {
	logger, hook := test.NewNullLogger()
	hub := NewHub(logger)

	for i := 0; i < cap(hub.Broadcast)+1; i++ {
		hub.Publish(service.TestimonialEvent{Type: service.EventSaved, TestimonialID: uint(i)})
	}

	assert.Len(t, hub.Broadcast, cap(hub.Broadcast))
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

// TestHub_RegisterAndUnregister 测试客户端注册与注销
func TestHub_RegisterAndUnregister(t *testing.T) {
	hub := startHub(t)
	client := &Client{ID: "c1", Hub: hub, Send: make(chan []byte, 1)}

	hub.Register <- client
	assert.Eventually(t, func() bool { return hub.HasClient("c1") }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, hub.GetClientCount())

	hub.Unregister <- client
	assert.Eventually(t, func() bool { return hub.GetClientCount() == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-client.Send
	assert.False(t, open)
}

// TestHandler_StreamsEvents 测试审核页面收到变更事件
func TestHandler_StreamsEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := startHub(t)

	router := gin.New()
	router.GET("/feed", Handler(hub))
	server := httptest.NewServer(router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/feed"
	conn, resp, err := gorillaWS.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, func() bool { return hub.GetClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(service.TestimonialEvent{
		Type:          service.EventStatusChanged,
		TestimonialID: 7,
		Actor:         "moderator",
		OccurredAt:    time.Now(),
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var event service.TestimonialEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, service.EventStatusChanged, event.Type)
	assert.Equal(t, uint(7), event.TestimonialID)
	assert.Equal(t, "moderator", event.Actor)
}

// TestHub_UnregisterAfterStop 测试 Hub 停止后注销与注册不会阻塞
func TestHub_UnregisterAfterStop(t *testing.T) {
	logger, _ := test.NewNullLogger()
	hub := NewHub(logger)
	stop := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		hub.Run(stop)
		close(stopped)
	}()

	client := &Client{ID: "c1", Hub: hub, Send: make(chan []byte, 1)}
	require.True(t, hub.register(client))
	close(stop)
	<-stopped

	finished := make(chan struct{})
	go func() {
		hub.unregister(client)
		assert.False(t, hub.register(&Client{ID: "c2", Hub: hub, Send: make(chan []byte, 1)}))
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("hub calls blocked after stop")
	}
	assert.Zero(t, hub.GetClientCount())
}
