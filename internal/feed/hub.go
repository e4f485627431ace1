// Package feed 把账本与投票事件实时推送给 websocket 客户端
package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"donation-core/internal/service/mq"
	"donation-core/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 64
)

// Frame 推送给客户端的一条消息
type Frame struct {
	Topic string          `json:"topic"`
	Key   string          `json:"key"`
	Data  json.RawMessage `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub 只读广播，客户端发来的消息一律忽略
type Hub struct {
	upgrader   websocket.Upgrader
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}

	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		clients:    make(map[*client]struct{}),
	}
}

// Run 阻塞直到 ctx 取消
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
		case c := <-h.unregister:
			h.remove(c)
		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// 慢客户端直接断开
					close(c.send)
					delete(h.clients, c)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		close(c.send)
		delete(h.clients, c)
	}
}

// Clients 当前连接数
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish 非阻塞投递; 队列满时丢弃并返回 false
func (h *Hub) Publish(f Frame) bool {
	data, err := json.Marshal(f)
	if err != nil {
		return false
	}
	select {
	case h.broadcast <- data:
		return true
	default:
		logger.Warn("[Feed] broadcast queue full, frame dropped", zap.String("topic", f.Topic))
		return false
	}
}

// Consume 订阅若干主题并转发到 hub，阻塞直到 ctx 取消
func (h *Hub) Consume(ctx context.Context, consumer mq.Consumer, topics ...string) {
	var wg sync.WaitGroup
	for _, topic := range topics {
		wg.Add(1)
		go func(topic string) {
			defer wg.Done()
			err := consumer.Subscribe(ctx, topic, func(msg *mq.Message) error {
				h.Publish(Frame{Topic: msg.Topic, Key: msg.Key, Data: json.RawMessage(msg.Payload)})
				return nil
			})
			if err != nil && ctx.Err() == nil {
				logger.Error("[Feed] subscribe failed", zap.String("topic", topic), zap.Error(err))
			}
		}(topic)
	}
	wg.Wait()
}

// ServeWS godoc
// @Summary Live donation feed
// @Description Websocket stream of donation_recorded and vote_cast events
// @Tags feed
// @Router /api/v1/feed [get]
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("[Feed] upgrade failed", zap.Error(err))
		return
	}
	cl := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	select {
	case h.register <- cl:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(cl)
	h.readPump(cl)
}

func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Debug("[Feed] client closed", zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
