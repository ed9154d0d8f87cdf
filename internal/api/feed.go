package api

import (
	"net/http"
	"sync"

	"geohunt_backend/internal/model"
	"geohunt_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type feedMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// FeedHub broadcasts committed discoveries to connected websocket
// clients. It implements service.DiscoveryAnnouncer; announcements
// never block the discovery pipeline.
type FeedHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	events  chan model.DiscoveryEvent
}

func NewFeedHub() *FeedHub {
	h := &FeedHub{
		clients: make(map[*websocket.Conn]struct{}),
		events:  make(chan model.DiscoveryEvent, 64),
	}
	go h.run()
	return h
}

func (h *FeedHub) AnnounceDiscovery(event model.DiscoveryEvent) {
	select {
	case h.events <- event:
	default:
		// Feed is best-effort; drop when the buffer is full.
	}
}

func (h *FeedHub) run() {
	log := logger.With("feed_hub")

	for event := range h.events {
		payload, err := json.Marshal(feedMessage{Type: "discovery", Data: event})
		if err != nil {
			log.Error("failed to marshal feed event", zap.Error(err))
			continue
		}

		h.mu.Lock()
		for conn := range h.clients {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				conn.Close()
				delete(h.clients, conn)
			}
		}
		h.mu.Unlock()
	}
}

func (h *FeedHub) register(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *FeedHub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
	h.mu.Unlock()
}

func NewFeedRoutes(handler *gin.RouterGroup, hub *FeedHub) {
	h := handler.Group("/ws")
	{
		h.GET("/feed", func(c *gin.Context) {
			log := logger.Logger()

			conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
			if err != nil {
				log.Error("websocket upgrade failed", zap.Error(err))
				return
			}

			hub.register(conn)

			// Drain client messages until the connection drops.
			go func() {
				defer hub.unregister(conn)
				for {
					if _, _, err := conn.ReadMessage(); err != nil {
						return
					}
				}
			}()
		})
	}
}
