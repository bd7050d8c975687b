package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"inkwell/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	streamBuffer = 16
	writeWait    = 10 * time.Second
	pingPeriod   = 30 * time.Second
)

// StreamHandler pushes store events to websocket clients.
type StreamHandler struct {
	Store    *services.ContentStore
	Logger   *zap.SugaredLogger
	Upgrader websocket.Upgrader
}

// NewStreamHandler 只接受来自 siteURL 或同源页面的浏览器连接
func NewStreamHandler(store *services.ContentStore, siteURL string, logger *zap.SugaredLogger) *StreamHandler {
	return &StreamHandler{
		Store:  store,
		Logger: logger,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     allowOrigin(siteURL),
		},
	}
}

// allowOrigin 没有 Origin 头的请求（非浏览器客户端）直接放行
func allowOrigin(siteURL string) func(r *http.Request) bool {
	site, err := url.Parse(siteURL)
	if err != nil || site.Host == "" {
		site = nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if site != nil && strings.EqualFold(u.Scheme, site.Scheme) && strings.EqualFold(u.Host, site.Host) {
			return true
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}

type streamHello struct {
	Kind  string `json:"kind"`
	Posts int    `json:"posts"`
}

// Posts GET /ws/posts
func (h *StreamHandler) Posts(c *gin.Context) {
	ws, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Warnw("websocket upgrade failed", "error", err)
		return
	}
	defer ws.Close()

	events := make(chan services.Event, streamBuffer)
	cancel := h.Store.Subscribe(func(ev services.Event) {
		// 客户端太慢时丢弃事件，不阻塞写操作
		select {
		case events <- ev:
		default:
			h.Logger.Debugw("websocket client too slow, event dropped", "kind", ev.Kind, "post", ev.PostID)
		}
	})
	defer cancel()

	// 读循环只用于感知断开
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := ws.WriteJSON(streamHello{Kind: "hello", Posts: len(h.Store.List())}); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-closed:
			return
		case ev := <-events:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteJSON(ev); err != nil {
				h.Logger.Debugw("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
