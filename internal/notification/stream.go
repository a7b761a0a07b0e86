package notification

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	"godsendjoseph.dev/edu-connect/internal/toast"
)

const streamWriteTimeout = 5 * time.Second

type streamClient struct {
	send chan toast.Toast
}

// StreamHub pushes toasts as JSON frames to every connected websocket
// client. Clients that fall behind by more than the buffer are disconnected.
type StreamHub struct {
	mu      sync.Mutex
	clients map[*streamClient]struct{}
	buffer  int
	origins []string
	logger  *zap.SugaredLogger
}

func NewStreamHub(logger *zap.SugaredLogger, buffer int, origins []string) *StreamHub {
	if buffer <= 0 {
		buffer = 16
	}
	return &StreamHub{
		clients: make(map[*streamClient]struct{}),
		buffer:  buffer,
		origins: origins,
		logger:  logger,
	}
}

func (h *StreamHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Render implements toast.Surface.
func (h *StreamHub) Render(_ context.Context, t toast.Toast) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- t:
		default:
			delete(h.clients, c)
			close(c.send)
			h.logger.Warnw("dropping slow toast stream client", "id", t.ID)
		}
	}
	return nil
}

func (h *StreamHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		h.logger.Warnw("toast stream handshake failed", "error", err)
		return
	}
	defer conn.CloseNow()

	client := h.add()
	defer h.remove(client)

	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-client.send:
			if !ok {
				conn.Close(websocket.StatusPolicyViolation, "client too slow")
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, streamWriteTimeout)
			err := wsjson.Write(writeCtx, conn, t)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

func (h *StreamHub) add() *streamClient {
	c := &streamClient{send: make(chan toast.Toast, h.buffer)}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	return c
}

func (h *StreamHub) remove(c *streamClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}
