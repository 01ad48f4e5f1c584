package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB
)

// wsObserver is a hub observer backed by one websocket connection.
// Its mailbox holds a single line; lines offered while it is full are missed.
type wsObserver struct {
	mailbox chan []byte
	done    chan struct{}
	once    sync.Once
}

func newWSObserver() *wsObserver {
	return &wsObserver{
		mailbox: make(chan []byte, 1),
		done:    make(chan struct{}),
	}
}

// Deliver never blocks.
func (o *wsObserver) Deliver(line []byte) bool {
	select {
	case <-o.done:
		return false
	default:
	}
	select {
	case o.mailbox <- line:
		return true
	default:
		return false
	}
}

func (o *wsObserver) Close() {
	o.once.Do(func() { close(o.done) })
}

func (h *Handler) upgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || h.allowOrigin(origin) != ""
		},
	}
}

// @Summary      Realtime record stream
// @Description  WebSocket upgrade. Each newly appended record is pushed as one text message containing its stored line. No history is replayed.
// @Tags         logs
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	conn, err := h.upgrader().Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("ws_upgrade_failed", "err", err)
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	obs := newWSObserver()
	h.services.Register(obs)
	defer func() {
		obs.Close()
		h.services.Unregister(obs)
	}()

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-obs.done:
			// Hub shut down.
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
				time.Now().Add(writeWait))
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.log.Infow("ws_ping_failed", "err", err)
				return
			}
		case line := <-obs.mailbox:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, line); err != nil {
				h.log.Infow("ws_write_failed", "err", err)
				return
			}
		}
	}
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.log.Debugw("ws_read_closed", "err", err)
			return
		}
	}
}
