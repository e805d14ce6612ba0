package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Socket timing defaults.
const (
	DefaultWriteTimeout = 10 * time.Second
	maxClientFrame      = 4 << 10
)

// TooManyConnections is the close reason sent when the hub is full.
const TooManyConnections = "Too many connections"

// WSListener adapts a gorilla websocket connection to Listener. Writes are
// serialized; each one carries a deadline.
type WSListener struct {
	conn         *websocket.Conn
	writeTimeout time.Duration

	mu        sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

// NewWSListener wraps conn. writeTimeout <= 0 uses DefaultWriteTimeout.
func NewWSListener(conn *websocket.Conn, writeTimeout time.Duration) *WSListener {
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	conn.SetReadLimit(maxClientFrame)
	return &WSListener{conn: conn, writeTimeout: writeTimeout}
}

// Send implements Listener.
func (w *WSListener) Send(ctx context.Context, msg []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	deadline := time.Now().Add(w.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := w.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return w.conn.WriteMessage(websocket.TextMessage, msg)
}

// Close implements Listener. It is safe to call more than once.
func (w *WSListener) Close() error {
	w.closeOnce.Do(func() {
		w.closeErr = w.conn.Close()
	})
	return w.closeErr
}

// Reject tells the client the hub is full and closes the connection.
func (w *WSListener) Reject() {
	w.mu.Lock()
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, TooManyConnections)
	_ = w.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(w.writeTimeout))
	w.mu.Unlock()
	_ = w.Close()
}

// ReadLoop consumes client frames until the connection fails or ctx ends.
// A {"type":"pong"} frame is logged at debug level, invalid JSON at warn;
// everything else is ignored.
func (w *WSListener) ReadLoop(ctx context.Context) {
	stop := context.AfterFunc(ctx, func() { _ = w.Close() })
	defer stop()

	for {
		_, data, err := w.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				log.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}
		handleClientFrame(data)
	}
}

func handleClientFrame(data []byte) {
	var msg struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Warn().Int("bytes", len(data)).Msg("invalid JSON received from websocket client")
		return
	}
	if msg.Type == TypePong {
		log.Debug().Msg("received pong from websocket client")
	}
}

// Serve registers w with h, greets it with hello and blocks reading client
// frames until the connection ends. A full hub rejects the connection.
func (h *Hub) Serve(ctx context.Context, w *WSListener, hello Event) {
	if !h.Connect(w) {
		log.Warn().Int("max", h.max).Msg("websocket rejected: too many connections")
		w.Reject()
		return
	}
	defer func() {
		h.Disconnect(w)
		_ = w.Close()
	}()

	if err := h.Send(ctx, w, hello); err != nil {
		return
	}
	w.ReadLoop(ctx)
}
