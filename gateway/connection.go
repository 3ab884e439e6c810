package gateway

import (
	"chat-gateway/domain"
	"chat-gateway/domain/event"
	"chat-gateway/errors"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// Connection is one WebSocket client. It is the EventSink the runtime emits to:
// Emit only enqueues, a dedicated goroutine writes.
type Connection struct {
	id        domain.ConnectionID
	ws        *websocket.Conn
	log       *slog.Logger
	cfg       Config
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newConnection(id domain.ConnectionID, ws *websocket.Conn, cfg Config, log *slog.Logger) *Connection {
	return &Connection{
		id:   id,
		ws:   ws,
		log:  log.With("conn_id", id),
		cfg:  cfg,
		send: make(chan []byte, cfg.SendBuffer),
		done: make(chan struct{}),
	}
}

// Emit never blocks: a full buffer drops the event with ErrSlowConsumer.
func (c *Connection) Emit(e event.Envelope) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return errors.ErrConnectionClosed
	default:
	}
	select {
	case c.send <- payload:
		return nil
	case <-c.done:
		return errors.ErrConnectionClosed
	default:
		return errors.ErrSlowConsumer
	}
}

// Close stops the connection once the queued events are written.
func (c *Connection) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Connection) Done() <-chan struct{} {
	return c.done
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(c.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case message := <-c.send:
			if !c.write(websocket.TextMessage, message) {
				c.Close()
				return
			}
		case <-ticker.C:
			if !c.write(websocket.PingMessage, nil) {
				c.Close()
				return
			}
		case <-c.done:
			c.drain()
			c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// drain writes what was enqueued before Close, such as a rejection reason.
func (c *Connection) drain() {
	for {
		select {
		case message := <-c.send:
			if !c.write(websocket.TextMessage, message) {
				return
			}
		default:
			return
		}
	}
}

func (c *Connection) write(messageType int, payload []byte) bool {
	if err := c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteWait)); err != nil {
		c.log.Debug("Error setting write deadline", "error", err)
		return false
	}
	if err := c.ws.WriteMessage(messageType, payload); err != nil {
		c.log.Debug("Error writing to connection", "error", err)
		return false
	}
	return true
}

// readPump hands every text frame to handle until the peer goes away.
// Frames above the rate limit are discarded.
func (c *Connection) readPump(handle func(raw []byte)) {
	c.ws.SetReadLimit(c.cfg.MaxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})
	limiter := rate.NewLimiter(c.cfg.RateLimit, c.cfg.RateBurst)

	for {
		messageType, raw, err := c.ws.ReadMessage()
		if err != nil {
			c.logReadError(err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		if !limiter.Allow() {
			c.log.Warn("Rate limit exceeded, frame discarded")
			continue
		}
		handle(raw)
	}
}

func (c *Connection) logReadError(err error) {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		c.log.Warn("Frame exceeded maximum size", "max_bytes", c.cfg.MaxMessageSize)
	case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived),
		errors.Is(err, io.EOF):
		c.log.Debug("Peer closed connection")
	default:
		c.log.Debug("Read error", "error", err)
	}
}
