package hub

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"chat-relay/internal/domain"
)

// Client mediates between one WebSocket connection and the Hub. UserID is
// empty when identity resolution failed at connect time; such a connection
// stays open but is never registered.
type Client struct {
	ID     string
	UserID string
	Hub    *Hub
	Conn   *websocket.Conn

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// Push enqueues a raw frame for delivery without blocking. It returns false
// when the client is gone or its queue is full; callers treat that as a
// skipped fan-out target, never an error.
func (c *Client) Push(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- payload:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

// close releases the client's pumps. Safe to call more than once; the send
// channel is never closed so concurrent Push calls stay safe.
func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// readPump reads envelopes from the WebSocket and feeds them to the hub's
// inbound queue. It runs in its own goroutine per connection.
func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		var req domain.WebSocketMessage
		if err := c.Conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.Hub.logger.Debug("read failed", slog.String("connID", c.ID), slog.Any("error", err))
			}
			return
		}

		select {
		case c.Hub.inbound <- &clientRequest{client: c, message: req}:
		case <-c.done:
			return
		}
	}
}

// writePump drains the send queue into the WebSocket until the client is
// closed.
func (c *Client) writePump() {
	defer c.Conn.Close()

	for {
		select {
		case payload := <-c.send:
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.Hub.logger.Debug("write failed", slog.String("connID", c.ID), slog.Any("error", err))
				return
			}
		case <-c.done:
			return
		}
	}
}

// sendAck delivers a direct response to this connection only.
func (c *Client) sendAck(event, status, message, messageID string) {
	payload := domain.AckPayload{Event: event, Status: status, Message: message, MessageID: messageID}
	c.sendEvent(domain.EventAck, payload)
}

// sendEvent marshals and pushes one envelope to this connection.
func (c *Client) sendEvent(eventType string, payload interface{}) {
	raw, err := json.Marshal(domain.WebSocketMessage{Type: eventType, Payload: payload})
	if err != nil {
		c.Hub.logger.Error("failed to marshal event", slog.String("type", eventType), slog.Any("error", err))
		return
	}
	if !c.Push(raw) {
		c.Hub.logger.Debug("dropped event for slow client", slog.String("connID", c.ID), slog.String("type", eventType))
	}
}
