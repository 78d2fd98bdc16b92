package client

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"bigtwo/internal/app"
	"bigtwo/internal/wire"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxReconnectAttempts = 5
	reconnectBase        = 2 * time.Second
	reconnectCap         = 30 * time.Second
)

// Client is the websocket transport for one participant. Incoming frames
// are decoded into typed events; outgoing requests are enveloped with an op
// code. Reconnects run with exponential backoff until the attempt budget is
// spent.
type Client struct {
	ServerURL string
	SessionID string

	conn    *websocket.Conn
	send    chan []byte
	receive chan app.Event
	done    chan struct{}

	OnEvent        func(app.Event)
	OnClose        func()
	OnReconnecting func(attempt, max int)

	mu             sync.RWMutex
	closed         bool
	reconnecting   atomic.Bool
	reconnectCount int
}

// NewClient creates a client for the given websocket URL.
func NewClient(serverURL string) *Client {
	return &Client{
		ServerURL: serverURL,
		SessionID: uuid.NewString(),
		send:      make(chan []byte, 256),
		receive:   make(chan app.Event, 256),
		done:      make(chan struct{}),
	}
}

// Connect dials the server and starts the read and write pumps.
func (c *Client) Connect() error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(c.ServerURL, nil)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.conn = conn
	send, done := c.send, c.done
	c.mu.Unlock()

	go c.readPump(conn)
	go c.writePump(conn, send, done)
	return nil
}

// request is the client-to-server frame.
type request struct {
	Op   int64           `json:"op"`
	Data json.RawMessage `json:"data"`
}

// Send envelopes a payload under the op code and queues it for the write
// pump. It never blocks; a full buffer is a send failure.
func (c *Client) Send(op int64, payload any) error {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return errors.New("connection closed")
	}
	send := c.send
	c.mu.RUnlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	frame, err := json.Marshal(request{Op: op, Data: data})
	if err != nil {
		return err
	}
	select {
	case send <- frame:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

// Receive blocks until an event arrives, the timeout lapses, or the
// connection closes.
func (c *Client) Receive(timeout time.Duration) (app.Event, error) {
	c.mu.RLock()
	done := c.done
	c.mu.RUnlock()
	select {
	case ev := <-c.receive:
		return ev, nil
	case <-time.After(timeout):
		return app.Event{}, errors.New("receive timeout")
	case <-done:
		return app.Event{}, errors.New("connection closed")
	}
}

// readPump drains conn until it fails. The connection is passed in rather
// than read from the struct so a pump never observes a reconnect swapping
// the fields underneath it.
func (c *Client) readPump(conn *websocket.Conn) {
	defer func() {
		c.mu.RLock()
		closed := c.closed
		c.mu.RUnlock()
		if closed {
			// Deliberate shutdown, not a transport failure.
			return
		}
		if !c.reconnecting.Load() {
			go c.tryReconnect()
		}
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		ev, err := wire.DecodeEvent(message)
		if err != nil {
			log.Printf("dropping undecodable frame: %v", err)
			continue
		}
		if c.OnEvent != nil {
			c.OnEvent(ev)
		}
		select {
		case c.receive <- ev:
		default:
		}
	}
}

func (c *Client) writePump(conn *websocket.Conn, send chan []byte, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (c *Client) tryReconnect() {
	if !c.reconnecting.CompareAndSwap(false, true) {
		return
	}

	backoff := reconnectBase
	for c.reconnectCount < maxReconnectAttempts {
		c.reconnectCount++
		if c.OnReconnecting != nil {
			c.OnReconnecting(c.reconnectCount, maxReconnectAttempts)
		}

		time.Sleep(backoff)
		backoff *= 2
		if backoff > reconnectCap {
			backoff = reconnectCap
		}

		dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
		conn, _, err := dialer.Dial(c.ServerURL, nil)
		if err != nil {
			continue
		}

		c.mu.Lock()
		if c.closed {
			// Close raced the redial; keep the shutdown.
			c.mu.Unlock()
			conn.Close()
			c.reconnecting.Store(false)
			return
		}
		old := c.conn
		c.conn = conn
		c.send = make(chan []byte, 256)
		c.done = make(chan struct{})
		send, done := c.send, c.done
		c.mu.Unlock()
		if old != nil {
			// Tears down the stale write pump still parked on the dead socket.
			old.Close()
		}

		go c.readPump(conn)
		go c.writePump(conn, send, done)

		c.reconnecting.Store(false)
		c.reconnectCount = 0
		// The server replays the authoritative snapshot on rejoin; asking
		// explicitly covers transports that do not.
		if err := c.Send(wire.OpRequestState, struct{}{}); err != nil {
			log.Printf("state request after reconnect failed: %v", err)
		}
		return
	}

	c.reconnecting.Store(false)
	c.Close()
	if c.OnClose != nil {
		c.OnClose()
	}
}

// Close tears the connection down. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.done)
	if c.conn != nil {
		c.conn.Close()
	}
}

// IsConnected reports whether the transport is usable.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed && c.conn != nil
}
