package chat

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prodiny/collegehub/internal/types"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendQueueSize  = 256
)

// deliveryResult reports the outcome of queueing one frame for one client.
// The dispatcher uses it to decide pruning instead of swallowing failures.
type deliveryResult int

const (
	deliveryOK deliveryResult = iota
	deliveryFailed
)

// Client owns one websocket connection bound to one authenticated user. A
// read pump and a write pump run per client; the read pump's exit always
// triggers gateway cleanup, whatever caused the exit.
type Client struct {
	conn    *websocket.Conn
	gateway *Gateway
	log     *log.Logger
	user    types.User
	send    chan []byte

	stop     chan struct{}
	stopOnce sync.Once
}

func newClient(user types.User, conn *websocket.Conn, gw *Gateway, l *log.Logger) *Client {
	return &Client{
		conn:    conn,
		gateway: gw,
		log:     l,
		user:    user,
		send:    make(chan []byte, sendQueueSize),
		stop:    make(chan struct{}),
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.log.Printf("write pump for %q exiting", c.user.EmailAddress)
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				return
			}

			if !c.writeFrame(websocket.TextMessage, payload) {
				return
			}
		case <-c.stop:
			return
		case <-ticker.C:
			if !c.writeFrame(websocket.PingMessage, nil) {
				return
			}
		}
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.conn.Close()
		c.gateway.Disconnect(c)
		c.log.Printf("read pump for %q exiting", c.user.EmailAddress)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(appData string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.log.Printf("ws: read: %v", err)
			}
			break
		}

		c.handleFrame(raw)
	}
}

// handleFrame dispatches one inbound frame. Malformed payloads and unknown
// frame types are dropped without closing the connection.
func (c *Client) handleFrame(raw []byte) {
	var frame ClientFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.log.Printf("ignoring unparseable frame from %q: %v", c.user.EmailAddress, err)
		return
	}

	switch frame.Type {
	case frameTypeJoinProject:
		if frame.ProjectId <= 0 {
			return
		}
		if err := c.gateway.JoinProject(frame.ProjectId, c); err != nil {
			c.log.Printf("join project from %q: %v", c.user.EmailAddress, err)
		}
	case frameTypeProjectMessage:
		if frame.ProjectId <= 0 {
			return
		}
		if _, err := c.gateway.SendProjectMessage(c.user.Id, frame.ProjectId, frame.Content); err != nil {
			c.log.Printf("send project message from %q: %v", c.user.EmailAddress, err)
		}
	}
}

// queueFrame hands a frame to the write pump without blocking. A stopped
// client or a full send queue counts as a failed delivery.
func (c *Client) queueFrame(payload []byte) deliveryResult {
	select {
	case <-c.stop:
		return deliveryFailed
	default:
	}

	select {
	case c.send <- payload:
		return deliveryOK
	default:
		return deliveryFailed
	}
}

func (c *Client) writeFrame(msgType int, payload []byte) bool {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err := c.conn.WriteMessage(msgType, payload); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
			websocket.CloseNormalClosure) {
			c.log.Printf("write frame: %s", err)
		}
		return false
	}

	return true
}

func (c *Client) close() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}
