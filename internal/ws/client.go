package ws

import (
	"sync"
	"time"

	"chatrooms/internal/chat"

	"github.com/gorilla/websocket"
)

// clientConn is the transport side of one chat connection. Outbound events
// are queued on send and written by writePump, the only writer, so writes
// need no lock.
type clientConn struct {
	rawConn *websocket.Conn
	send    chan chat.Event
	done    chan struct{}
	once    sync.Once
}

func newClientConn(rawConn *websocket.Conn, buffer int) *clientConn {
	return &clientConn{
		rawConn: rawConn,
		send:    make(chan chat.Event, buffer),
		done:    make(chan struct{}),
	}
}

// Send queues ev without blocking. It reports false when the buffer is full
// or the connection is closing.
func (c *clientConn) Send(ev chat.Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- ev:
		return true
	default:
		return false
	}
}

func (c *clientConn) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.rawConn.Close()
	})
}

func (c *clientConn) write(mt int, data []byte, writeWait time.Duration) error {
	_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.rawConn.WriteMessage(mt, data)
}

func (c *clientConn) writeJSON(v any, writeWait time.Duration) error {
	_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.rawConn.WriteJSON(v)
}

// writePump drains the send queue and keeps the peer alive with pings.
func (c *clientConn) writePump(writeWait, pingPeriod time.Duration) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return
		case ev := <-c.send:
			if err := c.writeJSON(ev, writeWait); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil, writeWait); err != nil {
				return
			}
		}
	}
}
