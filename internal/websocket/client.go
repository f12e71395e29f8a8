package websocket

import (
	"context"
	"time"

	ws "github.com/coder/websocket"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
	writeTimeout   = 10 * time.Second
)

// Client is one WebSocket connection for userID ("" when anonymous),
// optionally scoped to a single chart. The connection is write-only:
// anything the browser sends is discarded.
type Client struct {
	hub     *Hub
	conn    *ws.Conn
	userID  string
	chartID string
	send    chan []byte
}

func NewClient(hub *Hub, conn *ws.Conn, userID, chartID string) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		userID:  userID,
		chartID: chartID,
		send:    make(chan []byte, sendBufferSize),
	}
}

// Run registers the client and forwards hub messages until the peer goes
// away, ctx ends, or a write fails.
func (c *Client) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	// CloseRead drains incoming frames and cancels ctx once the peer closes.
	ctx = c.conn.CloseRead(ctx)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.write(ctx, msg); err != nil {
				c.hub.logger.Debug("websocket write failed", "chart_id", c.chartID, "error", err)
				return
			}
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := c.conn.Ping(pctx)
			cancel()
			if err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) write(ctx context.Context, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return c.conn.Write(ctx, ws.MessageText, msg)
}
