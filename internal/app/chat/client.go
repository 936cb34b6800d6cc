/*
Package chat contains the core logic for the group chat: connection lifecycle,
session and history state, and event broadcasting.

This file defines the Client struct, representing one WebSocket connection. It
runs the read and write pumps and forwards inbound frames to the Hub.
*/
package chat

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"minichat/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxMessageSize = 8192
)

// Client represents one active WebSocket connection, identified by an opaque
// connection ID that is never reused.
type Client struct {
	// the hub this connection belongs to.
	hub *Hub

	// id is the opaque connection identifier.
	id string

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// a buffered channel of outbound frames, closed by the Hub on unregister.
	send chan []byte

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn, connID string) *Client {
	clientLogger := logx.Logger().With().
		Str("connection_id", connID).
		Logger()

	return &Client{
		hub:    hub,
		id:     connID,
		conn:   conn,
		send:   make(chan []byte, sendChannelBuffer),
		logger: clientLogger,
	}
}

// ReadPump reads frames from the WebSocket connection and dispatches them to
// the Hub until the connection drops. It owns the unregister step: when the
// loop exits for any reason the client is removed from the Hub, which also
// announces the departure if the connection was logged in.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error")
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (client close/going away)")
			}
			break
		}

		c.hub.Dispatch(c, frame)
	}
}

// WritePump writes queued frames to the WebSocket connection and keeps the
// heartbeat alive with periodic pings. It exits when the send queue is closed
// or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline")
				return
			}

			if !ok {
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Debug().Err(err).Msg("Error writing close message")
				}
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Warn().Err(err).Msg("Error writing frame")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
				return
			}

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Warn().Err(err).Msg("Error writing ping")
				return
			}
		}
	}
}
