/*
Package chat contains the core logic for the group chat: connection lifecycle,
session and history state, and event broadcasting.

This file defines the Hub struct, the single point of serialization for all
shared chat state. Every mutating handler (login, sendMessage, disconnect) runs
to completion under the Hub's lock, so lookup-then-append sequences are atomic
with respect to other connections' events. One mutex guards the session
registry and the history buffer together; neither is safe to touch outside it.
*/
package chat

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"minichat/internal/app/history"
	"minichat/internal/app/message"
	"minichat/internal/app/session"
	"minichat/internal/pkg/logx"
)

// sendChannelBuffer is the per-client queue size for outbound events.
// When a client's queue is full the event is dropped for that client only;
// delivery is fire-and-forget and a stalled client must not block the rest.
const sendChannelBuffer = 256

// Hub owns all shared chat state and fans events out to connected clients.
type Hub struct {
	// clients maps connection ID to the live client.
	clients map[string]*Client

	// sessions holds the login identity per connection.
	sessions *session.Registry

	// buffer holds the recent messages replayed to new connections.
	buffer *history.Buffer

	// mu serializes every mutating handler over {clients, sessions, buffer}.
	mu sync.Mutex

	// structured logger with Hub context.
	logger zerolog.Logger
}

// NewHub constructs a Hub with an empty registry and a history buffer of the
// given capacity.
func NewHub(historyCapacity int) *Hub {
	hubLogger := logx.Logger().With().Str("component", "Hub").Logger()

	return &Hub{
		clients:  make(map[string]*Client),
		sessions: session.NewRegistry(),
		buffer:   history.NewBuffer(historyCapacity),
		logger:   hubLogger,
	}
}

// Register adds a newly connected client and replays the message history to it
// as a direct (non-broadcast) chatHistory event. The connection starts
// anonymous: no session exists until the client logs in.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.id] = c

	h.logger.Info().
		Str("connection_id", c.id).
		Int("total_connections", len(h.clients)).
		Msg("Client connected.")

	h.sendTo(c, EventChatHistory, h.buffer.Snapshot())
}

// Unregister removes a disconnected client. When the connection still owns a
// session, the session is removed, the presence list is rebroadcast, and a
// leave announcement is appended to history and broadcast. A connection that
// never logged in (or whose username was taken over by a newer connection)
// disappears silently.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[c.id]; !ok || current != c {
		return
	}

	delete(h.clients, c.id)
	close(c.send)

	h.logger.Info().
		Str("connection_id", c.id).
		Int("total_connections", len(h.clients)).
		Msg("Client disconnected.")

	sess, ok := h.sessions.FindByConnectionID(c.id)
	if !ok {
		return
	}

	h.sessions.Remove(c.id)
	h.broadcastAll(EventUserList, h.sessions.ListAll())

	leave := message.NewSystem(fmt.Sprintf("%s has left the chat", sess.Username))
	h.buffer.Append(leave)
	h.broadcastAll(EventReceiveMessage, leave)
}

// Dispatch routes a raw inbound frame from a client to its handler. Malformed
// envelopes and unknown event names are logged and dropped; no client input
// may crash the process or corrupt state for other connections.
func (h *Hub) Dispatch(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.logger.Warn().Err(err).Msg("Client sent invalid JSON envelope")
		return
	}

	switch env.Event {
	case EventLogin:
		var username string
		if err := json.Unmarshal(env.Data, &username); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid login payload")
			return
		}
		h.handleLogin(c, username)

	case EventSendMessage:
		var payload SendMessagePayload
		if err := json.Unmarshal(env.Data, &payload); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid sendMessage payload")
			return
		}
		h.handleSendMessage(c, payload.Message)

	case EventTyping:
		var username string
		if err := json.Unmarshal(env.Data, &username); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid typing payload")
			return
		}
		h.handleTyping(c, username)

	default:
		c.logger.Warn().Str("event", env.Event).Msg("Client sent unsupported event")
	}
}

// handleLogin binds username to the connection, replies with the resolved
// avatar, rebroadcasts the presence list, and announces the join.
//
// Logging in again on the same connection re-runs the whole sequence,
// including a duplicate join announcement. Clients tolerate the duplicate,
// so the behavior is kept as-is.
func (h *Hub) handleLogin(c *Client, username string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sess := h.sessions.Login(c.id, username)

	h.logger.Info().
		Str("connection_id", c.id).
		Str("username", username).
		Int("total_users", h.sessions.Len()).
		Msg("User logged in.")

	h.sendTo(c, EventUserAvatar, sess.Avatar)
	h.broadcastAll(EventUserList, h.sessions.ListAll())

	join := message.NewSystem(fmt.Sprintf("%s has joined the chat", username))
	h.buffer.Append(join)
	h.broadcastAll(EventReceiveMessage, join)
}

// handleSendMessage appends and broadcasts a chat message authored by the
// connection's session. Messages from connections without a session are
// silently dropped.
func (h *Hub) handleSendMessage(c *Client, body string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sess, ok := h.sessions.FindByConnectionID(c.id)
	if !ok {
		c.logger.Warn().Msg("Dropping sendMessage from connection without a session")
		return
	}

	msg := message.New(sess.Username, body, sess.Avatar)
	h.buffer.Append(msg)
	h.broadcastAll(EventReceiveMessage, msg)
}

// handleTyping relays the ephemeral typing signal to every client except the
// sender. No state is mutated; receivers expire the indicator themselves.
func (h *Hub) handleTyping(c *Client, username string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.broadcastOthers(c.id, EventTyping, username)
}

// Shutdown closes every client's send queue, terminating their write pumps.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		delete(h.clients, id)
		close(c.send)
	}

	h.logger.Info().Msg("Hub shutdown complete.")
}

// broadcastAll delivers an event to every connected client, including the
// originator. Callers must hold h.mu.
func (h *Hub) broadcastAll(event string, payload any) {
	frame, err := MarshalEvent(event, payload)
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("Error marshaling broadcast event.")
		return
	}

	for _, c := range h.clients {
		h.enqueue(c, frame)
	}
}

// broadcastOthers delivers an event to every connected client except the
// originating connection. Callers must hold h.mu.
func (h *Hub) broadcastOthers(originConnID, event string, payload any) {
	frame, err := MarshalEvent(event, payload)
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("Error marshaling broadcast event.")
		return
	}

	for id, c := range h.clients {
		if id == originConnID {
			continue
		}
		h.enqueue(c, frame)
	}
}

// sendTo delivers an event to a single client. Callers must hold h.mu.
func (h *Hub) sendTo(c *Client, event string, payload any) {
	frame, err := MarshalEvent(event, payload)
	if err != nil {
		c.logger.Error().Err(err).Str("event", event).Msg("Error marshaling direct event.")
		return
	}

	h.enqueue(c, frame)
}

// enqueue pushes a frame onto the client's send queue without blocking.
// A full queue means the client is stalled; the frame is dropped for that
// client so delivery to others is unaffected.
func (h *Hub) enqueue(c *Client, frame []byte) {
	select {
	case c.send <- frame:
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send queue full, dropping event")
	}
}
