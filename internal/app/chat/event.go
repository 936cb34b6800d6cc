/*
Package chat contains the core logic for the group chat: connection lifecycle,
session and history state, and event broadcasting.

This file defines the event envelope exchanged with clients over the WebSocket
connection and the payload types carried by each event.
*/
package chat

import "encoding/json"

// Event names received from clients.
const (
	// EventLogin binds a username to the connection.
	EventLogin = "login"

	// EventSendMessage submits a chat message from a logged-in connection.
	EventSendMessage = "sendMessage"

	// EventTyping signals that the named user is typing.
	EventTyping = "typing"
)

// Event names emitted to clients.
const (
	// EventChatHistory replays the recent message buffer to a new connection.
	EventChatHistory = "chatHistory"

	// EventUserAvatar tells the logging-in client its resolved avatar URL.
	EventUserAvatar = "userAvatar"

	// EventUserList carries the full presence list after login or disconnect.
	EventUserList = "userList"

	// EventReceiveMessage delivers a chat or system message.
	EventReceiveMessage = "receiveMessage"
)

// Envelope is the wire framing for every event in both directions:
// an event name plus an event-specific JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// SendMessagePayload is the body of an inbound sendMessage event.
type SendMessagePayload struct {
	Message string `json:"message"`
}

// MarshalEvent encodes an outbound event envelope with the given payload.
func MarshalEvent(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Envelope{
		Event: event,
		Data:  data,
	})
}
