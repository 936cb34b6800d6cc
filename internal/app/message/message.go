/*
Package message defines the chat message value type shared by the history buffer
and the broadcast hub.

A Message is immutable once constructed. Field names in JSON match the wire
protocol consumed by the chat client.
*/
package message

import (
	"time"

	"minichat/internal/app/avatar"
)

// SystemAuthor is the author name used for server-generated messages.
const SystemAuthor = "System"

// Message represents a single chat or system message.
type Message struct {
	// Author is the display name of the sender ("System" for synthetic messages).
	Author string `json:"user"`

	// Body is the message text.
	Body string `json:"message"`

	// Avatar is the URL of the sender's avatar image.
	Avatar string `json:"avatar"`

	// Timestamp is the server-side creation time in ISO-8601 format.
	Timestamp string `json:"timestamp"`

	// System marks messages generated by the server (join/leave notices).
	System bool `json:"system,omitempty"`
}

// New constructs a user-authored message stamped with the current time.
func New(author, body, avatarURL string) Message {
	return Message{
		Author:    author,
		Body:      body,
		Avatar:    avatarURL,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// NewSystem constructs a server-authored announcement with the system avatar.
func NewSystem(body string) Message {
	return Message{
		Author:    SystemAuthor,
		Body:      body,
		Avatar:    avatar.System,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		System:    true,
	}
}
