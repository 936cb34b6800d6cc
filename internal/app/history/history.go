/*
Package history implements the bounded buffer of recent chat messages.

The buffer keeps the last N messages in insertion order and is replayed in full
to every newly connecting client. It is not safe for concurrent use on its own:
the chat hub serializes all access together with the session registry, so that
lookup-then-append sequences stay atomic across connections.
*/
package history

import "minichat/internal/app/message"

// DefaultCapacity is the number of messages retained when no explicit
// capacity is configured.
const DefaultCapacity = 50

// Buffer is a FIFO-bounded, insertion-ordered sequence of messages.
type Buffer struct {
	capacity int
	messages []message.Message
}

// NewBuffer returns an empty buffer holding at most capacity messages.
// A capacity of zero or less falls back to DefaultCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Buffer{
		capacity: capacity,
		messages: make([]message.Message, 0, capacity),
	}
}

// Append inserts msg at the end, evicting from the front when the buffer
// would exceed its capacity.
func (b *Buffer) Append(msg message.Message) {
	b.messages = append(b.messages, msg)

	if overflow := len(b.messages) - b.capacity; overflow > 0 {
		b.messages = append(b.messages[:0], b.messages[overflow:]...)
	}
}

// Snapshot returns a copy of the current contents in insertion order.
// The caller may retain the slice; later appends do not affect it.
func (b *Buffer) Snapshot() []message.Message {
	out := make([]message.Message, len(b.messages))
	copy(out, b.messages)
	return out
}

// Len reports the number of retained messages.
func (b *Buffer) Len() int {
	return len(b.messages)
}
