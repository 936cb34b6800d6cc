package message

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minichat/internal/app/avatar"
)

func TestNew_StampsCurrentTime(t *testing.T) {
	msg := New("alice", "hello", "https://i.pravatar.cc/150?img=2")

	assert.Equal(t, "alice", msg.Author)
	assert.Equal(t, "hello", msg.Body)
	assert.False(t, msg.System)

	ts, err := time.Parse(time.RFC3339, msg.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}

func TestNewSystem_UsesSystemIdentity(t *testing.T) {
	msg := NewSystem("alice has joined the chat")

	assert.Equal(t, SystemAuthor, msg.Author)
	assert.Equal(t, avatar.System, msg.Avatar)
	assert.True(t, msg.System)
}

func TestMessage_WireFieldNames(t *testing.T) {
	raw, err := json.Marshal(New("alice", "hi", "a.png"))
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	// the client depends on these exact keys
	assert.Contains(t, fields, "user")
	assert.Contains(t, fields, "message")
	assert.Contains(t, fields, "avatar")
	assert.Contains(t, fields, "timestamp")
	assert.NotContains(t, fields, "system", "system flag is omitted for user messages")
}
