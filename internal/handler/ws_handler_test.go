package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minichat/internal/app/chat"
	"minichat/internal/app/message"
	"minichat/internal/app/session"
	"minichat/internal/configs"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &configs.AppConfig{
		Environment:     "development",
		Port:            configs.DefaultPort,
		AllowedOrigins:  []string{},
		HistoryCapacity: 50,
	}

	srv := httptest.NewServer(Router(&AppDeps{
		Hub:    chat.NewHub(cfg.HistoryCapacity),
		Config: cfg,
	}))
	t.Cleanup(srv.Close)

	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) chat.Envelope {
	t.Helper()

	var env chat.Envelope
	require.NoError(t, conn.ReadJSON(&env))
	return env
}

func writeEvent(t *testing.T, conn *websocket.Conn, event string, payload any) {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(chat.Envelope{Event: event, Data: data}))
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	res, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Code    int               `json:"code"`
		Message string            `json:"message"`
		Data    map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, 0, body.Code)
	assert.Equal(t, "ok", body.Data["status"])
}

func TestHealthEndpoint_CORSOpenToAnyOrigin(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://anywhere.example.com")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
}

func TestWebSocket_LoginFlow(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv)

	env := readEvent(t, conn)
	require.Equal(t, chat.EventChatHistory, env.Event)

	var replay []message.Message
	require.NoError(t, json.Unmarshal(env.Data, &replay))
	assert.Empty(t, replay)

	writeEvent(t, conn, chat.EventLogin, "alice")

	env = readEvent(t, conn)
	require.Equal(t, chat.EventUserAvatar, env.Event)
	var avatarURL string
	require.NoError(t, json.Unmarshal(env.Data, &avatarURL))
	assert.NotEmpty(t, avatarURL)

	env = readEvent(t, conn)
	require.Equal(t, chat.EventUserList, env.Event)
	var users []session.Session
	require.NoError(t, json.Unmarshal(env.Data, &users))
	require.Len(t, users, 1)
	assert.Equal(t, "alice", users[0].Username)

	env = readEvent(t, conn)
	require.Equal(t, chat.EventReceiveMessage, env.Event)
	var joined message.Message
	require.NoError(t, json.Unmarshal(env.Data, &joined))
	assert.Equal(t, message.SystemAuthor, joined.Author)
	assert.Equal(t, "alice has joined the chat", joined.Body)
	assert.True(t, joined.System)

	writeEvent(t, conn, chat.EventSendMessage, chat.SendMessagePayload{Message: "hi"})

	env = readEvent(t, conn)
	require.Equal(t, chat.EventReceiveMessage, env.Event)
	var msg message.Message
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	assert.Equal(t, "alice", msg.Author)
	assert.Equal(t, "hi", msg.Body)
	assert.False(t, msg.System)
}

func TestWebSocket_TypingRelayedToOtherConnection(t *testing.T) {
	srv := newTestServer(t)

	sender := dial(t, srv)
	receiver := dial(t, srv)

	require.Equal(t, chat.EventChatHistory, readEvent(t, sender).Event)
	require.Equal(t, chat.EventChatHistory, readEvent(t, receiver).Event)

	writeEvent(t, sender, chat.EventTyping, "alice")

	env := readEvent(t, receiver)
	require.Equal(t, chat.EventTyping, env.Event)
	var username string
	require.NoError(t, json.Unmarshal(env.Data, &username))
	assert.Equal(t, "alice", username)
}

func TestWebSocket_DisconnectAnnouncedToRemaining(t *testing.T) {
	srv := newTestServer(t)

	leaving := dial(t, srv)
	staying := dial(t, srv)

	require.Equal(t, chat.EventChatHistory, readEvent(t, leaving).Event)
	require.Equal(t, chat.EventChatHistory, readEvent(t, staying).Event)

	writeEvent(t, leaving, chat.EventLogin, "alice")

	// drain alice's login sequence on the staying connection
	require.Equal(t, chat.EventUserList, readEvent(t, staying).Event)
	require.Equal(t, chat.EventReceiveMessage, readEvent(t, staying).Event)

	require.NoError(t, leaving.Close())

	env := readEvent(t, staying)
	require.Equal(t, chat.EventUserList, env.Event)
	var users []session.Session
	require.NoError(t, json.Unmarshal(env.Data, &users))
	assert.Empty(t, users)

	env = readEvent(t, staying)
	require.Equal(t, chat.EventReceiveMessage, env.Event)
	var left message.Message
	require.NoError(t, json.Unmarshal(env.Data, &left))
	assert.Equal(t, "alice has left the chat", left.Body)
	assert.True(t, left.System)
}
