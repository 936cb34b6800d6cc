/*
Package handler provides the HTTP handlers and routing setup for the chat server.

This file contains the HandleWebSocket function, which rate-limits and upgrades
incoming connections, assigns each one an opaque connection ID, and starts the
client's read and write pumps.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"minichat/internal/app/chat"
	"minichat/internal/pkg/errs"
	"minichat/internal/pkg/limiter"
	"minichat/internal/pkg/logx"
	"minichat/internal/pkg/randx"
	"minichat/internal/pkg/resp"
)

// HandleWebSocket creates the HTTP handler for WebSocket connection requests.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the HTTP error response
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		connID := randx.ConnectionID()
		client := chat.NewClient(deps.Hub, conn, connID)

		go client.WritePump()

		deps.Hub.Register(client)

		logx.Info("WebSocket connection established", "connection_id", connID)

		client.ReadPump()
	}
}
