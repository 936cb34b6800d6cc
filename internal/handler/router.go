/*
Package handler provides the HTTP handlers and routing setup for the chat server.

This file defines the main Router, applying middleware (logging, CORS, panic
recovery) before delegating to the health, static, and WebSocket handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"minichat/internal/pkg/limiter"
	"minichat/internal/pkg/logx"
	"minichat/internal/pkg/resp"
)

const (
	// ConnectRate limits how many WebSocket upgrades per second one IP may perform.
	ConnectRate = 1

	// ConnectBurst allows short bursts of upgrades (e.g. a reconnecting tab).
	ConnectBurst = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It configures CORS, per-IP rate limiting for the WebSocket endpoint, and the
// optional static client bundle.
func Router(deps *AppDeps) http.Handler {
	connectLimiter := limiter.NewIPRateLimiter(rate.Limit(ConnectRate), ConnectBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			// the chat is open to any origin unless a list is configured
			if len(allowedOrigins) == 0 {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{"*"}
	if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "minichat server",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, connectLimiter, deps))

	if deps.Config.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(deps.Config.StaticDir))
		r.Handle("/*", fileServer)
	}

	return r
}
