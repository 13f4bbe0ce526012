/*
Package handler provides the HTTP handler function for WebSocket connection upgrading.

This file contains HandleWebSocket, which authenticates the handshake, upgrades the
connection, and hands the client to the realtime Gateway.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"dmchat/internal/app/realtime"
	"dmchat/internal/pkg/auth/jwt"
	"dmchat/internal/pkg/errs"
	"dmchat/internal/pkg/limiter"
	"dmchat/internal/pkg/logx"
	"dmchat/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
//
// The handshake carries the session token as a query parameter. A valid token binds
// the connection to the token's user; a missing or invalid token is NOT an error:
// the connection is accepted but stays out of the presence registry, so it receives
// broadcasts yet never appears online and can never be a delivery target.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		userID := ""
		if token := r.URL.Query().Get("token"); token != "" {
			payload, err := jwt.ParseToken(token, deps.Config.JWTSecret)
			if err != nil {
				logx.Warn("WebSocket handshake with invalid token, connection proceeds unregistered", "error", err)
			} else {
				userID = payload.UserID
			}
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := realtime.NewClient(deps.Gateway, conn, userID)

		go client.WritePump()

		logx.Info("WebSocket connection established", "conn_id", client.ID, "user_id", userID)

		deps.Gateway.RegisterClient(client)

		client.ReadPump()
	}
}
