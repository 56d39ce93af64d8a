package main

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"illustraBack/internal/config"
	"illustraBack/internal/models"
)

const (
	readLimit     = 1 << 10
	readDeadline  = 60 * time.Second
	writeDeadline = 5 * time.Second
	pingInterval  = 20 * time.Second
)

var defaultOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// allowedOrigins is shared by CORS and the websocket upgrader.
func allowedOrigins(cfg config.Config) []string {
	if len(cfg.Server.CORSOrigins) == 0 {
		return defaultOrigins
	}
	return cfg.Server.CORSOrigins
}

func (app *application) upgrader() *websocket.Upgrader {
	origins := allowedOrigins(app.cfg)
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, o := range origins {
				if o == "*" || strings.EqualFold(o, origin) {
					return true
				}
			}
			u, err := url.Parse(origin)
			return err == nil && strings.EqualFold(u.Host, r.Host)
		},
	}
}

// SessionSocketHandler streams identity changes of one admin session: the
// current identity first, then every change, closing after "none".
func (app *application) SessionSocketHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	session, err := app.gateway.Session(token)
	if err != nil {
		app.clientError(w, http.StatusUnauthorized, "Invalid session")
		return
	}

	conn, err := app.upgrader().Upgrade(w, r, nil)
	if err != nil {
		app.errorLog.Printf("session ws upgrade: %v", err)
		return
	}
	defer conn.Close()

	events := make(chan models.SessionEvent, 4)
	unsubscribe := app.gateway.Subscribe(func(ev models.SessionEvent) {
		if ev.SessionID != session.ID {
			return
		}
		select {
		case events <- ev:
		default:
		}
	})
	defer unsubscribe()

	// Reader: only control frames are expected; it ends when the client goes.
	done := make(chan struct{})
	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	id := session.Identity
	if !app.writeEvent(conn, models.SessionEvent{SessionID: session.ID, Identity: &id}) {
		return
	}

	expiry := time.NewTimer(time.Until(session.ExpiresAt))
	defer expiry.Stop()
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case ev := <-events:
			if !app.writeEvent(conn, ev) || ev.Identity == nil {
				writeClose(conn, websocket.CloseNormalClosure, "signed out")
				return
			}
		case <-expiry.C:
			// Resolving the token ends the expired session and emits "none".
			app.gateway.Session(token)
			app.writeEvent(conn, models.SessionEvent{SessionID: session.ID})
			writeClose(conn, websocket.CloseNormalClosure, "session expired")
			return
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (app *application) writeEvent(conn *websocket.Conn, ev models.SessionEvent) bool {
	conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	if err := conn.WriteJSON(ev); err != nil {
		app.errorLog.Printf("session ws write: %v", err)
		return false
	}
	return true
}

func writeClose(conn *websocket.Conn, code int, text string) error {
	msg := websocket.FormatCloseMessage(code, text)
	return conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeDeadline))
}
