// Package server exposes a Session over WebSocket: every text frame is one
// raw command and is answered with one text frame holding the display text.
package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"tableDB/internal/logging"
	"tableDB/internal/shell"
)

type Server struct {
	sess           *shell.Session
	readLimit      int64
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

type Option func(*Server)

// WithReadLimit caps the size of one incoming frame in bytes.
func WithReadLimit(n int64) Option {
	return func(s *Server) { s.readLimit = n }
}

// WithAllowedOrigins lists the browser origins, besides the server's own
// host, that may open a connection. Entries are exact origins such as
// "https://app.example.com", "*.example.com" for any subdomain, or "*".
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.allowedOrigins = origins }
}

func New(sess *shell.Session, opts ...Option) *Server {
	s := &Server{
		sess:      sess,
		readLimit: 64 << 10,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.upgrader = websocket.Upgrader{
		WriteBufferSize: 1024 * 10,
		ReadBufferSize:  1024 * 10,
		CheckOrigin:     s.checkOrigin,
	}
	return s
}

// checkOrigin accepts requests without an Origin header (non-browser
// clients), from the server's own host, or from an allowed origin. A
// rejected upgrade is answered with 403.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	if isOriginAllowed(origin, s.allowedOrigins) {
		return true
	}
	logging.Warn("websocket origin rejected", "origin", origin, "remote_addr", r.RemoteAddr)
	return false
}

func isOriginAllowed(origin string, allowed []string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	for _, a := range allowed {
		switch {
		case a == "*":
			return true
		case strings.EqualFold(strings.TrimSuffix(a, "/"), origin):
			return true
		case strings.HasPrefix(a, "*."):
			if strings.HasSuffix(strings.ToLower(u.Hostname()), strings.ToLower(a[1:])) {
				return true
			}
		}
	}
	return false
}

// Handler serves the WebSocket endpoint on / and a liveness check on /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", s.serveWS)
	return mux
}

// ListenAndServe runs until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(s.readLimit)

	connID := uuid.NewString()
	ctx := logging.WithRequestID(r.Context(), connID)
	logging.InfoContext(ctx, "connection opened", "remote_addr", r.RemoteAddr)

	for {
		kind, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.WarnContext(ctx, "unexpected close", "error", err)
			} else {
				logging.InfoContext(ctx, "connection closed")
			}
			return
		}

		if kind != websocket.TextMessage {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseUnsupportedData, "commands must be text frames"))
			return
		}

		reply := s.sess.Run(ctx, string(message))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
			logging.WarnContext(ctx, "write failed", "error", err)
			return
		}
	}
}
