// Package vizserver streams simulation frames to browser viewers over
// websockets.
package vizserver

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

//go:embed index.html
var indexHTML []byte

// Server serves the viewer page and the frame stream.
type Server struct {
	addr  string
	arena ArenaInfo
	hub   *hub

	upgrader  websocket.Upgrader
	accessLog io.Writer
}

// New creates a server for the given arena. It does not listen until
// ListenAndServe is called.
func New(addr string, arena ArenaInfo) *Server {
	return &Server{
		addr:  addr,
		arena: arena,
		hub:   newHub(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		accessLog: slogWriter{},
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.Handle("/", handlers.CombinedLoggingHandler(s.accessLog,
		http.HandlerFunc(s.serveIndex),
	)).Methods("GET")
	router.Handle("/ws", handlers.CombinedLoggingHandler(s.accessLog,
		http.HandlerFunc(s.serveWebsocket),
	)).Methods("GET")
	router.HandleFunc("/healthz", s.serveHealth).Methods("GET")
	return router
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("viz shutdown", "error", err)
		}
		s.hub.closeAll()
	}()

	slog.Info("viz listening", "addr", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("viz server: %w", err)
	}
	return nil
}

// Publish queues a frame for every connected watcher.
func (s *Server) Publish(f Frame) {
	if s.hub.count() == 0 {
		return
	}
	msg, err := encode(msgFrame, f)
	if err != nil {
		slog.Error("encoding frame", "error", err)
		return
	}
	s.hub.broadcast(msg)
}

// Watchers returns the number of connected viewers.
func (s *Server) Watchers() int {
	return s.hub.count()
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) serveHealth(w http.ResponseWriter, r *http.Request) {
	s.hub.mu.Lock()
	body := map[string]any{
		"status":   "ok",
		"watchers": len(s.hub.watchers),
		"frames":   s.hub.frames,
		"dropped":  s.hub.dropped,
	}
	s.hub.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	hello, err := encode(msgInit, s.arena)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("viz upgrade failed", "error", err)
		return
	}

	watcher := s.hub.add(conn, hello)
	slog.Info("viz watcher connected", "watcher", watcher.id, "remote", r.RemoteAddr)
	go watcher.writeLoop()

	// Reading is required to notice the client closing the socket.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.hub.remove(watcher)
	conn.Close()
	slog.Info("viz watcher disconnected", "watcher", watcher.id)
}

// slogWriter forwards access log lines to slog.
type slogWriter struct{}

func (slogWriter) Write(p []byte) (int, error) {
	slog.Info("http", "access", string(bytes.TrimSpace(p)))
	return len(p), nil
}
