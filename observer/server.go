// Package observer streams post-tick observations to read-only WebSocket
// clients.
package observer

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/evosoup/game"
)

const (
	writeTimeout = 5 * time.Second
	readTimeout  = 60 * time.Second
	clientBuffer = 8
)

// Server fans observations out to connected clients. Slow clients drop
// frames instead of stalling the publisher.
type Server struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	// AllowRemote accepts non-loopback clients.
	AllowRemote bool

	mu      sync.Mutex
	clients map[uint64]chan []byte
	nextID  atomic.Uint64
	latest  atomic.Pointer[[]byte]
	dropped atomic.Uint64
}

// NewServer creates a server with no clients.
func NewServer(logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		clients: make(map[uint64]chan []byte),
	}
}

// Publish encodes obs once and queues it for every client.
func (s *Server) Publish(obs game.Observation) error {
	b, err := json.Marshal(obs)
	if err != nil {
		return err
	}
	s.latest.Store(&b)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, out := range s.clients {
		select {
		case out <- b:
		default:
			s.dropped.Add(1)
		}
	}
	return nil
}

// Run publishes observations from in until ctx is done or in is closed.
func (s *Server) Run(ctx context.Context, in <-chan game.Observation) {
	for {
		select {
		case <-ctx.Done():
			return
		case obs, ok := <-in:
			if !ok {
				return
			}
			if err := s.Publish(obs); err != nil {
				s.logger.Error("failed to encode observation", "error", err)
			}
		}
	}
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Dropped returns the number of frames skipped for slow clients.
func (s *Server) Dropped() uint64 {
	return s.dropped.Load()
}

// Mux returns a handler serving /ws and /observation.
func (s *Server) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.WSHandler())
	mux.HandleFunc("/observation", s.LatestHandler())
	return mux
}

// LatestHandler serves the most recent observation as JSON.
func (s *Server) LatestHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !s.allowed(r) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		b := s.latest.Load()
		if b == nil {
			http.Error(rw, "no observation yet", http.StatusServiceUnavailable)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_, _ = rw.Write(*b)
	}
}

// WSHandler upgrades the connection and streams observations until the
// client disconnects.
func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !s.allowed(r) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		id := s.nextID.Add(1)
		out := make(chan []byte, clientBuffer)
		s.join(id, out)
		defer s.leave(id)
		s.logger.Debug("observer joined", "client", id, "remote", r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine.
		writeErr := make(chan error, 1)
		go func() {
			if b := s.latest.Load(); b != nil {
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, *b); err != nil {
					writeErr <- err
					return
				}
			}
			for {
				select {
				case <-ctx.Done():
					writeErr <- ctx.Err()
					return
				case b := <-out:
					_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						writeErr <- err
						return
					}
				}
			}
		}()

		// Clients are read-only; reads only detect disconnects.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		cancel()
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))

		select {
		case <-writeErr:
		case <-time.After(500 * time.Millisecond):
		}
		s.logger.Debug("observer left", "client", id)
	}
}

func (s *Server) join(id uint64, out chan []byte) {
	s.mu.Lock()
	s.clients[id] = out
	s.mu.Unlock()
}

func (s *Server) leave(id uint64) {
	s.mu.Lock()
	delete(s.clients, id)
	s.mu.Unlock()
}

func (s *Server) allowed(r *http.Request) bool {
	return s.AllowRemote || isLoopbackRemote(r.RemoteAddr)
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
