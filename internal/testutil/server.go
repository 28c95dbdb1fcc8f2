// Package testutil provides a fake dashboard server for integration tests:
// it records every request path and pushes frames over /updates.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// UpdatesPath is where the fake server accepts the push connection.
const UpdatesPath = "/updates"

// Server is an in-process dashboard server.
type Server struct {
	URL string

	ts     *httptest.Server
	frames chan string
	hangup chan struct{}
	once   sync.Once
	live   atomic.Bool

	mu        sync.Mutex
	paths     []string
	connected chan struct{}
	seen      chan struct{}
}

// StartServer boots a fake server that is closed when the test ends.
func StartServer(t *testing.T) *Server {
	t.Helper()
	return startServer(t, false, 0)
}

// StartBroadcastServer boots a fake server that answers every /display/
// request with an ACTION frame naming the view, like the real server does.
// The reply goes only to a push connection that is open when the request
// lands; the upgrade waits handshakeDelay so early requests go unanswered.
func StartBroadcastServer(t *testing.T, handshakeDelay time.Duration) *Server {
	t.Helper()
	return startServer(t, true, handshakeDelay)
}

func startServer(t *testing.T, broadcast bool, handshakeDelay time.Duration) *Server {
	t.Helper()
	s := &Server{
		frames:    make(chan string, 64),
		hangup:    make(chan struct{}),
		connected: make(chan struct{}, 1),
		seen:      make(chan struct{}, 1),
	}
	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc(UpdatesPath, func(w http.ResponseWriter, r *http.Request) {
		if handshakeDelay > 0 {
			time.Sleep(handshakeDelay)
		}
		s.live.Store(true)
		defer s.live.Store(false)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		select {
		case s.connected <- struct{}{}:
		default:
		}
		for {
			select {
			case frame := <-s.frames:
				if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
					return
				}
			case <-s.hangup:
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
				return
			}
		}
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.paths = append(s.paths, r.URL.EscapedPath())
		s.mu.Unlock()
		if view, ok := strings.CutPrefix(r.URL.Path, "/display/"); ok && broadcast && s.live.Load() {
			s.frames <- "ACTION:" + view
		}
		select {
		case s.seen <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
	})
	s.ts = httptest.NewServer(mux)
	s.URL = s.ts.URL
	t.Cleanup(func() {
		s.Hangup()
		s.ts.Close()
	})
	return s
}

// Push queues frames for the push connection, in order.
func (s *Server) Push(frames ...string) {
	for _, frame := range frames {
		s.frames <- frame
	}
}

// Hangup closes the push connection with a normal close frame.
func (s *Server) Hangup() {
	s.once.Do(func() { close(s.hangup) })
}

// Paths returns the request paths received so far.
func (s *Server) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

// WaitConnected blocks until a push connection has been accepted.
func (s *Server) WaitConnected(t *testing.T) {
	t.Helper()
	select {
	case <-s.connected:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for the push connection")
	}
}

// WaitForPaths blocks until at least n requests arrived and returns them.
func (s *Server) WaitForPaths(t *testing.T, n int) []string {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		if paths := s.Paths(); len(paths) >= n {
			return paths
		}
		select {
		case <-s.seen:
		case <-time.After(20 * time.Millisecond):
		case <-deadline:
			t.Fatalf("timed out waiting for %d requests, got %v", n, s.Paths())
		}
	}
}
