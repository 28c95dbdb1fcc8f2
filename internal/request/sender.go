package request

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/atomicstack/meshdash/internal/logging"
	"github.com/atomicstack/meshdash/internal/logging/events"
)

const (
	queueSize      = 256
	requestTimeout = 2 * time.Second
)

// HTTPSender fires GET requests against the server on a single worker so
// they leave in submission order. Failures are logged and otherwise ignored.
// A hung request holds the queue for at most the client timeout.
type HTTPSender struct {
	base   string
	client *http.Client

	ctx    context.Context
	cancel context.CancelFunc

	queue chan string
	wg    sync.WaitGroup
}

// NewHTTPSender starts a sender for the server at base, e.g.
// "http://mesh.local:8080". A nil client uses one with a request timeout.
func NewHTTPSender(base string, client *http.Client) *HTTPSender {
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &HTTPSender{
		base:   strings.TrimRight(base, "/"),
		client: client,
		ctx:    ctx,
		cancel: cancel,
		queue:  make(chan string, queueSize),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// Send queues path without waiting. When the queue is full the request is
// dropped.
func (s *HTTPSender) Send(path string) {
	if s.ctx.Err() != nil {
		events.Request.Dropped(path)
		return
	}
	select {
	case s.queue <- path:
		events.Request.Queue(path)
	default:
		events.Request.Dropped(path)
		logging.Error(fmt.Errorf("request queue full, dropped %s", path))
	}
}

// Stop abandons queued requests and cancels the one in flight.
func (s *HTTPSender) Stop() {
	s.cancel()
}

// Wait blocks until the worker has exited.
func (s *HTTPSender) Wait() {
	s.wg.Wait()
}

func (s *HTTPSender) run() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case path := <-s.queue:
			if err := s.fire(path); err != nil && s.ctx.Err() == nil {
				logging.Error(err)
			}
		}
	}
}

func (s *HTTPSender) fire(path string) error {
	req, err := http.NewRequestWithContext(s.ctx, http.MethodGet, s.base+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	events.Request.Sent(path, resp.StatusCode)
	return nil
}
