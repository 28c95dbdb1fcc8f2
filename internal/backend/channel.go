package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/atomicstack/meshdash/internal/logging/events"
	"github.com/atomicstack/meshdash/internal/protocol"
)

// UpdatesPath is the server's push endpoint.
const UpdatesPath = "/updates"

// Kind represents the type of event emitted by the channel.
type Kind int

const (
	KindConnected Kind = iota
	KindMessage
	KindDropped
	KindFailed
	KindClosed
)

func (k Kind) String() string {
	switch k {
	case KindConnected:
		return "connected"
	case KindMessage:
		return "message"
	case KindDropped:
		return "dropped"
	case KindFailed:
		return "failed"
	case KindClosed:
		return "closed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Terminal reports whether no further events follow this kind.
func (k Kind) Terminal() bool {
	return k == KindFailed || k == KindClosed
}

// Event conveys a decoded frame or a lifecycle change of the connection.
type Event struct {
	Kind Kind
	Tag  string
	Msg  protocol.Message
	Err  error
}

var (
	// ErrMalformedFrame reports a frame without the TAG:PAYLOAD separator.
	ErrMalformedFrame = errors.New("malformed frame")
	// ErrUnsupportedScheme reports a server origin that has no websocket form.
	ErrUnsupportedScheme = errors.New("unsupported server scheme")
)

// Dialer opens the websocket. *websocket.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, urlStr string, requestHeader http.Header) (*websocket.Conn, *http.Response, error)
}

// Endpoint derives the push endpoint from the dashboard origin: http becomes
// ws and https becomes wss, with the path replaced by /updates.
func Endpoint(origin string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("server url %q has no host", origin)
	}
	u.Path = UpdatesPath
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// SplitFrame splits a raw frame on its first colon. Payloads may contain
// further colons.
func SplitFrame(raw string) (tag, payload string, err error) {
	idx := strings.IndexByte(raw, ':')
	if idx < 0 {
		return "", "", fmt.Errorf("%w: missing separator", ErrMalformedFrame)
	}
	return raw[:idx], raw[idx+1:], nil
}

// Channel holds the single push connection to the server. There is no retry
// and no keepalive: once the connection fails or closes the channel is done.
type Channel struct {
	endpoint string
	dialer   Dialer

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// Open starts connecting to endpoint in the background. A nil dialer uses
// websocket.DefaultDialer.
func Open(endpoint string, dialer Dialer) *Channel {
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Channel{
		endpoint: endpoint,
		dialer:   dialer,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 64),
	}

	c.wg.Add(1)
	go c.run()

	go func() {
		c.wg.Wait()
		close(c.events)
	}()

	return c
}

// Endpoint returns the websocket URL the channel connects to.
func (c *Channel) Endpoint() string {
	return c.endpoint
}

// Events returns the channel of connection events. It is closed after a
// terminal event or Stop.
func (c *Channel) Events() <-chan Event {
	return c.events
}

// Stop cancels the reader and closes the connection. No terminal event is
// published for a stop.
func (c *Channel) Stop() {
	c.cancel()
}

// Wait blocks until the reader has exited and the events channel is closed.
func (c *Channel) Wait() {
	c.wg.Wait()
}

func (c *Channel) emit(evt Event) bool {
	select {
	case <-c.ctx.Done():
		return false
	case c.events <- evt:
		return true
	}
}

func (c *Channel) run() {
	defer c.wg.Done()

	events.Channel.Dial(c.endpoint)
	conn, resp, err := c.dialer.DialContext(c.ctx, c.endpoint, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if c.ctx.Err() != nil {
			return
		}
		events.Channel.Failed(err)
		c.emit(Event{Kind: KindFailed, Err: fmt.Errorf("dial %s: %w", c.endpoint, err)})
		return
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-c.ctx.Done():
		case <-done:
		}
		conn.Close()
	}()

	events.Channel.Connected(c.endpoint)
	if !c.emit(Event{Kind: KindConnected}) {
		return
	}

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if c.ctx.Err() != nil {
				return
			}
			events.Channel.Closed(err)
			c.emit(Event{Kind: KindClosed, Err: err})
			return
		}
		if msgType != websocket.TextMessage {
			events.Channel.Dropped("", "binary frame")
			continue
		}
		if !c.emit(decodeFrame(string(data))) {
			return
		}
	}
}

func decodeFrame(raw string) Event {
	tag, payload, err := SplitFrame(raw)
	if err != nil {
		events.Channel.Dropped("", err.Error())
		return Event{Kind: KindDropped, Err: err}
	}
	events.Channel.Frame(tag, len(payload))
	msg, err := protocol.Decode(tag, payload)
	if err != nil {
		events.Channel.Dropped(tag, err.Error())
		return Event{Kind: KindDropped, Tag: tag, Err: err}
	}
	return Event{Kind: KindMessage, Tag: tag, Msg: msg}
}
