// Package push implements the notification push channel over a websocket.
// Frames are JSON objects of the form {"type": "...", "payload": {...}}.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/net/websocket"

	"github.com/hay-kot/bell/internal/core/logging"
	"github.com/hay-kot/bell/internal/core/notify"
)

// maxFrameBytes bounds a single inbound frame.
const maxFrameBytes = 1 << 20

// Options configure a Transport.
type Options struct {
	// URL is the websocket endpoint. http and https schemes are rewritten to
	// ws and wss.
	URL string
	// Origin defaults to the http form of URL.
	Origin string
	Token  string
	Logger *zerolog.Logger
}

// Transport dials the push channel.
type Transport struct {
	url    string
	origin string
	token  string
	log    zerolog.Logger
}

var _ notify.Transport = (*Transport)(nil)

// New validates opts and constructs a Transport.
func New(opts Options) (*Transport, error) {
	wsURL, origin, err := endpoints(opts.URL)
	if err != nil {
		return nil, err
	}
	if opts.Origin != "" {
		origin = opts.Origin
	}

	t := &Transport{url: wsURL, origin: origin, token: opts.Token}
	if opts.Logger != nil {
		t.log = *opts.Logger
	} else {
		t.log = logging.Component("push")
	}
	return t, nil
}

// URL returns the websocket endpoint the transport dials.
func (t *Transport) URL() string { return t.url }

func endpoints(raw string) (string, string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parse push url: %w", err)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("push url %q has no host", raw)
	}

	origin := *u
	origin.Path, origin.RawQuery, origin.Fragment = "", "", ""

	switch u.Scheme {
	case "http", "ws":
		u.Scheme, origin.Scheme = "ws", "http"
	case "https", "wss":
		u.Scheme, origin.Scheme = "wss", "https"
	default:
		return "", "", fmt.Errorf("push url %q: unsupported scheme %q", raw, u.Scheme)
	}
	return u.String(), origin.String(), nil
}

// Connect dials the endpoint and starts reading frames. deliver is called
// from a single reader goroutine in arrival order.
func (t *Transport) Connect(ctx context.Context, deliver func(notify.Event)) (notify.Conn, error) {
	cfg, err := websocket.NewConfig(t.url, t.origin)
	if err != nil {
		return nil, fmt.Errorf("push config: %w", err)
	}
	cfg.Header = make(http.Header)
	if t.token != "" {
		cfg.Header.Set("Authorization", "Bearer "+t.token)
	}

	ws, err := cfg.DialContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", t.url, err)
	}
	ws.MaxPayloadBytes = maxFrameBytes

	t.log.Debug().Str("url", t.url).Msg("push connected")

	c := &Conn{ws: ws, log: t.log, done: make(chan struct{})}
	go c.read(deliver)
	return c, nil
}

// Conn is an open push connection.
type Conn struct {
	ws  *websocket.Conn
	log zerolog.Logger

	writeMu sync.Mutex

	closeOnce sync.Once
	closed    bool
	mu        sync.Mutex
	done      chan struct{}
}

var _ notify.Conn = (*Conn)(nil)

func (c *Conn) read(deliver func(notify.Event)) {
	defer close(c.done)

	for {
		var data []byte
		if err := websocket.Message.Receive(c.ws, &data); err != nil {
			if c.isClosed() {
				return
			}
			if errors.Is(err, websocket.ErrFrameTooLarge) {
				c.log.Warn().Int("limit", maxFrameBytes).Msg("dropping oversized push frame")
				continue
			}
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				c.log.Warn().Err(err).Msg("push read failed")
			}
			_ = c.ws.Close()
			deliver(notify.Event{Name: notify.EventDisconnect})
			return
		}

		var ev notify.Event
		if err := json.Unmarshal(data, &ev); err != nil || ev.Name == "" {
			c.log.Warn().Err(err).Int("bytes", len(data)).Msg("dropping malformed push frame")
			continue
		}

		deliver(ev)
	}
}

// Emit sends a client event. It is safe to call concurrently.
func (c *Conn) Emit(ctx context.Context, name notify.EventName, payload any) error {
	if c.isClosed() {
		return net.ErrClosed
	}

	ev, err := notify.NewEvent(name, payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline, _ := ctx.Deadline()
	if err := c.ws.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("emit %s: %w", name, err)
	}

	if err := websocket.JSON.Send(c.ws, ev); err != nil {
		return fmt.Errorf("emit %s: %w", name, err)
	}
	return nil
}

// Close ends the connection without delivering a disconnect event.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		err = c.ws.Close()
	})
	return err
}

// Done is closed once the reader goroutine exits.
func (c *Conn) Done() <-chan struct{} { return c.done }

func (c *Conn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Endpoint joins the server base URL and push path.
func Endpoint(serverURL, path string) string {
	return strings.TrimRight(serverURL, "/") + "/" + strings.TrimLeft(path, "/")
}
