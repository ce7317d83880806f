// Package api is the request/response client for the notification endpoints.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/hay-kot/bell/internal/core/logging"
	"github.com/hay-kot/bell/internal/core/notify"
)

const (
	userAgent = "bell-notification-client"

	// maxBodyBytes bounds how much of a response is read.
	maxBodyBytes = 4 << 20
)

// Error is returned when the server answers with a non-2xx status or with
// success set to false.
type Error struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if msg == "" {
		msg = "request unsuccessful"
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, msg)
}

// IsStatus reports whether err is an *Error with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// Options configure a Client.
type Options struct {
	// BaseURL is the notifications endpoint root, e.g.
	// https://learn.example.com/notifications.
	BaseURL string
	Token   string
	// Timeout of zero means requests never time out.
	Timeout time.Duration
	// RequestsPerSecond limits outgoing requests. Zero disables limiting.
	RequestsPerSecond int
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
	UserID     string
	Logger     *zerolog.Logger
}

// Client talks to the pull API. It is safe for concurrent use.
type Client struct {
	base    *url.URL
	token   string
	userID  string
	http    *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

var _ notify.API = (*Client)(nil)

// New validates opts and constructs a Client.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must use http or https", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	c := &Client{
		base:   base,
		token:  opts.Token,
		userID: opts.UserID,
		http:   httpClient,
	}

	if opts.RequestsPerSecond > 0 {
		// Token bucket: burst = rate per sec, so opening the panel on a long
		// unread list drains in short waves.
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.RequestsPerSecond)
	}

	if opts.Logger != nil {
		c.log = opts.Logger.Hook(logging.Hook{})
	} else {
		c.log = logging.Component("api")
	}

	return c, nil
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

type listResponse struct {
	envelope
	Notifications []notify.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unread_count"`
}

// List fetches the authoritative notification list.
func (c *Client) List(ctx context.Context) (notify.ListResult, error) {
	var resp listResponse
	if err := c.do(ctx, "list", http.MethodGet, "/", &resp); err != nil {
		return notify.ListResult{}, err
	}
	if resp.Notifications == nil {
		resp.Notifications = []notify.Notification{}
	}
	return notify.ListResult{
		Notifications: resp.Notifications,
		UnreadCount:   resp.UnreadCount,
	}, nil
}

// MarkRead marks one notification read.
func (c *Client) MarkRead(ctx context.Context, id notify.ID) error {
	var resp envelope
	ctx = logging.WithNotificationID(ctx, id.String())
	return c.do(ctx, "mark_read", http.MethodPost, "/"+url.PathEscape(id.String())+"/read", &resp)
}

// MarkAllRead marks every notification read.
func (c *Client) MarkAllRead(ctx context.Context) error {
	var resp envelope
	return c.do(ctx, "mark_all_read", http.MethodPost, "/mark-all-read", &resp)
}

// Delete removes one notification.
func (c *Client) Delete(ctx context.Context, id notify.ID) error {
	var resp envelope
	ctx = logging.WithNotificationID(ctx, id.String())
	return c.do(ctx, "delete", http.MethodDelete, "/"+url.PathEscape(id.String()), &resp)
}

type successer interface {
	ok() (bool, string)
}

func (e *envelope) ok() (bool, string) {
	msg := e.Error
	if msg == "" {
		msg = e.Message
	}
	return e.Success, msg
}

func (c *Client) do(ctx context.Context, op, method, path string, out successer) error {
	ctx = logging.WithOperation(ctx, op)
	if c.userID != "" {
		ctx = logging.WithUserID(ctx, c.userID)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: rate limit: %w", op, err)
		}
	}

	endpoint := c.base.JoinPath(path)
	if path == "/" {
		// the list route is registered with a trailing slash
		endpoint.Path = strings.TrimRight(c.base.Path, "/") + "/"
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Debug().Ctx(ctx).Err(err).Msg("close response body")
		}
	}()

	c.log.Debug().Ctx(ctx).
		Str("method", method).
		Str("url", endpoint.String()).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s: read body: %w", op, err)
	}

	decodeErr := json.Unmarshal(body, out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Op: op, StatusCode: resp.StatusCode}
		if decodeErr == nil {
			_, apiErr.Message = out.ok()
		}
		return apiErr
	}

	if decodeErr != nil {
		return fmt.Errorf("%s: decode response: %w", op, decodeErr)
	}

	if success, msg := out.ok(); !success {
		return &Error{Op: op, StatusCode: resp.StatusCode, Message: msg}
	}

	return nil
}
