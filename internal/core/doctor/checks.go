package doctor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/hay-kot/bell/internal/core/config"
	"github.com/hay-kot/bell/internal/core/notify"
	"github.com/hay-kot/bell/internal/core/session"
	"github.com/hay-kot/bell/internal/data/api"
)

// DefaultTimeout bounds each network check.
const DefaultTimeout = 5 * time.Second

// ConfigCheck validates the loaded configuration.
type ConfigCheck struct {
	cfg  *config.Config
	path string
}

func NewConfigCheck(cfg *config.Config, path string) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, path: path}
}

func (c *ConfigCheck) Name() string { return "Configuration" }

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	err := c.cfg.ValidateDeep(c.path)
	var fieldErrs criterio.FieldErrors
	switch {
	case err == nil:
		result.add("config", StatusPass, c.path)
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			result.add(fe.Field, StatusFail, fe.Err.Error())
		}
	default:
		result.add("config", StatusFail, err.Error())
	}

	for _, w := range c.cfg.Warnings() {
		label := strings.ToLower(w.Category)
		if w.Item != "" {
			label += "." + w.Item
		}
		result.add(label, StatusWarn, w.Message)
	}

	return result
}

// SessionCheck reports how the access token was interpreted.
type SessionCheck struct {
	sess session.Session
}

func NewSessionCheck(sess session.Session) *SessionCheck {
	return &SessionCheck{sess: sess}
}

func (c *SessionCheck) Name() string { return "Session" }

func (c *SessionCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	switch {
	case c.sess.Kind == session.KindNone:
		result.add("token", StatusFail, session.ErrNoToken.Error())
	case c.sess.Expired():
		result.add("token", StatusFail, "expired at "+c.sess.ExpiresAt.Local().Format(time.RFC3339))
	case c.sess.Kind == session.KindJWT:
		detail := "jwt"
		if c.sess.Subject != "" {
			detail += ", subject " + c.sess.Subject
		}
		if !c.sess.ExpiresAt.IsZero() {
			detail += ", expires " + c.sess.ExpiresAt.Local().Format(time.RFC3339)
		}
		result.add("token", StatusPass, detail)
	default:
		result.add("token", StatusPass, "opaque session token")
	}

	return result
}

// ServerCheck performs one list request against the pull API.
type ServerCheck struct {
	api     notify.API
	timeout time.Duration
}

func NewServerCheck(a notify.API, timeout time.Duration) *ServerCheck {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ServerCheck{api: a, timeout: timeout}
}

func (c *ServerCheck) Name() string { return "Server" }

func (c *ServerCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	res, err := c.api.List(ctx)
	switch {
	case err == nil:
		result.add("list", StatusPass, fmt.Sprintf("%d notifications, %d unread (%s)",
			len(res.Notifications), res.UnreadCount, time.Since(started).Round(time.Millisecond)))
	case api.IsStatus(err, http.StatusUnauthorized), api.IsStatus(err, http.StatusForbidden):
		result.add("list", StatusFail, "token rejected: "+err.Error())
	default:
		result.add("list", StatusFail, err.Error())
	}

	return result
}

// PushCheck opens and immediately closes the push channel. A nil transport
// means push is disabled.
type PushCheck struct {
	transport notify.Transport
	timeout   time.Duration
}

func NewPushCheck(t notify.Transport, timeout time.Duration) *PushCheck {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &PushCheck{transport: t, timeout: timeout}
}

func (c *PushCheck) Name() string { return "Push" }

func (c *PushCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.transport == nil {
		result.add("connect", StatusWarn, "push disabled, running pull-only")
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.transport.Connect(ctx, func(notify.Event) {})
	if err != nil {
		result.add("connect", StatusWarn, "unavailable, the client falls back to pull-only: "+err.Error())
		return result
	}
	_ = conn.Close()

	result.add("connect", StatusPass, "")
	return result
}
