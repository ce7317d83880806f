package tui

import (
	"time"

	"github.com/hay-kot/bell/internal/core/notify"
)

const (
	defaultMaxToasts  = 5
	toastTickInterval = 100 * time.Millisecond
	toastWidth        = 50
)

type toast struct {
	toast     notify.Toast
	remaining time.Duration
}

// ToastController manages the lifecycle of active toast notifications.
// It handles push, eviction, TTL countdown, and dismissal.
type ToastController struct {
	toasts  []toast
	max     int
	ticking bool
}

// NewToastController returns a controller holding at most maxToasts. Values
// below one fall back to defaultMaxToasts.
func NewToastController(maxToasts int) *ToastController {
	if maxToasts < 1 {
		maxToasts = defaultMaxToasts
	}
	return &ToastController{max: maxToasts}
}

// Push adds a toast to the stack. It stays for t.TTL, or
// notify.DefaultToastTTL when unset. If the stack exceeds its maximum, the
// oldest toast is evicted.
func (c *ToastController) Push(t notify.Toast) {
	ttl := t.TTL
	if ttl <= 0 {
		ttl = notify.DefaultToastTTL
	}
	c.toasts = append(c.toasts, toast{toast: t, remaining: ttl})
	if len(c.toasts) > c.max {
		c.toasts = c.toasts[len(c.toasts)-c.max:]
	}
}

// Tick decrements the remaining TTL on all toasts by d and removes
// any that have expired.
func (c *ToastController) Tick(d time.Duration) {
	alive := c.toasts[:0]
	for _, t := range c.toasts {
		t.remaining -= d
		if t.remaining > 0 {
			alive = append(alive, t)
		}
	}
	c.toasts = alive
}

// Dismiss removes the newest (bottom-most) toast.
func (c *ToastController) Dismiss() {
	if len(c.toasts) > 0 {
		c.toasts = c.toasts[:len(c.toasts)-1]
	}
}

// DismissID removes every toast for the given notification, e.g. once it has
// been read or deleted from the panel.
func (c *ToastController) DismissID(id notify.ID) {
	alive := c.toasts[:0]
	for _, t := range c.toasts {
		if t.toast.ID != id {
			alive = append(alive, t)
		}
	}
	c.toasts = alive
}

// DismissAll removes all active toasts.
func (c *ToastController) DismissAll() {
	c.toasts = c.toasts[:0]
}

// HasToasts returns true if there are any active toasts.
func (c *ToastController) HasToasts() bool {
	return len(c.toasts) > 0
}

// Toasts returns the current active toast slice.
func (c *ToastController) Toasts() []toast {
	return c.toasts
}

// Ticking returns whether the tick timer is currently running.
func (c *ToastController) Ticking() bool {
	return c.ticking
}

// SetTicking sets the tick timer state.
func (c *ToastController) SetTicking(v bool) {
	c.ticking = v
}
