// Package logging carries request-scoped log fields through a context and
// provides component loggers on top of the global zerolog logger.
package logging

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Field keys written by Hook and Component.
const (
	KeyComponent      = "cmp"
	KeyUserID         = "user_id"
	KeyOperation      = "op"
	KeyNotificationID = "notification_id"
)

// Fields are the request-scoped values attached to log events.
type Fields struct {
	UserID         string
	Operation      string
	NotificationID string
}

type fieldsKey struct{}

// FromContext returns the fields stored in ctx, or the zero value.
func FromContext(ctx context.Context) Fields {
	if ctx == nil {
		return Fields{}
	}
	f, _ := ctx.Value(fieldsKey{}).(Fields)
	return f
}

func with(ctx context.Context, fn func(*Fields)) context.Context {
	f := FromContext(ctx)
	fn(&f)
	return context.WithValue(ctx, fieldsKey{}, f)
}

// WithUserID records the authenticated user.
func WithUserID(ctx context.Context, id string) context.Context {
	return with(ctx, func(f *Fields) { f.UserID = id })
}

// WithOperation records the API operation in flight.
func WithOperation(ctx context.Context, op string) context.Context {
	return with(ctx, func(f *Fields) { f.Operation = op })
}

// WithNotificationID records the notification an operation targets.
func WithNotificationID(ctx context.Context, id string) context.Context {
	return with(ctx, func(f *Fields) { f.NotificationID = id })
}

// Hook copies Fields from the event context onto every event.
type Hook struct{}

// Run implements zerolog.Hook.
func (Hook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	f := FromContext(e.GetCtx())
	if f.UserID != "" {
		e.Str(KeyUserID, f.UserID)
	}
	if f.Operation != "" {
		e.Str(KeyOperation, f.Operation)
	}
	if f.NotificationID != "" {
		e.Str(KeyNotificationID, f.NotificationID)
	}
}

// Component returns the global logger tagged with a component name and the
// context hook installed.
func Component(name string) zerolog.Logger {
	return log.With().Str(KeyComponent, name).Logger().Hook(Hook{})
}
