package notify

import "context"

// Session reports whether the current user is authenticated. The manager
// never attempts a push connection for unauthenticated sessions.
type Session interface {
	Authenticated() bool
}

// ListResult is the authoritative list returned by the pull API.
type ListResult struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}

// API is the request/response side of the server.
type API interface {
	List(ctx context.Context) (ListResult, error)
	MarkRead(ctx context.Context, id ID) error
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id ID) error
}

// Transport opens the push channel. Connect must call deliver for every
// inbound event in the order received, and deliver a final EventDisconnect
// when the connection ends for any reason other than Conn.Close.
type Transport interface {
	Connect(ctx context.Context, deliver func(Event)) (Conn, error)
}

// Conn is an open push channel.
type Conn interface {
	Emit(ctx context.Context, name EventName, payload any) error
	Close() error
}

// Sink receives rendered state. Render is called synchronously after every
// mutation; Toast is called when a new notification should be presented.
type Sink interface {
	Render(v View)
	Toast(t Toast)
}

// Loop serializes state mutation onto a single logical thread.
type Loop interface {
	// Go runs work off the loop. A non-nil returned func is applied on the
	// loop once work completes.
	Go(work func(ctx context.Context) func())
	// Post schedules fn on the loop. Calls are applied in order.
	Post(fn func())
}

// SinkFunc adapts a render function into a Sink that ignores toasts.
type SinkFunc func(View)

func (f SinkFunc) Render(v View) { f(v) }
func (f SinkFunc) Toast(Toast)   {}

type discardSink struct{}

func (discardSink) Render(View)  {}
func (discardSink) Toast(Toast) {}
