package notify

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

var errBoom = errors.New("boom")

type fakeSession bool

func (s fakeSession) Authenticated() bool { return bool(s) }

// inlineLoop mirrors eventloop.Inline without importing it.
type inlineLoop struct{}

func (inlineLoop) Go(work func(ctx context.Context) func()) {
	if apply := work(context.Background()); apply != nil {
		apply()
	}
}

func (inlineLoop) Post(fn func()) { fn() }

type fakeAPI struct {
	list    ListResult
	listErr error
	readErr error
	allErr  error
	delErr  error

	listCalls   int
	readCalls   []ID
	allCalls    int
	deleteCalls []ID
}

func (a *fakeAPI) List(context.Context) (ListResult, error) {
	a.listCalls++
	if a.listErr != nil {
		return ListResult{}, a.listErr
	}
	out := ListResult{UnreadCount: a.list.UnreadCount}
	out.Notifications = append(out.Notifications, a.list.Notifications...)
	return out, nil
}

func (a *fakeAPI) MarkRead(_ context.Context, id ID) error {
	a.readCalls = append(a.readCalls, id)
	return a.readErr
}

func (a *fakeAPI) MarkAllRead(context.Context) error {
	a.allCalls++
	return a.allErr
}

func (a *fakeAPI) Delete(_ context.Context, id ID) error {
	a.deleteCalls = append(a.deleteCalls, id)
	return a.delErr
}

type emitted struct {
	Name    EventName
	Payload any
}

type fakeConn struct {
	emits   []emitted
	emitErr error
	closed  bool
}

func (c *fakeConn) Emit(_ context.Context, name EventName, payload any) error {
	c.emits = append(c.emits, emitted{Name: name, Payload: payload})
	return c.emitErr
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

type fakeTransport struct {
	conn    *fakeConn
	err     error
	calls   int
	deliver func(Event)
}

func (t *fakeTransport) Connect(_ context.Context, deliver func(Event)) (Conn, error) {
	t.calls++
	if t.err != nil {
		return nil, t.err
	}
	t.deliver = deliver
	return t.conn, nil
}

type recordingSink struct {
	views  []View
	toasts []Toast
}

func (s *recordingSink) Render(v View) { s.views = append(s.views, v) }
func (s *recordingSink) Toast(t Toast) { s.toasts = append(s.toasts, t) }

func (s *recordingSink) last() View {
	if len(s.views) == 0 {
		return View{}
	}
	return s.views[len(s.views)-1]
}

type harness struct {
	m         *Manager
	api       *fakeAPI
	transport *fakeTransport
	conn      *fakeConn
	sink      *recordingSink
}

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newHarness(authenticated bool, opts ...func(*Options)) *harness {
	h := &harness{
		api:  &fakeAPI{},
		conn: &fakeConn{},
		sink: &recordingSink{},
	}
	h.transport = &fakeTransport{conn: h.conn}

	nop := zerolog.Nop()
	o := Options{Now: func() time.Time { return testNow }, Logger: &nop}
	for _, fn := range opts {
		fn(&o)
	}

	h.m = NewManager(Deps{
		Session:   fakeSession(authenticated),
		API:       h.api,
		Transport: h.transport,
		Sink:      h.sink,
		Loop:      inlineLoop{},
	}, o)
	return h
}

// connect starts the manager and delivers a handshake.
func (h *harness) connect(unread int) {
	h.m.Start()
	h.push(EventConnected, ConnectedPayload{UnreadCount: unread})
}

func (h *harness) push(name EventName, payload any) {
	ev, err := NewEvent(name, payload)
	if err != nil {
		panic(err)
	}
	h.transport.deliver(ev)
}

func notification(id string, read bool) Notification {
	return Notification{
		ID:        ID(id),
		Title:     "title " + id,
		Message:   "message " + id,
		Type:      TypeInfo,
		CreatedAt: Timestamp{Time: testNow.Add(-2 * time.Minute)},
		IsRead:    read,
	}
}

func mustJSON(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return raw
}
