package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/hay-kot/bell/internal/core/logging"
)

// DefaultToastTTL is how long a toast stays visible when no TTL is configured.
const DefaultToastTTL = 5 * time.Second

// Deps are the collaborators a Manager is wired with.
type Deps struct {
	Session Session
	API     API
	// Transport is optional. Without one the manager runs pull-only.
	Transport Transport
	Sink      Sink
	Loop      Loop
}

// Options tune manager behavior.
type Options struct {
	// ToastTTL defaults to DefaultToastTTL.
	ToastTTL time.Duration
	// Mute lists doublestar patterns matched against the notification type.
	// Matching notifications are listed and counted but not toasted.
	Mute []string
	// Now defaults to time.Now.
	Now func() time.Time
	// Logger defaults to the "notify" component logger.
	Logger *zerolog.Logger
}

// Manager owns the client view of a user's notifications.
//
// Manager is not safe for concurrent use. Every method must be called on the
// goroutine that applies the Loop's effects; network I/O is handed to
// Loop.Go and its result is applied back on the loop.
type Manager struct {
	session   Session
	api       API
	transport Transport
	sink      Sink
	loop      Loop

	toastTTL time.Duration
	mute     []string
	now      func() time.Time
	log      zerolog.Logger

	status        Status
	unread        int
	notifications []Notification
	ids           map[ID]struct{}
	panelVisible  bool
	conn          Conn
	started       bool
	closed        bool
}

// NewManager constructs a Manager in the Disconnected state. Nothing is
// requested until Start is called.
func NewManager(deps Deps, opts Options) *Manager {
	m := &Manager{
		session:   deps.Session,
		api:       deps.API,
		transport: deps.Transport,
		sink:      deps.Sink,
		loop:      deps.Loop,
		toastTTL:  opts.ToastTTL,
		mute:      opts.Mute,
		now:       opts.Now,
		ids:       make(map[ID]struct{}),
	}

	if m.sink == nil {
		m.sink = discardSink{}
	}
	if m.toastTTL <= 0 {
		m.toastTTL = DefaultToastTTL
	}
	if m.now == nil {
		m.now = time.Now
	}
	if opts.Logger != nil {
		m.log = *opts.Logger
	} else {
		m.log = logging.Component("notify")
	}

	return m
}

// Start attempts the push connection once. Unauthenticated sessions are left
// untouched. Without a transport, or when the dial fails, the manager
// degrades to pull-only and performs a single reconciliation.
func (m *Manager) Start() {
	if m.started || m.closed {
		return
	}
	m.started = true

	if m.session == nil || !m.session.Authenticated() {
		m.log.Info().Msg("session not authenticated, skipping push connection")
		return
	}

	if m.transport == nil {
		m.log.Warn().Msg("push transport unavailable, running pull-only")
		m.LoadNotifications()
		return
	}

	m.status = StatusConnecting
	m.render()

	transport := m.transport
	deliver := func(ev Event) {
		m.loop.Post(func() { m.HandleEvent(ev) })
	}

	m.loop.Go(func(ctx context.Context) func() {
		conn, err := transport.Connect(ctx, deliver)
		if err != nil {
			m.log.Error().Err(err).Msg("push connection failed")
			return func() {
				if m.closed || m.status != StatusConnecting {
					return
				}
				m.status = StatusDisconnected
				m.render()
				m.LoadNotifications()
			}
		}
		return func() { m.attach(conn) }
	})
}

func (m *Manager) attach(conn Conn) {
	if m.closed || m.status == StatusDisconnected {
		// disconnected before the dial result landed
		_ = conn.Close()
		return
	}
	m.conn = conn
}

// Close ends the session: the push connection is closed, state is discarded
// and late request effects are ignored.
func (m *Manager) Close() {
	if m.closed {
		return
	}
	m.closed = true

	if m.conn != nil {
		if err := m.conn.Close(); err != nil {
			m.log.Debug().Err(err).Msg("closing push connection")
		}
		m.conn = nil
	}

	m.status = StatusDisconnected
	m.unread = 0
	m.notifications = nil
	m.ids = make(map[ID]struct{})
	m.panelVisible = false
}

// HandleEvent applies a single inbound push event.
func (m *Manager) HandleEvent(ev Event) {
	if m.closed {
		return
	}

	switch ev.Name {
	case EventConnected:
		var p ConnectedPayload
		if !m.decode(ev, &p) {
			return
		}
		m.handleConnected(p.UnreadCount)
	case EventNewNotification:
		var p NewNotificationPayload
		if !m.decode(ev, &p) {
			return
		}
		if p.Notification.ID == "" {
			m.log.Debug().Msg("dropping new_notification without an id")
			return
		}
		m.ApplyNewNotification(p.Notification)
	case EventNotificationRead:
		var p NotificationReadPayload
		if !m.decode(ev, &p) {
			return
		}
		m.ApplyReadEvent(p.NotificationID)
	case EventAllNotificationsRead:
		m.ApplyAllReadEvent()
	case EventUnreadCountUpdate:
		var p UnreadCountPayload
		if !m.decode(ev, &p) {
			return
		}
		m.ApplyUnreadCountUpdate(p.UnreadCount)
	case EventDisconnect:
		m.handleDisconnect()
	case EventError:
		var p ErrorPayload
		_ = json.Unmarshal(ev.Payload, &p)
		m.log.Error().Str("reason", p.Reason).Msg("push channel error")
	default:
		m.log.Debug().Str("event", string(ev.Name)).Msg("ignoring unknown push event")
	}
}

func (m *Manager) decode(ev Event, v any) bool {
	if len(ev.Payload) == 0 {
		return true
	}
	if err := json.Unmarshal(ev.Payload, v); err != nil {
		m.log.Error().Err(err).Str("event", string(ev.Name)).Msg("malformed push payload")
		return false
	}
	return true
}

func (m *Manager) handleConnected(unread int) {
	m.status = StatusConnected
	m.unread = max(unread, 0)
	m.log.Info().Int("unread", m.unread).Msg("push channel connected")
	m.render()
	m.LoadNotifications()
}

func (m *Manager) handleDisconnect() {
	m.status = StatusDisconnected
	m.conn = nil
	m.log.Info().Msg("push channel disconnected")
	m.render()
}

// ApplyNewNotification prepends n, bumps the unread count and presents a
// toast. A notification whose id is already held is dropped.
func (m *Manager) ApplyNewNotification(n Notification) {
	if _, dup := m.ids[n.ID]; dup {
		m.log.Debug().Str("id", n.ID.String()).Msg("dropping redelivered notification")
		return
	}

	m.notifications = append([]Notification{n}, m.notifications...)
	m.ids[n.ID] = struct{}{}
	m.unread++

	m.log.Debug().Str("id", n.ID.String()).Str("title", n.Title).Msg("new notification")

	if !m.muted(n.Type) {
		m.sink.Toast(newToast(n, m.toastTTL))
	}
	m.render()
}

// ApplyReadEvent marks id read. Unknown or already read ids are ignored.
func (m *Manager) ApplyReadEvent(id ID) {
	i := m.indexOf(id)
	if i < 0 || m.notifications[i].IsRead {
		return
	}
	m.notifications[i].IsRead = true
	m.unread = max(m.unread-1, 0)
	m.render()
}

// ApplyAllReadEvent marks every held notification read.
func (m *Manager) ApplyAllReadEvent() {
	for i := range m.notifications {
		m.notifications[i].IsRead = true
	}
	m.unread = 0
	m.render()
}

// ApplyUnreadCountUpdate overwrites the unread count with the server's value.
func (m *Manager) ApplyUnreadCountUpdate(count int) {
	m.unread = max(count, 0)
	m.render()
}

// LoadNotifications replaces the list and unread count with the server's
// authoritative copy. Failures leave state unchanged.
func (m *Manager) LoadNotifications() {
	api := m.api
	m.loop.Go(func(ctx context.Context) func() {
		res, err := api.List(ctx)
		if err != nil {
			m.log.Error().Err(err).Msg("loading notifications")
			return nil
		}
		return func() { m.replace(res) }
	})
}

func (m *Manager) replace(res ListResult) {
	if m.closed {
		return
	}

	list := make([]Notification, 0, len(res.Notifications))
	ids := make(map[ID]struct{}, len(res.Notifications))
	for _, n := range res.Notifications {
		if _, dup := ids[n.ID]; dup {
			continue
		}
		ids[n.ID] = struct{}{}
		list = append(list, n)
	}

	m.notifications = list
	m.ids = ids
	m.unread = max(res.UnreadCount, 0)
	m.render()
}

// MarkAsRead asks the server to mark id read. On success the read is echoed
// over the push channel and the local update arrives as notification_read.
// Without a usable push channel the manager reconciles with a pull instead.
func (m *Manager) MarkAsRead(id ID) {
	api := m.api
	m.loop.Go(func(ctx context.Context) func() {
		if err := api.MarkRead(ctx, id); err != nil {
			m.log.Error().Err(err).Str("id", id.String()).Msg("marking notification read")
			return nil
		}
		return func() { m.echoRead(id) }
	})
}

func (m *Manager) echoRead(id ID) {
	if m.closed {
		return
	}

	conn := m.conn
	if conn == nil || m.status != StatusConnected {
		m.LoadNotifications()
		return
	}

	m.loop.Go(func(ctx context.Context) func() {
		err := conn.Emit(ctx, EventMarkRead, MarkReadPayload{NotificationID: id})
		if err != nil {
			m.log.Error().Err(err).Str("id", id.String()).Msg("emitting mark_read")
			return m.LoadNotifications
		}
		return nil
	})
}

// MarkAllAsRead asks the server to mark everything read and then reconciles.
func (m *Manager) MarkAllAsRead() {
	api := m.api
	m.loop.Go(func(ctx context.Context) func() {
		if err := api.MarkAllRead(ctx); err != nil {
			m.log.Error().Err(err).Msg("marking all notifications read")
			return nil
		}
		return func() {
			if !m.closed {
				m.LoadNotifications()
			}
		}
	})
}

// DeleteNotification deletes id on the server and removes it locally. The
// unread count is left for the server to correct.
func (m *Manager) DeleteNotification(id ID) {
	api := m.api
	m.loop.Go(func(ctx context.Context) func() {
		if err := api.Delete(ctx, id); err != nil {
			m.log.Error().Err(err).Str("id", id.String()).Msg("deleting notification")
			return nil
		}
		return func() {
			if m.closed {
				return
			}
			m.remove(id)
			m.render()
			m.healUnreadCount()
		}
	})
}

func (m *Manager) remove(id ID) {
	i := m.indexOf(id)
	if i < 0 {
		return
	}
	m.notifications = append(m.notifications[:i:i], m.notifications[i+1:]...)
	delete(m.ids, id)
}

func (m *Manager) healUnreadCount() {
	if m.conn != nil && m.status == StatusConnected {
		m.RequestUnreadCount()
		return
	}
	m.LoadNotifications()
}

// RequestUnreadCount asks the server for its unread count over the push
// channel. It is a no-op while disconnected.
func (m *Manager) RequestUnreadCount() {
	conn := m.conn
	if conn == nil {
		m.log.Debug().Msg("unread count requested while disconnected")
		return
	}
	m.loop.Go(func(ctx context.Context) func() {
		if err := conn.Emit(ctx, EventGetUnreadCount, nil); err != nil {
			m.log.Error().Err(err).Msg("emitting get_unread_count")
		}
		return nil
	})
}

// TogglePanel flips panel visibility. Opening the panel marks every
// currently unread notification read, one request each. Without a usable
// push channel the batch is followed by a single pull once every request
// has finished.
func (m *Manager) TogglePanel() {
	m.panelVisible = !m.panelVisible
	m.render()

	if !m.panelVisible {
		return
	}

	var unread []ID
	for _, n := range m.notifications {
		if !n.IsRead {
			unread = append(unread, n.ID)
		}
	}
	m.markBatch(unread)
}

func (m *Manager) markBatch(ids []ID) {
	api := m.api
	pending := len(ids)
	reconcile := false

	for _, id := range ids {
		m.loop.Go(func(ctx context.Context) func() {
			err := api.MarkRead(ctx, id)
			return func() {
				pending--
				switch {
				case err != nil:
					m.log.Error().Err(err).Str("id", id.String()).Msg("marking notification read")
				case m.closed:
				case m.conn != nil && m.status == StatusConnected:
					m.echoRead(id)
				default:
					reconcile = true
				}
				if pending == 0 && reconcile && !m.closed {
					m.LoadNotifications()
				}
			}
		})
	}
}

// ClosePanel hides the panel without marking anything read.
func (m *Manager) ClosePanel() {
	if !m.panelVisible {
		return
	}
	m.panelVisible = false
	m.render()
}

// Status returns the push connection state.
func (m *Manager) Status() Status { return m.status }

// UnreadCount returns the current unread count.
func (m *Manager) UnreadCount() int { return m.unread }

// PanelVisible reports whether the list panel is shown.
func (m *Manager) PanelVisible() bool { return m.panelVisible }

// State returns a copy of the current state.
func (m *Manager) State() State {
	list := make([]Notification, len(m.notifications))
	copy(list, m.notifications)
	return State{
		Status:        m.status,
		UnreadCount:   m.unread,
		Notifications: list,
		PanelVisible:  m.panelVisible,
	}
}

// View renders the current state.
func (m *Manager) View() View {
	now := m.now()
	items := make([]Item, 0, len(m.notifications))
	for _, n := range m.notifications {
		items = append(items, newItem(n, now))
	}
	return View{
		Status:       m.status,
		Badge:        BadgeText(m.unread),
		UnreadCount:  m.unread,
		PanelVisible: m.panelVisible,
		Items:        items,
	}
}

func (m *Manager) render() {
	m.sink.Render(m.View())
}

func (m *Manager) indexOf(id ID) int {
	if _, ok := m.ids[id]; !ok {
		return -1
	}
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) muted(t Type) bool {
	for _, pattern := range m.mute {
		ok, err := doublestar.Match(pattern, string(t))
		if err != nil {
			m.log.Warn().Err(err).Str("pattern", pattern).Msg("invalid mute pattern")
			continue
		}
		if ok {
			return true
		}
	}
	return false
}
