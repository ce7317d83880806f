package tui

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/bell/internal/core/notify"
	"github.com/hay-kot/bell/pkg/tuitest"
)

type authed bool

func (a authed) Authenticated() bool { return bool(a) }

// stubAPI serves a fixed list and records calls. Requests run on queue
// workers, so access is locked.
type stubAPI struct {
	mu      sync.Mutex
	list    notify.ListResult
	reads   []notify.ID
	deletes []notify.ID
	allRead int
	lists   int
}

func (a *stubAPI) List(context.Context) (notify.ListResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lists++
	out := notify.ListResult{UnreadCount: a.list.UnreadCount}
	out.Notifications = append(out.Notifications, a.list.Notifications...)
	return out, nil
}

func (a *stubAPI) MarkRead(_ context.Context, id notify.ID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reads = append(a.reads, id)
	for i := range a.list.Notifications {
		if a.list.Notifications[i].ID == id && !a.list.Notifications[i].IsRead {
			a.list.Notifications[i].IsRead = true
			a.list.UnreadCount--
		}
	}
	return nil
}

func (a *stubAPI) MarkAllRead(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.allRead++
	for i := range a.list.Notifications {
		a.list.Notifications[i].IsRead = true
	}
	a.list.UnreadCount = 0
	return nil
}

func (a *stubAPI) Delete(_ context.Context, id notify.ID) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deletes = append(a.deletes, id)
	kept := a.list.Notifications[:0]
	for _, n := range a.list.Notifications {
		if n.ID != id {
			kept = append(kept, n)
		} else if !n.IsRead {
			a.list.UnreadCount--
		}
	}
	a.list.Notifications = kept
	return nil
}

func (a *stubAPI) snapshot() (reads, deletes []notify.ID, allRead int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]notify.ID(nil), a.reads...), append([]notify.ID(nil), a.deletes...), a.allRead
}

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func seeded(unread, read int) *stubAPI {
	api := &stubAPI{}
	for i := range unread + read {
		api.list.Notifications = append(api.list.Notifications, notify.Notification{
			ID:        notify.ID(strconv.Itoa(i + 1)),
			Title:     "title " + strconv.Itoa(i+1),
			Message:   "message " + strconv.Itoa(i+1),
			Type:      notify.TypeInfo,
			CreatedAt: notify.Timestamp{Time: now.Add(-5 * time.Minute)},
			IsRead:    i >= unread,
		})
	}
	api.list.UnreadCount = unread
	return api
}

func newTestModel(t *testing.T, api notify.API) Model {
	t.Helper()
	nop := zerolog.Nop()
	m := New(Options{
		Session: authed(true),
		API:     api,
		Now:     func() time.Time { return now },
		Logger:  &nop,
	})
	return update(t, m, tuitest.WindowSize(100, 30))
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

// settle applies queued effects until background requests stop producing
// new ones.
func settle(t *testing.T, m Model) Model {
	t.Helper()
	for range 5 {
		m.queue.Wait()
		m = update(t, m, effectsReadyMsg{})
	}
	return m
}

func start(t *testing.T, m Model) Model {
	t.Helper()
	return settle(t, update(t, m, startMsg{}))
}

func press(t *testing.T, m Model, text string) Model {
	t.Helper()
	return update(t, m, tuitest.KeyPress(text))
}

func render(m Model) string {
	return tuitest.StripANSI(m.render())
}

func TestModel_Start_loads_pull_only(t *testing.T) {
	m := start(t, newTestModel(t, seeded(2, 1)))

	view := m.sink.view
	assert.Equal(t, notify.StatusDisconnected, view.Status)
	assert.Equal(t, 2, view.UnreadCount)
	assert.Len(t, view.Items, 3)
	assert.False(t, view.PanelVisible)

	out := render(m)
	assert.Contains(t, out, "bell")
	assert.Contains(t, out, "2 unread notifications")
	assert.Contains(t, out, "offline")
}

func TestModel_Header_badge_caps(t *testing.T) {
	api := seeded(0, 1)
	api.list.UnreadCount = 150
	m := start(t, newTestModel(t, api))

	assert.Contains(t, render(m), "99+")
}

func TestModel_TogglePanel_marks_unread_read(t *testing.T) {
	api := seeded(2, 1)
	m := start(t, newTestModel(t, api))

	m = settle(t, press(t, m, "n"))

	assert.True(t, m.sink.view.PanelVisible)
	reads, _, _ := api.snapshot()
	assert.ElementsMatch(t, []notify.ID{"1", "2"}, reads)

	// without a push channel each read reconciles with a pull
	assert.Equal(t, 0, m.sink.view.UnreadCount)
	assert.Contains(t, render(m), "Notifications (3)")

	m = press(t, m, "n")
	assert.False(t, m.sink.view.PanelVisible)
}

func TestModel_Panel_delete_selected(t *testing.T) {
	api := seeded(0, 3)
	m := start(t, newTestModel(t, api))
	m = settle(t, press(t, m, "n"))

	m = press(t, m, "j")
	m = settle(t, press(t, m, "d"))

	_, deletes, _ := api.snapshot()
	assert.Equal(t, []notify.ID{"2"}, deletes)
	require.Len(t, m.sink.view.Items, 2)

	// cursor clamps to the item that took the deleted one's place
	id, ok := m.panel.Selected()
	require.True(t, ok)
	assert.Equal(t, notify.ID("3"), id)
}

func TestModel_Panel_keys_ignored_when_closed(t *testing.T) {
	api := seeded(1, 0)
	m := start(t, newTestModel(t, api))

	m = settle(t, press(t, m, "d"))
	m = settle(t, press(t, m, "m"))

	reads, deletes, _ := api.snapshot()
	assert.Empty(t, reads)
	assert.Empty(t, deletes)
}

func TestModel_Escape_closes_panel_without_marking(t *testing.T) {
	api := seeded(0, 2)
	m := start(t, newTestModel(t, api))
	m = settle(t, press(t, m, "n"))

	m = update(t, m, tuitest.KeyCode(tea.KeyEscape))
	assert.False(t, m.sink.view.PanelVisible)
}

func TestModel_MarkAllRead(t *testing.T) {
	api := seeded(3, 0)
	m := start(t, newTestModel(t, api))

	m = settle(t, press(t, m, "A"))

	_, _, all := api.snapshot()
	assert.Equal(t, 1, all)
	assert.Equal(t, 0, m.sink.view.UnreadCount)
	assert.Contains(t, render(m), "all caught up")
}

func TestModel_NewNotification_toasts(t *testing.T) {
	m := start(t, newTestModel(t, seeded(0, 0)))

	ev, err := notify.NewEvent(notify.EventNewNotification, notify.NewNotificationPayload{
		Notification: notify.Notification{ID: "7", Title: "Essay graded", Message: "\x1b[31m85/100\x1b[0m", Type: notify.TypeAssignmentGraded},
	})
	require.NoError(t, err)
	m.mgr.HandleEvent(ev)

	next, cmd := m.Update(effectsReadyMsg{})
	m = next.(Model)
	assert.NotNil(t, cmd)

	require.True(t, m.toasts.HasToasts())
	assert.True(t, m.toasts.Ticking())

	out := render(m)
	assert.Contains(t, out, "Essay graded")
	assert.Contains(t, out, "85/100")

	m = press(t, m, "x")
	assert.False(t, m.toasts.HasToasts())
}

func TestModel_ToastTick_stops_when_empty(t *testing.T) {
	m := newTestModel(t, seeded(0, 0))
	m.toasts.Push(notify.Toast{ID: "1", TTL: toastTickInterval})
	m.toasts.SetTicking(true)

	next, cmd := m.Update(toastTickMsg(now))
	m = next.(Model)

	assert.Nil(t, cmd)
	assert.False(t, m.toasts.Ticking())
}

func TestModel_Help_toggles(t *testing.T) {
	m := newTestModel(t, seeded(0, 0))

	m = press(t, m, "?")
	assert.True(t, m.showHelp)
	assert.Contains(t, render(m), "esc/? close")

	m = press(t, m, "?")
	assert.False(t, m.showHelp)
}

func TestModel_Quit_closes_manager(t *testing.T) {
	m := start(t, newTestModel(t, seeded(1, 0)))

	next, cmd := m.Update(tuitest.KeyPress("q"))
	m = next.(Model)

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)
	assert.Equal(t, 0, m.mgr.UnreadCount())
	assert.Equal(t, notify.StatusDisconnected, m.mgr.Status())
}

func TestModel_CtrlC_quits_with_panel_open(t *testing.T) {
	m := start(t, newTestModel(t, seeded(1, 0)))
	m = settle(t, press(t, m, "n"))

	_, cmd := m.Update(tuitest.KeyCtrl('c'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
