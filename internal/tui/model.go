// Package tui is the interactive terminal front end for the notification
// manager.
package tui

import (
	"context"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/rs/zerolog"

	"github.com/hay-kot/bell/internal/core/eventloop"
	"github.com/hay-kot/bell/internal/core/logging"
	"github.com/hay-kot/bell/internal/core/notify"
	"github.com/hay-kot/bell/internal/core/styles"
	"github.com/hay-kot/bell/internal/tui/components"
)

type (
	startMsg        struct{}
	effectsReadyMsg struct{}
)

// waitForEffects blocks until the queue has effects to apply.
func waitForEffects(q *eventloop.Queue) tea.Cmd {
	return func() tea.Msg {
		<-q.Signal()
		return effectsReadyMsg{}
	}
}

// Options configures the TUI.
type Options struct {
	Session   notify.Session
	API       notify.API
	Transport notify.Transport // nil runs pull-only
	ToastTTL  time.Duration
	MaxToasts int
	Mute      []string
	// Server is shown in the header.
	Server string
	// Context bounds every request the manager makes.
	Context context.Context
	Logger  *zerolog.Logger
	Now     func() time.Time
}

// Model is the Bubble Tea model. The manager is only touched from Update, so
// the effect queue is drained there as well.
type Model struct {
	mgr       *notify.Manager
	queue     *eventloop.Queue
	sink      *viewSink
	panel     *Panel
	toasts    *ToastController
	toastView *ToastView
	keys      KeyMap
	log       zerolog.Logger

	server   string
	showHelp bool
	width    int
	height   int
	quitting bool
}

// New wires a manager onto a fresh effect queue.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	log := logging.Component("tui")
	if opts.Logger != nil {
		log = *opts.Logger
	}

	queue := eventloop.NewQueue(ctx)
	sink := &viewSink{}
	toasts := NewToastController(opts.MaxToasts)

	mgr := notify.NewManager(notify.Deps{
		Session:   opts.Session,
		API:       opts.API,
		Transport: opts.Transport,
		Sink:      sink,
		Loop:      queue,
	}, notify.Options{
		ToastTTL: opts.ToastTTL,
		Mute:     opts.Mute,
		Now:      opts.Now,
		Logger:   opts.Logger,
	})
	sink.view = mgr.View()

	return Model{
		mgr:       mgr,
		queue:     queue,
		sink:      sink,
		panel:     NewPanel(),
		toasts:    toasts,
		toastView: NewToastView(toasts),
		keys:      DefaultKeyMap(),
		log:       log,
		server:    opts.Server,
		width:     80,
		height:    24,
	}
}

// Manager exposes the wrapped manager.
func (m Model) Manager() *notify.Manager { return m.mgr }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return startMsg{} },
		waitForEffects(m.queue),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case startMsg:
		m.mgr.Start()
		return m, m.sync()
	case effectsReadyMsg:
		m.queue.RunPending()
		return m, tea.Batch(m.sync(), waitForEffects(m.queue))
	case toastTickMsg:
		m.toasts.Tick(toastTickInterval)
		if m.toasts.HasToasts() {
			return m, scheduleToastTick()
		}
		m.toasts.SetTicking(false)
		return m, nil
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.mgr.Close()
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Close) {
			m.showHelp = false
		}
		return m, nil
	}

	panelOpen := m.sink.view.PanelVisible
	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		return m.dispatch(ActionTogglePanel)
	case key.Matches(msg, m.keys.MarkAllRead):
		return m.dispatch(ActionMarkAllRead)
	case key.Matches(msg, m.keys.Reload):
		return m.dispatch(ActionReload)
	case key.Matches(msg, m.keys.Dismiss):
		return m.dispatch(ActionDismissToast)
	}

	if !panelOpen {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.panel.Up()
	case key.Matches(msg, m.keys.Down):
		m.panel.Down()
	case key.Matches(msg, m.keys.MarkRead):
		return m.dispatch(ActionMarkRead)
	case key.Matches(msg, m.keys.Delete):
		return m.dispatch(ActionDelete)
	case key.Matches(msg, m.keys.Close):
		return m.dispatch(ActionClosePanel)
	}
	return m, nil
}

// dispatch is the single entry point from user input to the manager. Item
// actions resolve the selected id here, so rows never carry callbacks.
func (m Model) dispatch(action Action) (tea.Model, tea.Cmd) {
	var id notify.ID
	if action.needsSelection() {
		selected, ok := m.panel.Selected()
		if !ok {
			return m, nil
		}
		id = selected
	}

	m.log.Debug().Str("action", action.String()).Str("id", id.String()).Msg("dispatch")

	switch action {
	case ActionMarkRead:
		m.mgr.MarkAsRead(id)
	case ActionDelete:
		m.toasts.DismissID(id)
		m.mgr.DeleteNotification(id)
	case ActionMarkAllRead:
		m.mgr.MarkAllAsRead()
	case ActionTogglePanel:
		m.mgr.TogglePanel()
	case ActionClosePanel:
		m.mgr.ClosePanel()
	case ActionReload:
		m.mgr.LoadNotifications()
	case ActionDismissToast:
		m.toasts.Dismiss()
	}

	return m, m.sync()
}

// sync copies the latest rendered view into the panel and moves new toasts
// onto the stack.
func (m Model) sync() tea.Cmd {
	m.panel.SetItems(m.sink.view.Items)

	for _, t := range m.sink.takeToasts() {
		m.toasts.Push(t)
	}

	if m.toasts.HasToasts() && !m.toasts.Ticking() {
		m.toasts.SetTicking(true)
		return scheduleToastTick()
	}
	return nil
}

// View implements tea.Model.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	header := m.renderHeader(w)
	footer := m.renderFooter()
	bodyHeight := max(h-lipgloss.Height(header)-lipgloss.Height(footer), 3)

	var body string
	if m.sink.view.PanelVisible {
		body = m.panel.View(w, bodyHeight)
	} else {
		body = m.renderSummary()
	}
	body = lipgloss.NewStyle().Height(bodyHeight).Render(body)

	content := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	content = m.toastView.Overlay(content, w, h)
	if m.showHelp {
		content = components.NewHelpDialog("Keys", m.keys.HelpSections()).Overlay(content, w, h)
	}
	return content
}

func (m Model) renderHeader(width int) string {
	view := m.sink.view

	icon := styles.IconBell
	if view.UnreadCount > 0 {
		icon = styles.IconBellRing
	}
	left := styles.HeaderTitleStyle.Render(icon + " bell")
	if view.Badge != "" {
		left += " " + styles.BadgeStyle.Render(view.Badge)
	}

	right := renderStatus(view.Status)
	if m.server != "" {
		right = styles.ItemAgeStyle.Render(m.server) + "  " + right
	}

	gap := components.Pad(width - 2 - lipgloss.Width(left) - lipgloss.Width(right))
	return styles.HeaderStyle.Width(width).Render(left + gap + right)
}

func renderStatus(s notify.Status) string {
	switch s {
	case notify.StatusConnected:
		return styles.StatusOnlineStyle.Render(styles.IconConnected + " live")
	case notify.StatusConnecting:
		return styles.StatusPendingStyle.Render(styles.IconConnecting + " connecting")
	default:
		return styles.StatusOfflineStyle.Render(styles.IconDisconnected + " offline")
	}
}

func (m Model) renderSummary() string {
	view := m.sink.view

	var line string
	switch view.UnreadCount {
	case 0:
		line = "You're all caught up"
	case 1:
		line = "1 unread notification"
	default:
		line = view.Badge + " unread notifications"
	}

	lines := []string{styles.PanelTitleStyle.Render(line)}
	if len(view.Items) > 0 {
		latest := view.Items[0]
		lines = append(lines, styles.ItemMessageStyle.Render("latest: "+latest.Title+" · "+latest.Age))
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}

func (m Model) renderFooter() string {
	bindings := m.keys.ShortHelp(m.sink.view.PanelVisible)
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return styles.HelpStyle.MarginTop(0).Padding(0, 1).Render(strings.Join(parts, "  "))
}
