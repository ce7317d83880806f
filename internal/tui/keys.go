package tui

import (
	"charm.land/bubbles/v2/key"

	"github.com/hay-kot/bell/internal/tui/components"
)

// Action is a user intent resolved from a key press. Every action is handled
// by Model.dispatch together with the id of the selected notification.
type Action int

const (
	ActionNone Action = iota
	ActionMarkRead
	ActionDelete
	ActionMarkAllRead
	ActionTogglePanel
	ActionClosePanel
	ActionReload
	ActionDismissToast
)

func (a Action) String() string {
	switch a {
	case ActionMarkRead:
		return "mark_read"
	case ActionDelete:
		return "delete"
	case ActionMarkAllRead:
		return "mark_all_read"
	case ActionTogglePanel:
		return "toggle_panel"
	case ActionClosePanel:
		return "close_panel"
	case ActionReload:
		return "reload"
	case ActionDismissToast:
		return "dismiss_toast"
	default:
		return "none"
	}
}

// needsSelection reports whether the action targets the selected item.
func (a Action) needsSelection() bool {
	return a == ActionMarkRead || a == ActionDelete
}

// KeyMap holds every binding the TUI reacts to.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	MarkRead    key.Binding
	Delete      key.Binding
	MarkAllRead key.Binding
	Toggle      key.Binding
	Close       key.Binding
	Reload      key.Binding
	Dismiss     key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the built-in bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		MarkRead:    key.NewBinding(key.WithKeys("enter", "m"), key.WithHelp("enter/m", "mark read")),
		Delete:      key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		MarkAllRead: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "mark all read")),
		Toggle:      key.NewBinding(key.WithKeys("n", "tab"), key.WithHelp("n/tab", "toggle panel")),
		Close:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close panel")),
		Reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Dismiss:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss toast")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp is the footer hint line.
func (k KeyMap) ShortHelp(panelOpen bool) []key.Binding {
	if panelOpen {
		return []key.Binding{k.Up, k.Down, k.MarkRead, k.Delete, k.Close, k.Help}
	}
	return []key.Binding{k.Toggle, k.MarkAllRead, k.Reload, k.Help, k.Quit}
}

// HelpSections groups every binding for the help dialog.
func (k KeyMap) HelpSections() []components.HelpDialogSection {
	return []components.HelpDialogSection{
		{Title: "Panel", Entries: components.EntriesFromBindings(k.Up, k.Down, k.MarkRead, k.Delete, k.Close)},
		{Title: "Notifications", Entries: components.EntriesFromBindings(k.Toggle, k.MarkAllRead, k.Reload, k.Dismiss)},
		{Title: "General", Entries: components.EntriesFromBindings(k.Help, k.Quit)},
	}
}
