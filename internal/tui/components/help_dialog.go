// Package components provides reusable TUI components.
package components

import (
	"strings"

	"charm.land/bubbles/v2/key"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/hay-kot/bell/internal/core/styles"
)

// HelpEntry represents a single keyboard shortcut entry.
type HelpEntry struct {
	Key  string
	Desc string
}

// HelpDialogSection groups related help entries under a title.
type HelpDialogSection struct {
	Title   string
	Entries []HelpEntry
}

// EntriesFromBindings converts key bindings into help entries, skipping
// disabled bindings.
func EntriesFromBindings(bindings ...key.Binding) []HelpEntry {
	entries := make([]HelpEntry, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		entries = append(entries, HelpEntry{Key: h.Key, Desc: h.Desc})
	}
	return entries
}

// HelpDialog displays all available keyboard shortcuts.
type HelpDialog struct {
	title    string
	sections []HelpDialogSection
}

// NewHelpDialog creates a new help dialog with the given sections.
func NewHelpDialog(title string, sections []HelpDialogSection) *HelpDialog {
	return &HelpDialog{
		title:    title,
		sections: sections,
	}
}

// View renders the help dialog. Keys are aligned to the widest key across
// all sections and dividers span the widest line.
func (h *HelpDialog) View() string {
	keyWidth := 0
	for _, section := range h.sections {
		for _, e := range section.Entries {
			keyWidth = max(keyWidth, lipgloss.Width(e.Key))
		}
	}
	keyWidth += 2

	rows := make([][]string, len(h.sections))
	width := lipgloss.Width(h.title)
	for i, section := range h.sections {
		for _, e := range section.Entries {
			row := styles.ItemCursorStyle.Bold(true).Render(PadRight(e.Key, keyWidth, lipgloss.Width(e.Key))) +
				styles.CommandStyle.Render(e.Desc)
			width = max(width, lipgloss.Width(row))
			rows[i] = append(rows[i], row)
		}
	}

	var lines []string
	for i, section := range h.sections {
		if section.Title != "" {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines,
				styles.CommandHeaderStyle.Render(section.Title),
				styles.DividerStyle.Render(strings.Repeat("─", width)),
			)
		}
		lines = append(lines, rows[i]...)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.PanelTitleStyle.Render(h.title),
		"",
		strings.Join(lines, "\n"),
		"",
		styles.HelpStyle.Render("esc/? close"),
	)

	return styles.PanelStyle.Padding(1, 2).Render(content)
}

// Overlay renders the help dialog as a layer over the given background.
func (h *HelpDialog) Overlay(background string, width, height int) string {
	modal := h.View()

	bgLayer := lipgloss.NewLayer(background)
	modalLayer := lipgloss.NewLayer(modal)

	modalW := lipgloss.Width(modal)
	modalH := lipgloss.Height(modal)
	centerX := max((width-modalW)/2, 0)
	centerY := max((height-modalH)/2, 0)
	modalLayer.X(centerX).Y(centerY).Z(1)

	compositor := lipgloss.NewCompositor(bgLayer, modalLayer)
	return compositor.Render()
}
