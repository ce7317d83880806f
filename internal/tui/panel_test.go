package tui

import (
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/bell/internal/core/notify"
)

func items(n int) []notify.Item {
	out := make([]notify.Item, n)
	for i := range out {
		id := strconv.Itoa(i + 1)
		out[i] = notify.Item{ID: notify.ID(id), Type: notify.TypeInfo, Title: "title " + id, Message: "message " + id, Age: "2m ago"}
	}
	return out
}

func TestPanel_Selected_empty(t *testing.T) {
	p := NewPanel()
	_, ok := p.Selected()
	assert.False(t, ok)
}

func TestPanel_navigation(t *testing.T) {
	p := NewPanel()
	p.SetItems(items(3))

	id, _ := p.Selected()
	assert.Equal(t, notify.ID("1"), id)

	p.Down()
	p.Down()
	p.Down() // clamps
	id, _ = p.Selected()
	assert.Equal(t, notify.ID("3"), id)

	p.Up()
	id, _ = p.Selected()
	assert.Equal(t, notify.ID("2"), id)
}

func TestPanel_SetItems_follows_selected_id(t *testing.T) {
	p := NewPanel()
	p.SetItems(items(3))
	p.Down() // "2"

	// a new notification is prepended
	next := append([]notify.Item{{ID: "9", Title: "new"}}, items(3)...)
	p.SetItems(next)

	id, _ := p.Selected()
	assert.Equal(t, notify.ID("2"), id)
}

func TestPanel_SetItems_clamps_after_removal(t *testing.T) {
	p := NewPanel()
	p.SetItems(items(3))
	p.Down()
	p.Down() // "3"

	p.SetItems(items(2))

	id, ok := p.Selected()
	require.True(t, ok)
	assert.Equal(t, notify.ID("2"), id)

	p.SetItems(nil)
	_, ok = p.Selected()
	assert.False(t, ok)
}

func TestPanel_View_empty(t *testing.T) {
	p := NewPanel()
	out := ansi.Strip(p.View(60, 20))
	assert.Contains(t, out, "Notifications (0)")
	assert.Contains(t, out, "No notifications")
}

func TestPanel_View_renders_items(t *testing.T) {
	p := NewPanel()
	list := items(2)
	list[1].Read = true
	p.SetItems(list)

	out := ansi.Strip(p.View(60, 20))
	assert.Contains(t, out, "Notifications (2)")
	assert.Contains(t, out, "1 unread")
	assert.Contains(t, out, "title 1")
	assert.Contains(t, out, "message 2")
	assert.Contains(t, out, "2m ago")
}

func TestPanel_View_markup_is_literal(t *testing.T) {
	p := NewPanel()
	p.SetItems([]notify.Item{{ID: "1", Title: "<b>bold</b>", Message: "a & b"}})

	out := ansi.Strip(p.View(60, 20))
	assert.Contains(t, out, "<b>bold</b>")
	assert.Contains(t, out, "a & b")
}

func TestPanel_View_scrolls_to_cursor(t *testing.T) {
	p := NewPanel()
	p.SetItems(items(20))
	for range 15 {
		p.Down()
	}

	out := ansi.Strip(p.View(60, 12)) // four items fit
	assert.Contains(t, out, "title 16")
	assert.NotContains(t, out, "title 12")
	assert.True(t, strings.Contains(out, "of 20"))
}
