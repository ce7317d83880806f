package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/bell/internal/core/notify"
	"github.com/hay-kot/bell/internal/core/styles"
)

func TestToastView_View_empty(t *testing.T) {
	c := NewToastController(0)
	v := NewToastView(c)

	assert.Empty(t, v.View())
}

func TestToastView_View_renders_each_type(t *testing.T) {
	tests := []struct {
		kind notify.Type
		icon string
	}{
		{notify.TypeError, styles.IconError},
		{notify.TypeWarning, styles.IconWarning},
		{notify.TypeSuccess, styles.IconSuccess},
		{notify.TypeAssignmentGraded, styles.IconGraded},
		{notify.TypeInfo, styles.IconInfo},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			c := NewToastController(0)
			v := NewToastView(c)

			c.Push(notify.Toast{ID: "1", Type: tt.kind, Title: "Heads up", Message: "test msg"})

			out := ansi.Strip(v.View())
			require.NotEmpty(t, out)
			assert.Contains(t, out, tt.icon)
			assert.Contains(t, out, "Heads up")
			assert.Contains(t, out, "test msg")
			assert.Contains(t, out, "5s")
		})
	}
}

func TestToastView_View_countdown_rounds_up(t *testing.T) {
	c := NewToastController(0)
	v := NewToastView(c)

	c.Push(infoToast("1", "soon"))
	c.Tick(notify.DefaultToastTTL - 1200*time.Millisecond)

	assert.Contains(t, ansi.Strip(v.View()), "2s")
}

func TestToastView_View_untitled(t *testing.T) {
	c := NewToastController(0)
	v := NewToastView(c)

	c.Push(notify.Toast{ID: "1", Message: "body only"})

	assert.Contains(t, ansi.Strip(v.View()), "Notification")
}

func TestToastView_View_stacks_multiple(t *testing.T) {
	c := NewToastController(0)
	v := NewToastView(c)

	c.Push(infoToast("1", "first"))
	c.Push(infoToast("2", "second"))

	out := ansi.Strip(v.View())
	firstIdx := strings.Index(out, "first")
	secondIdx := strings.Index(out, "second")

	require.NotEqual(t, -1, firstIdx)
	require.NotEqual(t, -1, secondIdx)
	// Oldest (first) should appear before newest (second) in the output.
	assert.Less(t, firstIdx, secondIdx)
}

func TestToastView_Overlay_empty_returns_background(t *testing.T) {
	c := NewToastController(0)
	v := NewToastView(c)

	bg := "background content"
	assert.Equal(t, bg, v.Overlay(bg, 80, 24))
}

func TestToastView_Overlay_positions_lower_right(t *testing.T) {
	c := NewToastController(0)
	v := NewToastView(c)

	c.Push(infoToast("1", "positioned"))

	width := 120
	height := 40

	row := strings.Repeat(" ", width)
	rows := make([]string, height)
	for i := range rows {
		rows[i] = row
	}
	bg := strings.Join(rows, "\n")

	out := ansi.Strip(v.Overlay(bg, width, height))

	lines := strings.Split(out, "\n")
	toastLine := -1
	for i, line := range lines {
		if strings.Contains(line, "positioned") {
			toastLine = i
			break
		}
	}
	require.NotEqual(t, -1, toastLine, "toast text not found in output lines")
	assert.Greater(t, toastLine, height/2, "toast should be in the lower half")
}
