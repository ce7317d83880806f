package tui

import (
	"fmt"
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/hay-kot/bell/internal/core/notify"
	"github.com/hay-kot/bell/internal/core/styles"
	"github.com/hay-kot/bell/internal/tui/components"
)

// rowsPerItem is the rendered height of one notification.
const rowsPerItem = 2

// Panel is the notification list. It owns only presentation state: the
// cursor and scroll offset. Items are replaced wholesale on every render.
type Panel struct {
	items  []notify.Item
	cursor int
	scroll int // first visible item index
}

func NewPanel() *Panel {
	return &Panel{}
}

// SetItems replaces the listed items. The cursor follows the previously
// selected id when it is still present and is clamped otherwise.
func (p *Panel) SetItems(items []notify.Item) {
	selected, hadSelection := p.Selected()
	p.items = items

	if hadSelection {
		for i, it := range items {
			if it.ID == selected {
				p.cursor = i
				return
			}
		}
	}
	p.cursor = min(p.cursor, max(len(items)-1, 0))
	p.scroll = min(p.scroll, p.cursor)
}

// Selected returns the id under the cursor.
func (p *Panel) Selected() (notify.ID, bool) {
	if len(p.items) == 0 {
		return "", false
	}
	return p.items[p.cursor].ID, true
}

func (p *Panel) Up() {
	if p.cursor > 0 {
		p.cursor--
	}
}

func (p *Panel) Down() {
	if p.cursor < len(p.items)-1 {
		p.cursor++
	}
}

func (p *Panel) ensureVisible(visible int) {
	if p.cursor < p.scroll {
		p.scroll = p.cursor
	}
	if p.cursor >= p.scroll+visible {
		p.scroll = p.cursor - visible + 1
	}
}

// View renders the panel into a box of the given outer size.
func (p *Panel) View(width, height int) string {
	innerWidth := max(width-4, 20) // border + padding

	unread := 0
	for _, it := range p.items {
		if !it.Read {
			unread++
		}
	}
	title := styles.PanelTitleStyle.Render(fmt.Sprintf("Notifications (%d)", len(p.items)))
	if unread > 0 {
		title += styles.ItemAgeStyle.Render(fmt.Sprintf("  %d unread", unread))
	}

	if len(p.items) == 0 {
		empty := styles.PanelEmptyStyle.Render("No notifications")
		return styles.PanelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, empty))
	}

	visible := max((height-4)/rowsPerItem, 1) // border + title + spacer
	p.ensureVisible(visible)
	end := min(p.scroll+visible, len(p.items))

	rows := make([]string, 0, (end-p.scroll)*rowsPerItem)
	for i := p.scroll; i < end; i++ {
		rows = append(rows, p.renderItem(p.items[i], i == p.cursor, innerWidth)...)
	}

	body := strings.Join(rows, "\n")
	if len(p.items) > visible {
		body += "\n" + styles.ItemAgeStyle.Render(fmt.Sprintf("%d-%d of %d", p.scroll+1, end, len(p.items)))
	}

	return styles.PanelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", body))
}

func (p *Panel) renderItem(it notify.Item, selected bool, width int) []string {
	cursor := " "
	if selected {
		cursor = styles.ItemCursorStyle.Render(styles.IconCursor)
	}

	dot := styles.ItemAgeStyle.Render(styles.IconReadDot)
	titleStyle := styles.ItemReadTitleStyle
	if !it.Read {
		dot = styles.UnreadDotStyle.Render(styles.IconUnreadDot)
		titleStyle = styles.ItemTitleStyle
	}

	icon := lipgloss.NewStyle().Foreground(styles.ColorForType(string(it.Type))).Render(styles.IconForType(string(it.Type)))
	age := styles.ItemAgeStyle.Render(it.Age)

	// cursor, dot, icon and their separating spaces
	const lead = 6
	titleWidth := max(width-lead-lipgloss.Width(age)-1, 1)
	title := titleStyle.Render(ansi.Truncate(it.Title, titleWidth, "…"))
	gap := components.Pad(width - lead - lipgloss.Width(title) - lipgloss.Width(age))

	first := cursor + " " + dot + " " + icon + " " + title + gap + age
	second := cursor + components.Pad(lead-1) + styles.ItemMessageStyle.Render(ansi.Truncate(it.Message, max(width-lead, 1), "…"))

	if selected {
		first = styles.ItemSelectedStyle.Render(first)
		second = styles.ItemSelectedStyle.Render(second)
	}
	return []string{first, second}
}
