package notify

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// MaxBadgeCount is the largest count shown verbatim on the badge.
const MaxBadgeCount = 99

// View is the rendered form of the manager state handed to a Sink.
type View struct {
	Status       Status `json:"status"`
	Badge        string `json:"badge"`
	UnreadCount  int    `json:"unread_count"`
	PanelVisible bool   `json:"panel_visible"`
	Items        []Item `json:"items"`
}

// Item is one rendered list row. Title and Message are sanitized; ID is the
// opaque handle a delegated handler passes back to the manager.
type Item struct {
	ID      ID     `json:"id"`
	Type    Type   `json:"notification_type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Age     string `json:"age"`
	Read    bool   `json:"is_read"`
}

// Toast is a transient presentation of a new notification.
type Toast struct {
	ID      ID            `json:"id"`
	Type    Type          `json:"notification_type"`
	Title   string        `json:"title"`
	Message string        `json:"message"`
	TTL     time.Duration `json:"ttl"`
}

// BadgeText returns the badge label for count: empty when there is nothing
// unread, "99+" past MaxBadgeCount.
func BadgeText(count int) string {
	switch {
	case count <= 0:
		return ""
	case count > MaxBadgeCount:
		return strconv.Itoa(MaxBadgeCount) + "+"
	default:
		return strconv.Itoa(count)
	}
}

// RelativeTime formats t relative to now the way the list shows it.
func RelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "just now"
	}

	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return strconv.Itoa(int(diff/time.Minute)) + "m ago"
	case diff < 24*time.Hour:
		return strconv.Itoa(int(diff/time.Hour)) + "h ago"
	case diff < 7*24*time.Hour:
		return strconv.Itoa(int(diff/(24*time.Hour))) + "d ago"
	default:
		return t.Local().Format("2006-01-02")
	}
}

// Sanitize makes untrusted text safe to place on a terminal. Escape
// sequences are removed, newlines and tabs collapse to a single space, and any
// other control character is dropped. Printable text, including markup
// characters such as '<', '>' and '&', is kept literally.
func Sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		return r
	}, s)
	s = ansi.Strip(s)

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case r == ' ':
			if !space && b.Len() > 0 {
				b.WriteByte(' ')
				space = true
			}
		case unicode.IsControl(r), r == unicode.ReplacementChar:
			// dropped
		default:
			b.WriteRune(r)
			space = false
		}
	}
	return strings.TrimSpace(b.String())
}

func newItem(n Notification, now time.Time) Item {
	return Item{
		ID:      n.ID,
		Type:    n.Type,
		Title:   Sanitize(n.Title),
		Message: Sanitize(n.Message),
		Age:     RelativeTime(n.CreatedAt.Time, now),
		Read:    n.IsRead,
	}
}

func newToast(n Notification, ttl time.Duration) Toast {
	return Toast{
		ID:      n.ID,
		Type:    n.Type,
		Title:   Sanitize(n.Title),
		Message: Sanitize(n.Message),
		TTL:     ttl,
	}
}
