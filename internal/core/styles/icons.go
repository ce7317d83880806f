package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconBell       = "\U000F009A" // 󰂚
	IconBellRing   = "\U000F009E" // 󰂞
	IconBellOff    = "\U000F009B" // 󰂛
	IconUnreadDot  = "●"
	IconReadDot    = "○"
	IconCursor     = "▌"
	IconInfo       = "\uf05a"
	IconSuccess    = "\uf058"
	IconWarning    = "\uf071"
	IconError      = "\uf057"
	IconAssignment = "\U000F0219" // 󰈙
	IconGraded     = "\U000F012C" // 󰄬
)

// Connection status glyphs
var (
	IconConnected    = "●"
	IconConnecting   = "◌"
	IconDisconnected = "○"
)

// IconForType returns the glyph shown next to a notification of the given
// type. Unknown types fall back to the info icon.
func IconForType(t string) string {
	switch t {
	case "success":
		return IconSuccess
	case "warning":
		return IconWarning
	case "error":
		return IconError
	case "assignment_submitted":
		return IconAssignment
	case "assignment_graded":
		return IconGraded
	default:
		return IconInfo
	}
}
