package tui

import "github.com/hay-kot/bell/internal/core/notify"

// viewSink collects manager output between Bubble Tea updates. The manager
// only runs inside Update, so no locking is needed.
type viewSink struct {
	view    notify.View
	toasts  []notify.Toast
	renders int
}

func (s *viewSink) Render(v notify.View) {
	s.view = v
	s.renders++
}

func (s *viewSink) Toast(t notify.Toast) {
	s.toasts = append(s.toasts, t)
}

// takeToasts returns pending toasts and clears them.
func (s *viewSink) takeToasts() []notify.Toast {
	if len(s.toasts) == 0 {
		return nil
	}
	out := s.toasts
	s.toasts = nil
	return out
}
