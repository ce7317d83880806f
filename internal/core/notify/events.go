package notify

import "encoding/json"

// EventName identifies a push channel event.
type EventName string

// Inbound events.
const (
	EventConnected            EventName = "connected"
	EventNewNotification      EventName = "new_notification"
	EventNotificationRead     EventName = "notification_read"
	EventAllNotificationsRead EventName = "all_notifications_read"
	EventUnreadCountUpdate    EventName = "unread_count_update"
	EventDisconnect           EventName = "disconnect"
	EventError                EventName = "error"
)

// Outbound events.
const (
	EventMarkRead       EventName = "mark_read"
	EventGetUnreadCount EventName = "get_unread_count"
)

// Event is a single inbound push channel frame. Payload is decoded lazily by
// the manager according to Name.
type Event struct {
	Name    EventName       `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ConnectedPayload is the handshake sent by the server once the socket joins
// the user's room.
type ConnectedPayload struct {
	Message     string `json:"message,omitempty"`
	UnreadCount int    `json:"unread_count"`
}

// NewNotificationPayload carries a freshly created notification.
type NewNotificationPayload struct {
	Notification Notification `json:"notification"`
}

// NotificationReadPayload identifies a notification marked read on the server.
type NotificationReadPayload struct {
	NotificationID ID `json:"notification_id"`
}

// UnreadCountPayload is the server's authoritative unread count.
type UnreadCountPayload struct {
	UnreadCount int `json:"unread_count"`
}

// ErrorPayload is sent by the server or synthesized by the transport when the
// channel reports a failure.
type ErrorPayload struct {
	Reason string `json:"reason"`
}

// MarkReadPayload is emitted after a mark-one-read request succeeds.
type MarkReadPayload struct {
	NotificationID ID `json:"notification_id"`
}

// NewEvent builds an Event with payload marshalled to JSON. A nil payload
// produces an event without a body.
func NewEvent(name EventName, payload any) (Event, error) {
	if payload == nil {
		return Event{Name: name}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{Name: name, Payload: raw}, nil
}
