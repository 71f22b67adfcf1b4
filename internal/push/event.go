// Package push implements the WebSocket push channel to connected pads:
// admission via the subprotocol header, per-pad event delivery, broadcast,
// and the heartbeat loop.
package push

import "time"

// EventType names a push event.
type EventType string

const (
	// EventShow asks the pad to display the capture dialog.
	EventShow EventType = "show"
	// EventHide asks the pad to dismiss the capture dialog.
	EventHide EventType = "hide"
	// EventHeartbeat keeps the connection alive through idle proxies.
	EventHeartbeat EventType = "heartbeat"
	// EventClear asks the pad to wipe its current input.
	EventClear EventType = "clear"
	// EventError informs the pad about a server-side failure.
	EventError EventType = "error"
)

// Event is the JSON payload pushed to pads.
type Event struct {
	Event     EventType `json:"event"`
	Timestamp int64     `json:"timestamp"`
	Message   string    `json:"message,omitempty"`
}

// NewEvent creates an event stamped with the current time in Unix
// milliseconds.
func NewEvent(eventType EventType, message string) Event {
	return Event{
		Event:     eventType,
		Timestamp: time.Now().UnixMilli(),
		Message:   message,
	}
}
