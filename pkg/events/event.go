package events

import "time"

// Event defines the contract for all platform events.
type Event interface {
	// EventType returns the unique code for this event (e.g. "DOCUMENT_SENT").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation used by the services.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Document lifecycle and versioning event codes. External collaborators
// (mailer, payment processor, analytics) subscribe to these on the bus.
const (
	DocumentCreated   = "DOCUMENT_CREATED"
	DocumentSent      = "DOCUMENT_SENT"
	DocumentViewed    = "DOCUMENT_VIEWED"
	DocumentSigned    = "DOCUMENT_SIGNED"
	DocumentDeclined  = "DOCUMENT_DECLINED"
	DocumentCompleted = "DOCUMENT_COMPLETED"
	DocumentExpired   = "DOCUMENT_EXPIRED"
	VersionCreated    = "VERSION_CREATED"
)
