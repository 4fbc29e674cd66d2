package entity

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"docbuilder-be/pkg/blocks"
)

// Sentinel errors surfaced through the HTTP error middleware.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
	ErrInvalidVariables  = errors.New("invalid variables")
	ErrInvalidAction     = errors.New("invalid builder action")
)

// DocumentStatus is the document lifecycle state. The lifecycle is owned
// here; the builder core only consumes the derived lock flag.
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "draft"
	StatusSent      DocumentStatus = "sent"
	StatusViewed    DocumentStatus = "viewed"
	StatusSigned    DocumentStatus = "signed"
	StatusDeclined  DocumentStatus = "declined"
	StatusCompleted DocumentStatus = "completed"
	StatusExpired   DocumentStatus = "expired"
)

// lifecycleTransitions encodes
// draft → sent → viewed → {signed → completed | declined}; sent|viewed → expired.
var lifecycleTransitions = map[DocumentStatus][]DocumentStatus{
	StatusDraft:     {StatusSent},
	StatusSent:      {StatusViewed, StatusSigned, StatusDeclined, StatusExpired},
	StatusViewed:    {StatusSigned, StatusDeclined, StatusExpired},
	StatusSigned:    {StatusCompleted},
	StatusDeclined:  {},
	StatusCompleted: {},
	StatusExpired:   {},
}

type Document struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	Title          string
	Content        []blocks.Block
	Variables      map[string]string
	Status         DocumentStatus
	CurrentVersion int
	LockedAt       *time.Time
	SentAt         *time.Time
	ExpiresAt      *time.Time
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

// IsLocked reports whether content mutation is refused: the lock is set
// once any recipient has signed and never cleared.
func (d *Document) IsLocked() bool {
	return d.LockedAt != nil
}

// TransitionTo moves the document to the given lifecycle state, or fails
// with ErrInvalidTransition. Signing sets the lock timestamp.
func (d *Document) TransitionTo(target DocumentStatus, now time.Time) error {
	for _, allowed := range lifecycleTransitions[d.Status] {
		if allowed != target {
			continue
		}
		d.Status = target
		switch target {
		case StatusSent:
			t := now
			d.SentAt = &t
		case StatusSigned:
			if d.LockedAt == nil {
				t := now
				d.LockedAt = &t
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.Status, target)
}
