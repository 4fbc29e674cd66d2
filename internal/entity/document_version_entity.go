package entity

import (
	"time"

	"github.com/google/uuid"

	"docbuilder-be/pkg/blocks"
)

// Version change types. ChangeTypeCurrent is synthesized on read for the
// live document content and never stored.
const (
	ChangeTypeCreate  = "create"
	ChangeTypeUpdate  = "update"
	ChangeTypeRestore = "restore"
	ChangeTypeCurrent = "current"
)

// DocumentVersion is an immutable snapshot of a document at a materially
// significant save.
type DocumentVersion struct {
	Id                uuid.UUID
	DocumentId        uuid.UUID
	VersionNumber     int
	Title             string
	Content           []blocks.Block
	Variables         map[string]string
	ChangeType        string
	ChangeDescription string
	CreatedBy         uuid.UUID
	CreatedAt         time.Time
}
