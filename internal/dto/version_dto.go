package dto

import (
	"time"

	"github.com/google/uuid"

	"docbuilder-be/pkg/blocks"
	"docbuilder-be/pkg/diff"
)

type VersionSummary struct {
	Id                uuid.UUID `json:"id"`
	VersionNumber     int       `json:"version_number"`
	Title             string    `json:"title"`
	ChangeType        string    `json:"change_type"`
	ChangeDescription string    `json:"change_description"`
	BlockCount        int       `json:"block_count"`
	CreatedBy         uuid.UUID `json:"created_by"`
	CreatedAt         time.Time `json:"created_at"`
}

type VersionHistoryResponse struct {
	DocumentId uuid.UUID        `json:"document_id"`
	Versions   []VersionSummary `json:"versions"`
}

type ShowVersionResponse struct {
	Id            uuid.UUID         `json:"id"`
	DocumentId    uuid.UUID         `json:"document_id"`
	VersionNumber int               `json:"version_number"`
	Title         string            `json:"title"`
	Content       []blocks.Block    `json:"content"`
	Variables     map[string]string `json:"variables"`
	ChangeType    string            `json:"change_type"`
	CreatedAt     time.Time         `json:"created_at"`
}

type CompareVersionsResponse struct {
	DocumentId  uuid.UUID          `json:"document_id"`
	FromVersion int                `json:"from_version"`
	ToVersion   int                `json:"to_version"`
	TitleDiff   []diff.LineChange  `json:"title_diff"`
	Changes     []diff.BlockChange `json:"changes"`
}

type RestoreVersionRequest struct {
	DocumentId    uuid.UUID
	VersionNumber int `json:"version_number" validate:"required,min=1"`
}

type RestoreVersionResponse struct {
	DocumentId     uuid.UUID `json:"document_id"`
	CurrentVersion int       `json:"current_version"`
}
