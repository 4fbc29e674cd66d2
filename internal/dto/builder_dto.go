package dto

import (
	"time"

	"github.com/google/uuid"

	"docbuilder-be/pkg/blocks"
)

type BuilderStateResponse struct {
	DocumentId      uuid.UUID      `json:"document_id"`
	Title           string         `json:"title"`
	Blocks          []blocks.Block `json:"blocks"`
	SelectedBlockId string         `json:"selected_block_id"`
	IsDirty         bool           `json:"is_dirty"`
	IsSaving        bool           `json:"is_saving"`
	IsLocked        bool           `json:"is_locked"`
	CanUndo         bool           `json:"can_undo"`
	CanRedo         bool           `json:"can_redo"`
	LastSavedAt     *time.Time     `json:"last_saved_at"`
}

type DispatchActionRequest struct {
	DocumentId uuid.UUID
	Type       string                 `json:"type" validate:"required"`
	Title      string                 `json:"title"`
	Block      *blocks.Block          `json:"block"`
	BlockType  string                 `json:"block_type"`
	AtIndex    *int                   `json:"at_index"`
	BlockId    string                 `json:"block_id"`
	Patch      map[string]interface{} `json:"patch"`
	FromId     string                 `json:"from_id"`
	ToId       string                 `json:"to_id"`
}

type SaveSessionRequest struct {
	DocumentId        uuid.UUID
	ChangeDescription string `json:"change_description"`
}

type SaveSessionResponse struct {
	DocumentId     uuid.UUID `json:"document_id"`
	CurrentVersion int       `json:"current_version"`
	SavedAt        time.Time `json:"saved_at"`
}
