package builder

import (
	"time"

	"github.com/google/uuid"

	"docbuilder-be/pkg/blocks"
)

// ActionType discriminates the reducer's action set.
type ActionType string

const (
	ActionSetDocument  ActionType = "SET_DOCUMENT"
	ActionSetTitle     ActionType = "SET_TITLE"
	ActionAddBlock     ActionType = "ADD_BLOCK"
	ActionRemoveBlock  ActionType = "REMOVE_BLOCK"
	ActionUpdateBlock  ActionType = "UPDATE_BLOCK"
	ActionMoveBlock    ActionType = "MOVE_BLOCK"
	ActionSelectBlock  ActionType = "SELECT_BLOCK"
	ActionSetSaving    ActionType = "SET_SAVING"
	ActionSetSaved     ActionType = "SET_SAVED"
	ActionUndo         ActionType = "UNDO"
	ActionRedo         ActionType = "REDO"
	ActionClearHistory ActionType = "CLEAR_HISTORY"
)

// DocumentPayload seeds the state from a loaded document snapshot.
type DocumentPayload struct {
	DocumentId uuid.UUID      `json:"documentId"`
	Title      string         `json:"title"`
	Blocks     []blocks.Block `json:"blocks"`
	IsLocked   bool           `json:"isLocked"`
}

// Action is one reducer input. Only the fields relevant to its Type are
// read; the rest stay zero.
type Action struct {
	Type ActionType `json:"type"`

	// SetDocument
	Document *DocumentPayload `json:"document,omitempty"`

	// SetTitle
	Title string `json:"title,omitempty"`

	// AddBlock: the block to insert and an optional position. A nil
	// AtIndex appends.
	Block   *blocks.Block `json:"block,omitempty"`
	AtIndex *int          `json:"atIndex,omitempty"`

	// RemoveBlock / UpdateBlock / SelectBlock
	BlockId string `json:"blockId,omitempty"`

	// UpdateBlock: partial payload merged over the existing block.
	// Id and type are immutable and ignored if present.
	Patch map[string]interface{} `json:"patch,omitempty"`

	// MoveBlock
	FromId string `json:"fromId,omitempty"`
	ToId   string `json:"toId,omitempty"`

	// SetSaving / SetSaved
	Saving  bool       `json:"saving,omitempty"`
	SavedAt *time.Time `json:"savedAt,omitempty"`
}

// isMutating reports whether the action would change document content and
// therefore must respect the external document lock.
func (a Action) isMutating() bool {
	switch a.Type {
	case ActionSetTitle, ActionAddBlock, ActionRemoveBlock,
		ActionUpdateBlock, ActionMoveBlock, ActionUndo, ActionRedo:
		return true
	default:
		return false
	}
}
