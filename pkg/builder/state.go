package builder

import (
	"time"

	"github.com/google/uuid"

	"docbuilder-be/pkg/blocks"
)

// MaxHistory bounds the undo stack; the oldest snapshot is evicted once
// the limit is exceeded.
const MaxHistory = 50

// History holds deep snapshots of the block sequence. Past grows on every
// structural mutation, Future only through Undo and is cleared by any
// fresh mutation.
type History struct {
	Past   [][]blocks.Block
	Future [][]blocks.Block
}

// State is the authoritative in-memory editing state for one document.
// It is client-owned and single-writer: a linear sequence of actions is
// applied via Dispatch, persistence happens outside through the
// SetSaving/SetSaved bracket.
type State struct {
	DocumentId      uuid.UUID
	Title           string
	Blocks          []blocks.Block
	SelectedBlockId string
	IsDirty         bool
	IsSaving        bool
	IsLocked        bool
	LastSavedAt     *time.Time
	History         History
}

// NewState returns an empty, clean state.
func NewState() *State {
	return &State{}
}

// CanUndo reports whether an Undo would have any effect. The UI derives
// the undo button's disabled state from this, not from catching errors.
func (s *State) CanUndo() bool {
	return len(s.History.Past) > 0
}

// CanRedo reports whether a Redo would have any effect.
func (s *State) CanRedo() bool {
	return len(s.History.Future) > 0
}

// blockIndex returns the position of the block with the given id, or -1.
func (s *State) blockIndex(id string) int {
	for i := range s.Blocks {
		if s.Blocks[i].Id == id {
			return i
		}
	}
	return -1
}

// pushHistory records a deep snapshot of the current blocks before a
// structural mutation, evicting the oldest entry past the cap. Any fresh
// mutation invalidates the redo stack.
func (s *State) pushHistory() {
	s.History.Past = append(s.History.Past, blocks.CloneSlice(s.Blocks))
	if len(s.History.Past) > MaxHistory {
		s.History.Past = s.History.Past[1:]
	}
	s.History.Future = nil
}
