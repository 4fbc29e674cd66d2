package builder

import (
	"encoding/json"
	"errors"
	"fmt"

	"docbuilder-be/pkg/blocks"
)

// ErrDocumentLocked is returned when a mutating action reaches a locked
// document. The state is left unchanged; the caller decides how to surface
// the refusal.
var ErrDocumentLocked = errors.New("document is locked: a recipient has signed")

// LockedDocumentError wraps ErrDocumentLocked with the refused action for
// logging. errors.Is(err, ErrDocumentLocked) holds.
type LockedDocumentError struct {
	Action ActionType
}

func (e *LockedDocumentError) Error() string {
	return fmt.Sprintf("document is locked: action %s rejected", e.Action)
}

func (e *LockedDocumentError) Unwrap() error {
	return ErrDocumentLocked
}

// Dispatch applies one action to the state. Structural mutations snapshot
// the current blocks into history first; every content-mutating action is
// refused while the externally-supplied lock flag is set. Undo/redo
// underflow is a silent no-op.
func (s *State) Dispatch(a Action) error {
	if a.isMutating() && s.IsLocked {
		return &LockedDocumentError{Action: a.Type}
	}

	switch a.Type {
	case ActionSetDocument:
		return s.setDocument(a)
	case ActionSetTitle:
		s.Title = a.Title
		s.IsDirty = true
	case ActionAddBlock:
		return s.addBlock(a)
	case ActionRemoveBlock:
		s.removeBlock(a)
	case ActionUpdateBlock:
		return s.updateBlock(a)
	case ActionMoveBlock:
		s.moveBlock(a)
	case ActionSelectBlock:
		s.SelectedBlockId = a.BlockId
	case ActionSetSaving:
		s.IsSaving = a.Saving
	case ActionSetSaved:
		s.IsSaving = false
		s.IsDirty = false
		s.LastSavedAt = a.SavedAt
	case ActionUndo:
		s.undo()
	case ActionRedo:
		s.redo()
	case ActionClearHistory:
		s.History = History{}
	default:
		return fmt.Errorf("builder: unknown action type %q", a.Type)
	}
	return nil
}

// setDocument seeds the state from a fresh load. It resets history and the
// dirty flag: loading is not an edit.
func (s *State) setDocument(a Action) error {
	if a.Document == nil {
		return fmt.Errorf("builder: SET_DOCUMENT requires a document payload")
	}
	s.DocumentId = a.Document.DocumentId
	s.Title = a.Document.Title
	s.Blocks = blocks.CloneSlice(a.Document.Blocks)
	s.IsLocked = a.Document.IsLocked
	s.SelectedBlockId = ""
	s.IsDirty = false
	s.IsSaving = false
	s.History = History{}
	return nil
}

func (s *State) addBlock(a Action) error {
	if a.Block == nil {
		return fmt.Errorf("builder: ADD_BLOCK requires a block")
	}
	if s.blockIndex(a.Block.Id) >= 0 {
		return fmt.Errorf("builder: block %s already exists", a.Block.Id)
	}

	s.pushHistory()

	b := a.Block.Clone()
	at := len(s.Blocks)
	if a.AtIndex != nil && *a.AtIndex >= 0 && *a.AtIndex < len(s.Blocks) {
		at = *a.AtIndex
	}
	s.Blocks = append(s.Blocks, blocks.Block{})
	copy(s.Blocks[at+1:], s.Blocks[at:])
	s.Blocks[at] = b
	s.SelectedBlockId = b.Id
	s.IsDirty = true
	return nil
}

func (s *State) removeBlock(a Action) {
	idx := s.blockIndex(a.BlockId)
	if idx < 0 {
		return
	}

	s.pushHistory()

	s.Blocks = append(s.Blocks[:idx], s.Blocks[idx+1:]...)
	if s.SelectedBlockId == a.BlockId {
		s.SelectedBlockId = ""
	}
	s.IsDirty = true
}

// updateBlock merges a partial payload over the existing block via a JSON
// round trip, keeping id and type immutable. Unknown patch keys are
// rejected by the Block schema (they simply do not land anywhere).
func (s *State) updateBlock(a Action) error {
	idx := s.blockIndex(a.BlockId)
	if idx < 0 {
		return nil
	}
	if len(a.Patch) == 0 {
		return nil
	}

	current := s.Blocks[idx]
	raw, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("builder: marshal block for update: %w", err)
	}
	var merged map[string]interface{}
	if err := json.Unmarshal(raw, &merged); err != nil {
		return fmt.Errorf("builder: unmarshal block for update: %w", err)
	}
	for key, value := range a.Patch {
		if key == "id" || key == "type" {
			continue
		}
		merged[key] = value
	}
	raw, err = json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("builder: marshal patched block: %w", err)
	}
	var updated blocks.Block
	if err := json.Unmarshal(raw, &updated); err != nil {
		return fmt.Errorf("builder: apply block patch: %w", err)
	}
	if err := blocks.Validate(&updated); err != nil {
		return err
	}

	s.pushHistory()
	s.Blocks[idx] = updated
	s.IsDirty = true
	return nil
}

// moveBlock relocates the from-block to the to-block's pre-removal index,
// single-array splice semantics. A no-op when either id is absent.
func (s *State) moveBlock(a Action) {
	from := s.blockIndex(a.FromId)
	to := s.blockIndex(a.ToId)
	if from < 0 || to < 0 || from == to {
		return
	}

	s.pushHistory()

	moved := s.Blocks[from]
	rest := append(s.Blocks[:from:from], s.Blocks[from+1:]...)
	if to > len(rest) {
		to = len(rest)
	}
	rest = append(rest, blocks.Block{})
	copy(rest[to+1:], rest[to:])
	rest[to] = moved
	s.Blocks = rest
	s.IsDirty = true
}

func (s *State) undo() {
	n := len(s.History.Past)
	if n == 0 {
		return
	}
	previous := s.History.Past[n-1]
	s.History.Past = s.History.Past[:n-1]
	s.History.Future = append(s.History.Future, blocks.CloneSlice(s.Blocks))
	s.Blocks = previous
	s.IsDirty = true
}

func (s *State) redo() {
	n := len(s.History.Future)
	if n == 0 {
		return
	}
	next := s.History.Future[n-1]
	s.History.Future = s.History.Future[:n-1]
	s.History.Past = append(s.History.Past, blocks.CloneSlice(s.Blocks))
	s.Blocks = next
	s.IsDirty = true
}
