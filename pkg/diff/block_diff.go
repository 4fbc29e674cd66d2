package diff

import "docbuilder-be/pkg/blocks"

// BlockChange is one entry of the block-level diff between two snapshots.
// TextDiff is populated for modified blocks only.
type BlockChange struct {
	Type      ChangeType   `json:"type"`
	BlockId   string       `json:"blockId"`
	BlockType blocks.Type  `json:"blockType"`
	OldText   string       `json:"oldText,omitempty"`
	NewText   string       `json:"newText,omitempty"`
	TextDiff  []LineChange `json:"textDiff,omitempty"`
}

// ComputeBlockDiff compares two block snapshots. Blocks are matched by
// identifier; change detection uses the deterministic plain-text
// projection. Entries preserve the old snapshot's order for removed,
// modified and unchanged blocks, followed by added blocks in new-snapshot
// order. Pure and total: it never inspects external state and never
// fails.
func ComputeBlockDiff(oldBlocks, newBlocks []blocks.Block) []BlockChange {
	newById := make(map[string]*blocks.Block, len(newBlocks))
	for i := range newBlocks {
		newById[newBlocks[i].Id] = &newBlocks[i]
	}
	oldIds := make(map[string]struct{}, len(oldBlocks))
	for i := range oldBlocks {
		oldIds[oldBlocks[i].Id] = struct{}{}
	}

	changes := make([]BlockChange, 0, len(oldBlocks)+len(newBlocks))

	for i := range oldBlocks {
		old := &oldBlocks[i]
		oldText := blocks.PlainText(old)

		updated, exists := newById[old.Id]
		if !exists {
			changes = append(changes, BlockChange{
				Type:      ChangeRemoved,
				BlockId:   old.Id,
				BlockType: old.Type,
				OldText:   oldText,
			})
			continue
		}

		newText := blocks.PlainText(updated)
		if oldText != newText {
			changes = append(changes, BlockChange{
				Type:      ChangeModified,
				BlockId:   old.Id,
				BlockType: updated.Type,
				OldText:   oldText,
				NewText:   newText,
				TextDiff:  ComputeTextDiff(oldText, newText),
			})
			continue
		}

		changes = append(changes, BlockChange{
			Type:      ChangeUnchanged,
			BlockId:   old.Id,
			BlockType: old.Type,
			OldText:   oldText,
			NewText:   newText,
		})
	}

	for i := range newBlocks {
		added := &newBlocks[i]
		if _, existed := oldIds[added.Id]; existed {
			continue
		}
		changes = append(changes, BlockChange{
			Type:      ChangeAdded,
			BlockId:   added.Id,
			BlockType: added.Type,
			NewText:   blocks.PlainText(added),
		})
	}

	return changes
}
