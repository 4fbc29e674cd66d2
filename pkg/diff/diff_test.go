package diff

import (
	"reflect"
	"testing"

	"docbuilder-be/pkg/blocks"
)

func textBlock(content string) blocks.Block {
	b := blocks.CreateDefault(blocks.TypeText)
	b.Content = content
	return b
}

func TestComputeBlockDiffIdenticalSnapshots(t *testing.T) {
	seq := []blocks.Block{textBlock("a"), textBlock("b"), blocks.CreateDefault(blocks.TypeDivider)}
	changes := ComputeBlockDiff(seq, seq)

	if len(changes) != len(seq) {
		t.Fatalf("changes = %d, want %d", len(changes), len(seq))
	}
	for i, change := range changes {
		if change.Type != ChangeUnchanged {
			t.Errorf("entry %d = %s, want unchanged", i, change.Type)
		}
		if change.BlockId != seq[i].Id {
			t.Errorf("entry %d preserves old order, got %s", i, change.BlockId)
		}
	}
}

func TestComputeBlockDiffEmptySnapshots(t *testing.T) {
	seq := []blocks.Block{textBlock("a"), textBlock("b")}

	for _, change := range ComputeBlockDiff(nil, seq) {
		if change.Type != ChangeAdded {
			t.Errorf("diff from empty = %s, want all added", change.Type)
		}
	}
	for _, change := range ComputeBlockDiff(seq, nil) {
		if change.Type != ChangeRemoved {
			t.Errorf("diff to empty = %s, want all removed", change.Type)
		}
	}
	if got := ComputeBlockDiff(nil, nil); len(got) != 0 {
		t.Errorf("empty vs empty = %d entries, want 0", len(got))
	}
}

func TestComputeBlockDiffModification(t *testing.T) {
	a := textBlock("line one\nline two")
	b := textBlock("untouched")
	oldSeq := []blocks.Block{a, b}

	changedA := a.Clone()
	changedA.Content = "line one\nline two changed"
	added := textBlock("brand new")
	newSeq := []blocks.Block{changedA, b, added}

	changes := ComputeBlockDiff(oldSeq, newSeq)
	if len(changes) != 3 {
		t.Fatalf("changes = %d, want 3", len(changes))
	}

	if changes[0].Type != ChangeModified || changes[0].BlockId != a.Id {
		t.Errorf("entry 0 = %s %s, want modified %s", changes[0].Type, changes[0].BlockId, a.Id)
	}
	if changes[0].TextDiff == nil {
		t.Error("modified entry must carry a text diff")
	}
	if changes[1].Type != ChangeUnchanged {
		t.Errorf("entry 1 = %s, want unchanged", changes[1].Type)
	}
	if changes[2].Type != ChangeAdded || changes[2].BlockId != added.Id {
		t.Errorf("added blocks follow in new-snapshot order, got %s", changes[2].Type)
	}
}

func TestComputeBlockDiffOrdering(t *testing.T) {
	a := textBlock("a")
	b := textBlock("b")
	c := textBlock("c")
	d := textBlock("d")

	// Old: a, b, c. New: d, c, a (b removed, d added, order shuffled).
	changes := ComputeBlockDiff(
		[]blocks.Block{a, b, c},
		[]blocks.Block{d, c, a},
	)

	wantOrder := []struct {
		id  string
		typ ChangeType
	}{
		{a.Id, ChangeUnchanged},
		{b.Id, ChangeRemoved},
		{c.Id, ChangeUnchanged},
		{d.Id, ChangeAdded},
	}
	if len(changes) != len(wantOrder) {
		t.Fatalf("changes = %d, want %d", len(changes), len(wantOrder))
	}
	for i, want := range wantOrder {
		if changes[i].BlockId != want.id || changes[i].Type != want.typ {
			t.Errorf("entry %d = %s/%s, want %s/%s",
				i, changes[i].BlockId, changes[i].Type, want.id, want.typ)
		}
	}
}

func TestComputeTextDiff(t *testing.T) {
	tests := []struct {
		name    string
		oldText string
		newText string
		want    []LineChange
	}{
		{
			name:    "identical",
			oldText: "a\nb",
			newText: "a\nb",
			want: []LineChange{
				{Type: ChangeUnchanged, Content: "a", LineNumber: 1},
				{Type: ChangeUnchanged, Content: "b", LineNumber: 2},
			},
		},
		{
			name:    "line replaced",
			oldText: "a\nb\nc",
			newText: "a\nx\nc",
			want: []LineChange{
				{Type: ChangeUnchanged, Content: "a", LineNumber: 1},
				{Type: ChangeRemoved, Content: "b"},
				{Type: ChangeAdded, Content: "x", LineNumber: 2},
				{Type: ChangeUnchanged, Content: "c", LineNumber: 3},
			},
		},
		{
			name:    "line appended",
			oldText: "a",
			newText: "a\nb",
			want: []LineChange{
				{Type: ChangeUnchanged, Content: "a", LineNumber: 1},
				{Type: ChangeAdded, Content: "b", LineNumber: 2},
			},
		},
		{
			name:    "empty old is all added",
			oldText: "",
			newText: "a\nb",
			want: []LineChange{
				{Type: ChangeAdded, Content: "a", LineNumber: 1},
				{Type: ChangeAdded, Content: "b", LineNumber: 2},
			},
		},
		{
			name:    "empty new is all removed",
			oldText: "a\nb",
			newText: "",
			want: []LineChange{
				{Type: ChangeRemoved, Content: "a"},
				{Type: ChangeRemoved, Content: "b"},
			},
		},
		{
			name:    "both empty",
			oldText: "",
			newText: "",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTextDiff(tt.oldText, tt.newText)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ComputeTextDiff() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeTextDiffDeterministic(t *testing.T) {
	first := ComputeTextDiff("a\nb\nc", "b\nc\nd")
	second := ComputeTextDiff("a\nb\nc", "b\nc\nd")
	if !reflect.DeepEqual(first, second) {
		t.Error("diff must be deterministic for identical inputs")
	}
}
