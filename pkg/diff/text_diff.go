package diff

import "strings"

// ChangeType classifies one diff entry.
type ChangeType string

const (
	ChangeAdded     ChangeType = "added"
	ChangeRemoved   ChangeType = "removed"
	ChangeModified  ChangeType = "modified"
	ChangeUnchanged ChangeType = "unchanged"
)

// LineChange is one entry of a line-level text diff. LineNumber is
// assigned only to added and unchanged lines, numbered by position in the
// new text; it is 0 for removed lines.
type LineChange struct {
	Type       ChangeType `json:"type"`
	Content    string     `json:"content"`
	LineNumber int        `json:"lineNumber,omitempty"`
}

// ComputeTextDiff produces an ordered longest-common-subsequence diff over
// the line-split renderings of two texts. It is a pure, total function:
// empty inputs yield an all-added or all-removed diff.
func ComputeTextDiff(oldText, newText string) []LineChange {
	oldLines := splitLines(oldText)
	newLines := splitLines(newText)

	// DP table: lcs[i][j] = LCS length of oldLines[i:] and newLines[j:].
	lcs := make([][]int, len(oldLines)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(newLines)+1)
	}
	for i := len(oldLines) - 1; i >= 0; i-- {
		for j := len(newLines) - 1; j >= 0; j-- {
			if oldLines[i] == newLines[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var changes []LineChange
	i, j := 0, 0
	newLineNo := 1
	for i < len(oldLines) && j < len(newLines) {
		switch {
		case oldLines[i] == newLines[j]:
			changes = append(changes, LineChange{Type: ChangeUnchanged, Content: newLines[j], LineNumber: newLineNo})
			i++
			j++
			newLineNo++
		case lcs[i+1][j] >= lcs[i][j+1]:
			changes = append(changes, LineChange{Type: ChangeRemoved, Content: oldLines[i]})
			i++
		default:
			changes = append(changes, LineChange{Type: ChangeAdded, Content: newLines[j], LineNumber: newLineNo})
			j++
			newLineNo++
		}
	}
	for ; i < len(oldLines); i++ {
		changes = append(changes, LineChange{Type: ChangeRemoved, Content: oldLines[i]})
	}
	for ; j < len(newLines); j++ {
		changes = append(changes, LineChange{Type: ChangeAdded, Content: newLines[j], LineNumber: newLineNo})
		newLineNo++
	}
	return changes
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
