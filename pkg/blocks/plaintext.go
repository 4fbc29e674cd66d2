package blocks

import (
	"fmt"
	"strings"
)

// PlainText renders a deterministic per-variant text projection of the
// block. The diff engine uses it for change detection only; it is not a
// display rendering.
func PlainText(b *Block) string {
	switch b.Type {
	case TypeText:
		return b.Content
	case TypeHeading:
		return strings.Repeat("#", clampLevel(b.Level)) + " " + b.Content
	case TypeImage:
		if b.Alt != "" {
			return fmt.Sprintf("[Image: %s]", b.Alt)
		}
		return fmt.Sprintf("[Image: %s]", b.Src)
	case TypeDivider:
		return "---"
	case TypeSpacer:
		return fmt.Sprintf("[Spacer %dpx]", b.Height)
	case TypeSignature:
		if b.SignedAt != nil {
			return fmt.Sprintf("[Signed by %s]", b.SignedBy)
		}
		return "[Unsigned]"
	case TypePricingTable:
		var total float64
		for _, item := range b.Items {
			total += item.Total()
		}
		return fmt.Sprintf("[Pricing: %d items, total %.2f %s]", len(b.Items), total, b.Currency)
	case TypeVideo:
		return fmt.Sprintf("[Video: %s]", b.Src)
	case TypeDataURI:
		return fmt.Sprintf("[Attachment: %s, %d bytes]", b.MimeType, len(b.Src))
	case TypeTable:
		var sb strings.Builder
		for i, row := range b.Cells {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(strings.Join(row, " | "))
		}
		return sb.String()
	case TypePayment:
		return fmt.Sprintf("[Payment: %s %.2f (%.0f%%)]", b.Timing, b.Amount, b.Percentage)
	case TypeDate:
		return fmt.Sprintf("[Date: %s %s]", b.Label, b.Value)
	case TypeCheckbox:
		mark := "[ ]"
		if b.Checked {
			mark = "[x]"
		}
		return fmt.Sprintf("%s %s", mark, b.Label)
	case TypeTextInput:
		if b.Value != "" {
			return fmt.Sprintf("[Input: %s = %s]", b.Label, b.Value)
		}
		return fmt.Sprintf("[Input: %s]", b.Label)
	case TypePageBreak:
		return "[Page break]"
	default:
		return ""
	}
}

func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}
