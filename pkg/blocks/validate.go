package blocks

import "fmt"

// ValidationError reports a block payload that violates its variant
// invariants. It is returned to the caller and never auto-corrected.
type ValidationError struct {
	BlockId string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("block %s: %s: %s", e.BlockId, e.Field, e.Message)
}

func invalid(b *Block, field, message string) error {
	return &ValidationError{BlockId: b.Id, Field: field, Message: message}
}

// Validate checks the variant-specific invariants of a single block.
func Validate(b *Block) error {
	if b.Id == "" {
		return invalid(b, "id", "must not be empty")
	}

	switch b.Type {
	case TypeText:
		// any content is valid
	case TypeHeading:
		if b.Level < 1 || b.Level > 6 {
			return invalid(b, "level", "must be between 1 and 6")
		}
	case TypeImage, TypeVideo:
		// src may be empty while the author is still composing
	case TypeDataURI:
		if b.MimeType == "" {
			return invalid(b, "mimeType", "must not be empty")
		}
	case TypeDivider, TypePageBreak:
		// no payload
	case TypeSpacer:
		if b.Height < 0 {
			return invalid(b, "height", "must not be negative")
		}
	case TypeSignature:
		// signer may be assigned later
	case TypePricingTable:
		for i, item := range b.Items {
			if item.UnitPrice < 0 {
				return invalid(b, fmt.Sprintf("items[%d].unitPrice", i), "must not be negative")
			}
			if item.Quantity < 0 {
				return invalid(b, fmt.Sprintf("items[%d].quantity", i), "must not be negative")
			}
			if item.Discount < 0 {
				return invalid(b, fmt.Sprintf("items[%d].discount", i), "must not be negative")
			}
		}
	case TypeTable:
		if b.Rows < 1 || b.Columns < 1 {
			return invalid(b, "rows", "table needs at least one row and column")
		}
		if len(b.Cells) != b.Rows {
			return invalid(b, "cells", fmt.Sprintf("expected %d rows, got %d", b.Rows, len(b.Cells)))
		}
		for i, row := range b.Cells {
			if len(row) != b.Columns {
				return invalid(b, fmt.Sprintf("cells[%d]", i), fmt.Sprintf("expected %d columns, got %d", b.Columns, len(row)))
			}
		}
	case TypePayment:
		if b.Amount < 0 {
			return invalid(b, "amount", "must not be negative")
		}
		if b.Percentage < 0 || b.Percentage > 100 {
			return invalid(b, "percentage", "must be between 0 and 100")
		}
		switch b.Timing {
		case PaymentDueNow, PaymentOnSigning, PaymentOnDate:
		default:
			return invalid(b, "timing", "unknown payment timing")
		}
	case TypeDate:
		if b.Format == "" {
			return invalid(b, "format", "must not be empty")
		}
	case TypeCheckbox, TypeTextInput:
		// label and value are free-form
	default:
		return invalid(b, "type", fmt.Sprintf("unknown block type %q", b.Type))
	}

	return nil
}

// ValidateSequence validates every block and the document-level invariant
// that identifiers are unique within the sequence.
func ValidateSequence(seq []Block) error {
	seen := make(map[string]struct{}, len(seq))
	for i := range seq {
		b := &seq[i]
		if err := Validate(b); err != nil {
			return err
		}
		if _, dup := seen[b.Id]; dup {
			return invalid(b, "id", "duplicate block identifier")
		}
		seen[b.Id] = struct{}{}
	}
	return nil
}
