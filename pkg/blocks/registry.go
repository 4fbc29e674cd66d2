package blocks

import (
	"github.com/google/uuid"
)

// CreateDefault returns a fully-populated, schema-valid block of the given
// variant. Unknown types fall back to an empty text block so callers never
// receive an invalid discriminant.
func CreateDefault(t Type) Block {
	b := Block{
		Id:   uuid.NewString(),
		Type: t,
	}

	switch t {
	case TypeText:
		b.Content = ""
	case TypeHeading:
		b.Level = 2
		b.Content = ""
	case TypeImage:
		b.Src = ""
		b.Alt = ""
	case TypeDivider:
		// no payload
	case TypeSpacer:
		b.Height = 24
	case TypeSignature:
		b.SignerEmail = ""
		b.Required = true
	case TypePricingTable:
		b.Currency = "USD"
		b.Items = []PricingItem{
			{Name: "Item 1", Quantity: 1, UnitPrice: 0},
		}
	case TypeVideo:
		b.Src = ""
	case TypeDataURI:
		b.Src = ""
		b.MimeType = "application/octet-stream"
	case TypeTable:
		b.Rows = 2
		b.Columns = 2
		b.Cells = [][]string{
			{"", ""},
			{"", ""},
		}
		b.HeaderRow = true
	case TypePayment:
		b.Timing = PaymentDueNow
		b.Percentage = 100
	case TypeDate:
		b.Label = "Date"
		b.Format = "2006-01-02"
	case TypeCheckbox:
		b.Label = ""
		b.Checked = false
	case TypeTextInput:
		b.Label = ""
		b.Placeholder = ""
	case TypePageBreak:
		// no payload
	default:
		b.Type = TypeText
	}

	return b
}
