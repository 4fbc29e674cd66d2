package blocks

import (
	"time"

	"docbuilder-be/pkg/condition"
)

// Type discriminates the block union. Every consumer switches on it
// exhaustively; AllTypes is the single source of truth for coverage tests.
type Type string

const (
	TypeText         Type = "text"
	TypeImage        Type = "image"
	TypeDivider      Type = "divider"
	TypeSpacer       Type = "spacer"
	TypeSignature    Type = "signature"
	TypePricingTable Type = "pricing-table"
	TypeVideo        Type = "video"
	TypeDataURI      Type = "data-uri"
	TypeTable        Type = "table"
	TypePayment      Type = "payment"
	TypeDate         Type = "date"
	TypeCheckbox     Type = "checkbox"
	TypeTextInput    Type = "text-input"
	TypePageBreak    Type = "page-break"
	TypeHeading      Type = "heading"
)

// AllTypes lists every block variant. Keep in sync with the constants
// above; the registry tests iterate this to catch missing switch arms.
func AllTypes() []Type {
	return []Type{
		TypeText, TypeImage, TypeDivider, TypeSpacer, TypeSignature,
		TypePricingTable, TypeVideo, TypeDataURI, TypeTable, TypePayment,
		TypeDate, TypeCheckbox, TypeTextInput, TypePageBreak, TypeHeading,
	}
}

// PaymentTiming values for the payment block.
const (
	PaymentDueNow    = "due_now"
	PaymentOnSigning = "on_signing"
	PaymentOnDate    = "on_date"
)

// PricingItem is one line of a pricing table.
type PricingItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Discount    float64 `json:"discount,omitempty"`
}

// Total returns the line total after discount.
func (i PricingItem) Total() float64 {
	return i.Quantity*i.UnitPrice - i.Discount
}

// Block is the tagged content union. A single struct with a type tag and
// optional payload fields keeps the persisted JSON flat and lets every
// consumer dispatch on Type in one place. The model is flat: no variant
// holds another block, ordering is solely position in the owning slice.
type Block struct {
	Id   string `json:"id"`
	Type Type   `json:"type"`

	Visibility *condition.Visibility `json:"visibility,omitempty"`

	// text / heading
	Content string `json:"content,omitempty"`
	Level   int    `json:"level,omitempty"`
	Align   string `json:"align,omitempty"`

	// image / video / data-uri
	Src      string `json:"src,omitempty"`
	Alt      string `json:"alt,omitempty"`
	MimeType string `json:"mimeType,omitempty"`

	// spacer (px); divider and page-break carry no payload
	Height int `json:"height,omitempty"`

	// signature
	SignerEmail string     `json:"signerEmail,omitempty"`
	SignedBy    string     `json:"signedBy,omitempty"`
	SignedAt    *time.Time `json:"signedAt,omitempty"`

	// pricing-table
	Items    []PricingItem `json:"items,omitempty"`
	Currency string        `json:"currency,omitempty"`
	TaxRate  float64       `json:"taxRate,omitempty"`

	// table
	Rows      int        `json:"rows,omitempty"`
	Columns   int        `json:"columns,omitempty"`
	Cells     [][]string `json:"cells,omitempty"`
	HeaderRow bool       `json:"headerRow,omitempty"`

	// payment
	Amount     float64 `json:"amount,omitempty"`
	Timing     string  `json:"timing,omitempty"`
	Percentage float64 `json:"percentage,omitempty"`

	// fillable fields: date / checkbox / text-input
	Label       string `json:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Checked     bool   `json:"checked,omitempty"`
	Format      string `json:"format,omitempty"`
	Value       string `json:"value,omitempty"`
}

// Clone returns a deep copy of the block, independent of the original.
// History snapshots and diff inputs rely on this.
func (b Block) Clone() Block {
	out := b
	out.Visibility = b.Visibility.Clone()
	if b.SignedAt != nil {
		t := *b.SignedAt
		out.SignedAt = &t
	}
	if b.Items != nil {
		out.Items = make([]PricingItem, len(b.Items))
		copy(out.Items, b.Items)
	}
	if b.Cells != nil {
		out.Cells = make([][]string, len(b.Cells))
		for i, row := range b.Cells {
			out.Cells[i] = make([]string, len(row))
			copy(out.Cells[i], row)
		}
	}
	return out
}

// CloneSlice deep-copies a block sequence.
func CloneSlice(in []Block) []Block {
	if in == nil {
		return nil
	}
	out := make([]Block, len(in))
	for i, b := range in {
		out[i] = b.Clone()
	}
	return out
}

// TextPayloads returns pointers to the fields of the block that carry
// author-facing text subject to merge-field interpolation. New
// text-bearing variants only need a new case here; the interpolation pass
// itself stays variant-agnostic.
func (b *Block) TextPayloads() []*string {
	switch b.Type {
	case TypeText, TypeHeading:
		return []*string{&b.Content}
	case TypeImage, TypeDivider, TypeSpacer, TypeSignature, TypePricingTable,
		TypeVideo, TypeDataURI, TypeTable, TypePayment, TypeDate,
		TypeCheckbox, TypeTextInput, TypePageBreak:
		return nil
	default:
		return nil
	}
}
