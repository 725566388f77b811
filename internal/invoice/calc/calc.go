// Package calc derives the monetary amounts of a single invoice line.
// It is pure: no I/O, no clock, and identical inputs always produce
// identical outputs, which keeps issued documents auditable.
package calc

import (
	"fmt"
	"strings"

	"github.com/gufolabs/gestiune/internal/money"
)

// LineInput carries the already-defaulted values of one item.
type LineInput struct {
	Description string
	Quantity    money.Money
	UnitPrice   money.Money
	VATRate     money.Money
}

// LineAmounts are the derived amounts of one line, at full scale.
type LineAmounts struct {
	Net   money.Money
	VAT   money.Money
	Total money.Money
}

// ItemError reports which item and field of an issuance request is
// invalid, so callers can correct input without guessing.
type ItemError struct {
	Index   int
	Field   string
	Message string
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s: %s", e.FieldPath(), e.Message)
}

// FieldPath returns the JSON path of the offending field.
func (e *ItemError) FieldPath() string {
	return fmt.Sprintf("items[%d].%s", e.Index, e.Field)
}

// ComputeLine validates one item and derives net, VAT and total:
//
//	net   = quantity x unitPrice
//	vat   = net x vatRate / 100
//	total = net + vat
//
// All three stay at full decimal scale; rounding is a display concern.
func ComputeLine(index int, in LineInput) (LineAmounts, error) {
	if strings.TrimSpace(in.Description) == "" {
		return LineAmounts{}, &ItemError{Index: index, Field: "description", Message: "must not be empty"}
	}
	if !in.Quantity.IsPositive() {
		return LineAmounts{}, &ItemError{Index: index, Field: "quantity", Message: "must be greater than zero"}
	}
	if in.UnitPrice.IsNegative() {
		return LineAmounts{}, &ItemError{Index: index, Field: "unit_price", Message: "must not be negative"}
	}
	if in.VATRate.IsNegative() {
		return LineAmounts{}, &ItemError{Index: index, Field: "vat_rate", Message: "must not be negative"}
	}

	net := in.Quantity.Mul(in.UnitPrice)
	vat := net.Mul(in.VATRate).DivInt(100)

	return LineAmounts{
		Net:   net,
		VAT:   vat,
		Total: net.Add(vat),
	}, nil
}
