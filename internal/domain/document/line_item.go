package document

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// LineItem is one billable row of a document. A nil TaxRate means the rate
// was omitted and the configured standard rate applies.
type LineItem struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     *decimal.Decimal
}

// Validate checks the line item. line is the 1-based position used in the
// error message.
func (li LineItem) Validate(line int) error {
	if li.Quantity.IsNegative() {
		return invalidLineItem(line, "quantity must not be negative, got %s", li.Quantity)
	}
	if li.UnitPrice.IsNegative() {
		return invalidLineItem(line, "unit price must not be negative, got %s", li.UnitPrice)
	}
	if li.TaxRate != nil && (li.TaxRate.IsNegative() || li.TaxRate.GreaterThan(hundred)) {
		return invalidLineItem(line, "tax rate must be between 0 and 100, got %s", *li.TaxRate)
	}
	return nil
}

// LineTotals are the derived amounts of a single line, each rounded to two
// decimal places. Total always equals Subtotal + Tax.
type LineTotals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
	TaxRate  decimal.Decimal
}
