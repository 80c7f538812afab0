package document

import "github.com/shopspring/decimal"

// DefaultStandardTaxRate is the Swiss standard VAT rate in percent
var DefaultStandardTaxRate = decimal.RequireFromString("8.1")

// Totals is the aggregate of a document's lines. Aggregates are sums of the
// rounded line values, so printed lines always reconcile with the totals.
type Totals struct {
	Lines     []LineTotals
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal

	// AverageTaxRate is the unweighted mean of the distinct line rates.
	// It is only authoritative when MixedTaxRates is false.
	AverageTaxRate decimal.Decimal
	MixedTaxRates  bool
}

// EffectiveTaxRate returns TaxAmount / Subtotal in percent, rounded to two
// places. Zero when the subtotal is zero.
func (t *Totals) EffectiveTaxRate() decimal.Decimal {
	if t.Subtotal.IsZero() {
		return decimal.Zero
	}
	return t.TaxAmount.Mul(hundred).Div(t.Subtotal).Round(2)
}

// BlendedTax is the tax amount implied by applying AverageTaxRate to the
// subtotal. It differs from TaxAmount when rates are mixed and line
// subtotals are uneven.
func (t *Totals) BlendedTax() decimal.Decimal {
	return t.Subtotal.Mul(t.AverageTaxRate).Div(hundred).Round(2)
}

// TotalsCalculator computes line and document totals
type TotalsCalculator struct {
	standardRate decimal.Decimal
}

// NewTotalsCalculator creates a calculator applying standardRate to lines
// without an explicit tax rate.
func NewTotalsCalculator(standardRate decimal.Decimal) *TotalsCalculator {
	return &TotalsCalculator{standardRate: standardRate}
}

// StandardRate returns the rate applied to lines without a tax rate
func (c *TotalsCalculator) StandardRate() decimal.Decimal {
	return c.standardRate
}

// Calculate validates every item and returns the totals. Any invalid item
// fails the whole calculation with INVALID_LINE_ITEM.
func (c *TotalsCalculator) Calculate(items []LineItem) (*Totals, error) {
	for i, item := range items {
		if err := item.Validate(i + 1); err != nil {
			return nil, err
		}
	}

	totals := &Totals{
		Lines:          make([]LineTotals, 0, len(items)),
		Subtotal:       decimal.Zero,
		TaxAmount:      decimal.Zero,
		Total:          decimal.Zero,
		AverageTaxRate: decimal.Zero,
	}
	var distinct []decimal.Decimal

	for _, item := range items {
		rate := c.standardRate
		if item.TaxRate != nil {
			rate = *item.TaxRate
		}

		subtotal := item.Quantity.Mul(item.UnitPrice).Round(2)
		tax := subtotal.Mul(rate).Div(hundred).Round(2)
		line := LineTotals{
			Subtotal: subtotal,
			Tax:      tax,
			Total:    subtotal.Add(tax),
			TaxRate:  rate,
		}
		totals.Lines = append(totals.Lines, line)
		totals.Subtotal = totals.Subtotal.Add(line.Subtotal)
		totals.TaxAmount = totals.TaxAmount.Add(line.Tax)
		totals.Total = totals.Total.Add(line.Total)

		if !containsRate(distinct, rate) {
			distinct = append(distinct, rate)
		}
	}

	if len(distinct) > 0 {
		sum := decimal.Zero
		for _, r := range distinct {
			sum = sum.Add(r)
		}
		totals.AverageTaxRate = sum.Div(decimal.NewFromInt(int64(len(distinct)))).Round(2)
		totals.MixedTaxRates = len(distinct) > 1
	}

	return totals, nil
}

func containsRate(rates []decimal.Decimal, r decimal.Decimal) bool {
	for _, existing := range rates {
		if existing.Equal(r) {
			return true
		}
	}
	return false
}
