package printing

import (
	"github.com/shopspring/decimal"

	"github.com/swissbill/backend/internal/domain/shared/valueobject"
)

// FormatMoney renders an amount with exactly two decimals and a leading
// currency label, e.g. "CHF 1234.50". No thousands separators are used.
func FormatMoney(amount decimal.Decimal, currency valueobject.Currency) string {
	m, err := valueobject.NewMoney(amount, currency)
	if err != nil {
		return FormatAmount(amount)
	}
	return m.String()
}

// FormatAmount renders an amount with exactly two decimals
func FormatAmount(amount decimal.Decimal) string {
	return valueobject.FormatAmount(amount, false)
}

// FormatQuantity renders a quantity without trailing zeros
func FormatQuantity(q decimal.Decimal) string {
	return q.String()
}

// FormatRate renders a percentage rate, e.g. "8.1%"
func FormatRate(rate decimal.Decimal) string {
	return rate.Round(2).String() + "%"
}
