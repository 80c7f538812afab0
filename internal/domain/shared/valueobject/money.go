package valueobject

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is an ISO 4217 code
type Currency string

// Currencies a Swiss QR-bill can carry
const (
	CHF Currency = "CHF"
	EUR Currency = "EUR"
)

// DefaultCurrency is used when neither the request nor the config names one
const DefaultCurrency = CHF

// ParseCurrency parses a currency code case-insensitively. Only CHF and
// EUR are accepted.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("unsupported currency: %q", s)
	}
	return c, nil
}

// IsValid reports whether c is CHF or EUR
func (c Currency) IsValid() bool {
	return c == CHF || c == EUR
}

func (c Currency) String() string {
	return string(c)
}

// Money is an amount in a supported currency.
type Money struct {
	amount   decimal.Decimal
	currency Currency
}

// NewMoney fails for currencies other than CHF and EUR.
func NewMoney(amount decimal.Decimal, currency Currency) (Money, error) {
	if !currency.IsValid() {
		return Money{}, fmt.Errorf("unsupported currency: %q", currency)
	}
	return Money{amount: amount, currency: currency}, nil
}

func (m Money) Amount() decimal.Decimal { return m.amount }

func (m Money) Currency() Currency { return m.currency }

// String renders "CHF 1234.50"
func (m Money) String() string {
	return m.currency.String() + " " + FormatAmount(m.amount, false)
}

// FormatAmount renders d with exactly two decimals, rounding half away
// from zero. With grouped set a space separates every three integer
// digits ("1 234 567.00"), as printed on the payment part.
func FormatAmount(d decimal.Decimal, grouped bool) string {
	s := d.StringFixed(2)
	if !grouped {
		return s
	}
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i := range len(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(intPart[i])
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
