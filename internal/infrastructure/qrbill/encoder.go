package qrbill

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/swissbill/backend/internal/domain/document"
)

// SlipStatus is the outcome of Encode
type SlipStatus string

const (
	SlipRendered SlipStatus = "rendered"
	SlipSkipped  SlipStatus = "skipped"
)

// SkipReason explains why a slip was not produced
type SkipReason string

const (
	ReasonMissingCreditorData SkipReason = "missing_creditor_data"
	ReasonInvalidIBAN         SkipReason = "invalid_iban"
	ReasonInvalidAmount       SkipReason = "invalid_amount"
	ReasonUnsupportedCurrency SkipReason = "unsupported_currency"
)

var maxAmount = decimal.RequireFromString("999999999.99")

// SlipInput is everything needed to build a payment slip
type SlipInput struct {
	Creditor document.Party
	Debtor   document.Party
	Amount   decimal.Decimal
	// Currency overrides the encoder's configured currency when set
	Currency string
	DocType  document.DocType
	Number   string
	Locale   string
}

// SlipResult is the explicit outcome of encoding: either a Bill or the
// reason it was skipped.
type SlipResult struct {
	Status SlipStatus
	Reason SkipReason
	Detail string
	Bill   *Bill
}

// Rendered reports whether a bill was produced
func (r SlipResult) Rendered() bool {
	return r.Status == SlipRendered && r.Bill != nil
}

// String renders the outcome as "rendered" or "skipped:<reason>"
func (r SlipResult) String() string {
	if r.Rendered() {
		return string(SlipRendered)
	}
	return fmt.Sprintf("%s:%s", SlipSkipped, r.Reason)
}

func skipped(reason SkipReason, format string, args ...any) SlipResult {
	return SlipResult{Status: SlipSkipped, Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// EncoderConfig holds the encoder's business defaults
type EncoderConfig struct {
	Currency        string
	DefaultCountry  string
	DefaultLanguage Language
}

// Encoder validates slip input and builds bills
type Encoder struct {
	currency  string
	countries *CountryNormalizer
	language  Language
	logger    *zap.Logger
}

// NewEncoder creates an encoder. Blank config values fall back to CHF, CH
// and Italian.
func NewEncoder(cfg EncoderConfig, logger *zap.Logger) *Encoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	currency := strings.ToUpper(strings.TrimSpace(cfg.Currency))
	if currency == "" {
		currency = "CHF"
	}
	lang := cfg.DefaultLanguage
	if _, ok := ParseLanguage(string(lang)); !ok {
		lang = DefaultLanguage
	}
	return &Encoder{
		currency:  currency,
		countries: NewCountryNormalizer(cfg.DefaultCountry),
		language:  lang,
		logger:    logger,
	}
}

// Language resolves a locale using the encoder's default language
func (e *Encoder) Language(locale string) Language {
	return ResolveLanguage(locale, e.language)
}

// Encode validates the input and returns the bill, or the reason the slip
// must be skipped. Checks run in order: creditor data, amount and currency,
// then country normalisation.
func (e *Encoder) Encode(in SlipInput) SlipResult {
	cr := in.Creditor
	for _, required := range []struct{ name, value string }{
		{"name", cr.Name},
		{"address", cr.Address},
		{"postal code", cr.PostalCode},
		{"city", cr.City},
		{"iban", cr.IBAN},
	} {
		if strings.TrimSpace(required.value) == "" {
			return skipped(ReasonMissingCreditorData, "creditor %s is missing", required.name)
		}
	}

	iban := CleanIBAN(cr.IBAN)
	if !ValidIBAN(iban) {
		return skipped(ReasonInvalidIBAN, "creditor IBAN %q is not a valid CH/LI IBAN", iban)
	}
	if IsQRIBAN(iban) {
		e.logger.Warn("QR-IBAN used with unstructured reference",
			zap.String("document_number", in.Number))
	}

	if !in.Amount.IsPositive() {
		return skipped(ReasonInvalidAmount, "amount %s must be positive", in.Amount)
	}
	if in.Amount.GreaterThan(maxAmount) {
		return skipped(ReasonInvalidAmount, "amount %s exceeds %s", in.Amount, maxAmount)
	}
	if !in.Amount.Equal(in.Amount.Truncate(2)) {
		return skipped(ReasonInvalidAmount, "amount %s has more than two decimals", in.Amount)
	}

	currency := e.currency
	if c := strings.TrimSpace(in.Currency); c != "" {
		currency = strings.ToUpper(c)
	}
	if currency != "CHF" && currency != "EUR" {
		return skipped(ReasonUnsupportedCurrency, "currency %q is not CHF or EUR", currency)
	}

	creditor := e.address(cr, "creditor")
	var debtor *Address
	if in.Debtor.HasName() {
		a := e.address(in.Debtor, "debtor")
		debtor = &a
	}

	lang := e.Language(in.Locale)
	message := strings.TrimSpace(DocumentTitle(lang, in.DocType) + " " + strings.TrimSpace(in.Number))

	return SlipResult{
		Status: SlipRendered,
		Bill: &Bill{
			IBAN:     iban,
			Creditor: creditor,
			Amount:   in.Amount,
			Currency: currency,
			Debtor:   debtor,
			Message:  message,
			Language: lang,
		},
	}
}

func (e *Encoder) address(p document.Party, role string) Address {
	country, recognised := e.countries.Normalize(p.Country)
	if !recognised {
		e.logger.Debug("country defaulted",
			zap.String("role", role),
			zap.String("input", p.Country),
			zap.String("country", country))
	}
	street, building := SplitStreet(p.Address)
	return Address{
		Name:           strings.TrimSpace(p.Name),
		Street:         street,
		BuildingNumber: building,
		PostalCode:     strings.TrimSpace(p.PostalCode),
		Town:           strings.TrimSpace(p.City),
		Country:        country,
	}
}
