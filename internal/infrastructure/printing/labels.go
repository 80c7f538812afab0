package printing

import (
	"time"

	"github.com/swissbill/backend/internal/domain/document"
	"github.com/swissbill/backend/internal/infrastructure/qrbill"
)

// LabelKey identifies a translatable text of the document body
type LabelKey string

const (
	LabelNumber         LabelKey = "number"
	LabelDate           LabelKey = "date"
	LabelDueDate        LabelKey = "due_date"
	LabelValidUntil     LabelKey = "valid_until"
	LabelStatus         LabelKey = "status"
	LabelDescription    LabelKey = "description"
	LabelQuantity       LabelKey = "quantity"
	LabelUnitPrice      LabelKey = "unit_price"
	LabelVATRate        LabelKey = "vat_rate"
	LabelAmount         LabelKey = "amount"
	LabelSubtotal       LabelKey = "subtotal"
	LabelVAT            LabelKey = "vat"
	LabelVATAverage     LabelKey = "vat_average"
	LabelTotal          LabelKey = "total"
	LabelNotes          LabelKey = "notes"
	LabelPaymentTerms   LabelKey = "payment_terms"
	LabelPaymentMethods LabelKey = "payment_methods"
	LabelLateFee        LabelKey = "late_fee"
	LabelVATNumber      LabelKey = "vat_number"
	LabelPage           LabelKey = "page"
)

// LocaleFormatter supplies translated labels and date formatting
type LocaleFormatter interface {
	Label(lang qrbill.Language, key LabelKey) string
	Title(lang qrbill.Language, t document.DocType) string
	Status(lang qrbill.Language, s document.Status) string
	FormatDate(lang qrbill.Language, t time.Time) string
}

// StaticLabels is the built-in LocaleFormatter for the four slip languages
type StaticLabels struct{}

var _ LocaleFormatter = StaticLabels{}

var bodyLabels = map[qrbill.Language]map[LabelKey]string{
	qrbill.German: {
		LabelNumber: "Nummer", LabelDate: "Datum", LabelDueDate: "Fällig am", LabelValidUntil: "Gültig bis",
		LabelStatus: "Status", LabelDescription: "Beschreibung", LabelQuantity: "Menge", LabelUnitPrice: "Preis",
		LabelVATRate: "MWST %", LabelAmount: "Betrag", LabelSubtotal: "Zwischensumme", LabelVAT: "MWST",
		LabelVATAverage: "MWST Ø", LabelTotal: "Total", LabelNotes: "Bemerkungen",
		LabelPaymentTerms: "Zahlungsbedingungen", LabelPaymentMethods: "Zahlungsmöglichkeiten",
		LabelLateFee: "Verzugszins", LabelVATNumber: "MWST-Nr.", LabelPage: "Seite",
	},
	qrbill.English: {
		LabelNumber: "Number", LabelDate: "Date", LabelDueDate: "Due date", LabelValidUntil: "Valid until",
		LabelStatus: "Status", LabelDescription: "Description", LabelQuantity: "Qty", LabelUnitPrice: "Unit price",
		LabelVATRate: "VAT %", LabelAmount: "Amount", LabelSubtotal: "Subtotal", LabelVAT: "VAT",
		LabelVATAverage: "VAT avg.", LabelTotal: "Total", LabelNotes: "Notes",
		LabelPaymentTerms: "Payment terms", LabelPaymentMethods: "Payment methods",
		LabelLateFee: "Late payment", LabelVATNumber: "VAT no.", LabelPage: "Page",
	},
	qrbill.Italian: {
		LabelNumber: "Numero", LabelDate: "Data", LabelDueDate: "Scadenza", LabelValidUntil: "Valida fino al",
		LabelStatus: "Stato", LabelDescription: "Descrizione", LabelQuantity: "Qtà", LabelUnitPrice: "Prezzo",
		LabelVATRate: "IVA %", LabelAmount: "Importo", LabelSubtotal: "Subtotale", LabelVAT: "IVA",
		LabelVATAverage: "IVA media", LabelTotal: "Totale", LabelNotes: "Note",
		LabelPaymentTerms: "Condizioni di pagamento", LabelPaymentMethods: "Modalità di pagamento",
		LabelLateFee: "Interessi di mora", LabelVATNumber: "N. IVA", LabelPage: "Pagina",
	},
	qrbill.French: {
		LabelNumber: "Numéro", LabelDate: "Date", LabelDueDate: "Échéance", LabelValidUntil: "Valable jusqu'au",
		LabelStatus: "Statut", LabelDescription: "Description", LabelQuantity: "Qté", LabelUnitPrice: "Prix",
		LabelVATRate: "TVA %", LabelAmount: "Montant", LabelSubtotal: "Sous-total", LabelVAT: "TVA",
		LabelVATAverage: "TVA moy.", LabelTotal: "Total", LabelNotes: "Remarques",
		LabelPaymentTerms: "Conditions de paiement", LabelPaymentMethods: "Moyens de paiement",
		LabelLateFee: "Intérêts de retard", LabelVATNumber: "N° TVA", LabelPage: "Page",
	},
}

var statusLabels = map[qrbill.Language]map[document.Status]string{
	qrbill.German: {
		document.StatusDraft: "Entwurf", document.StatusSent: "Versendet", document.StatusPaid: "Bezahlt",
		document.StatusOverdue: "Überfällig", document.StatusCancelled: "Storniert", document.StatusAccepted: "Angenommen",
		document.StatusRejected: "Abgelehnt", document.StatusExpired: "Abgelaufen", document.StatusConfirmed: "Bestätigt",
		document.StatusShipped: "Versandt", document.StatusDelivered: "Geliefert",
	},
	qrbill.English: {
		document.StatusDraft: "Draft", document.StatusSent: "Sent", document.StatusPaid: "Paid",
		document.StatusOverdue: "Overdue", document.StatusCancelled: "Cancelled", document.StatusAccepted: "Accepted",
		document.StatusRejected: "Rejected", document.StatusExpired: "Expired", document.StatusConfirmed: "Confirmed",
		document.StatusShipped: "Shipped", document.StatusDelivered: "Delivered",
	},
	qrbill.Italian: {
		document.StatusDraft: "Bozza", document.StatusSent: "Inviata", document.StatusPaid: "Pagata",
		document.StatusOverdue: "Scaduta", document.StatusCancelled: "Annullata", document.StatusAccepted: "Accettata",
		document.StatusRejected: "Rifiutata", document.StatusExpired: "Scaduta", document.StatusConfirmed: "Confermato",
		document.StatusShipped: "Spedito", document.StatusDelivered: "Consegnato",
	},
	qrbill.French: {
		document.StatusDraft: "Brouillon", document.StatusSent: "Envoyée", document.StatusPaid: "Payée",
		document.StatusOverdue: "En retard", document.StatusCancelled: "Annulée", document.StatusAccepted: "Acceptée",
		document.StatusRejected: "Refusée", document.StatusExpired: "Expirée", document.StatusConfirmed: "Confirmée",
		document.StatusShipped: "Expédiée", document.StatusDelivered: "Livrée",
	},
}

// Label returns the translated label, falling back to English and then to
// the key itself.
func (StaticLabels) Label(lang qrbill.Language, key LabelKey) string {
	if s, ok := bodyLabels[lang][key]; ok {
		return s
	}
	if s, ok := bodyLabels[qrbill.English][key]; ok {
		return s
	}
	return string(key)
}

func (StaticLabels) Title(lang qrbill.Language, t document.DocType) string {
	return qrbill.DocumentTitle(lang, t)
}

func (StaticLabels) Status(lang qrbill.Language, s document.Status) string {
	if label, ok := statusLabels[lang][s]; ok {
		return label
	}
	return string(s)
}

// FormatDate uses the Swiss dd.mm.yyyy form except for English
func (StaticLabels) FormatDate(lang qrbill.Language, t time.Time) string {
	if lang == qrbill.English {
		return t.Format("2 January 2006")
	}
	return t.Format("02.01.2006")
}
