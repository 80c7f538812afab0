package qrbill

import "github.com/swissbill/backend/internal/domain/document"

type slipLabels struct {
	Receipt           string
	PaymentPart       string
	AccountPayableTo  string
	AdditionalInfo    string
	PayableBy         string
	PayableByBlank    string
	Currency          string
	Amount            string
	AcceptancePoint   string
	SeparateBeforePay string
}

var labelsByLanguage = map[Language]slipLabels{
	German: {
		Receipt:           "Empfangsschein",
		PaymentPart:       "Zahlteil",
		AccountPayableTo:  "Konto / Zahlbar an",
		AdditionalInfo:    "Zusätzliche Informationen",
		PayableBy:         "Zahlbar durch",
		PayableByBlank:    "Zahlbar durch (Name/Adresse)",
		Currency:          "Währung",
		Amount:            "Betrag",
		AcceptancePoint:   "Annahmestelle",
		SeparateBeforePay: "Vor der Einzahlung abzutrennen",
	},
	English: {
		Receipt:           "Receipt",
		PaymentPart:       "Payment part",
		AccountPayableTo:  "Account / Payable to",
		AdditionalInfo:    "Additional information",
		PayableBy:         "Payable by",
		PayableByBlank:    "Payable by (name/address)",
		Currency:          "Currency",
		Amount:            "Amount",
		AcceptancePoint:   "Acceptance point",
		SeparateBeforePay: "Separate before paying in",
	},
	Italian: {
		Receipt:           "Ricevuta",
		PaymentPart:       "Sezione pagamento",
		AccountPayableTo:  "Conto / Pagabile a",
		AdditionalInfo:    "Informazioni supplementari",
		PayableBy:         "Pagabile da",
		PayableByBlank:    "Pagabile da (nome/indirizzo)",
		Currency:          "Valuta",
		Amount:            "Importo",
		AcceptancePoint:   "Punto di accettazione",
		SeparateBeforePay: "Da staccare prima del versamento",
	},
	French: {
		Receipt:           "Récépissé",
		PaymentPart:       "Section paiement",
		AccountPayableTo:  "Compte / Payable à",
		AdditionalInfo:    "Informations supplémentaires",
		PayableBy:         "Payable par",
		PayableByBlank:    "Payable par (nom/adresse)",
		Currency:          "Monnaie",
		Amount:            "Montant",
		AcceptancePoint:   "Point de dépôt",
		SeparateBeforePay: "A détacher avant le versement",
	},
}

var documentTitles = map[Language]map[document.DocType]string{
	German:  {document.TypeInvoice: "Rechnung", document.TypeQuote: "Offerte", document.TypeOrder: "Auftrag"},
	English: {document.TypeInvoice: "Invoice", document.TypeQuote: "Quote", document.TypeOrder: "Order"},
	Italian: {document.TypeInvoice: "Fattura", document.TypeQuote: "Offerta", document.TypeOrder: "Ordine"},
	French:  {document.TypeInvoice: "Facture", document.TypeQuote: "Offre", document.TypeOrder: "Commande"},
}

func labelsFor(lang Language) slipLabels {
	if l, ok := labelsByLanguage[lang]; ok {
		return l
	}
	return labelsByLanguage[DefaultLanguage]
}

// DocumentTitle returns the translated name of a document type
func DocumentTitle(lang Language, t document.DocType) string {
	titles, ok := documentTitles[lang]
	if !ok {
		titles = documentTitles[DefaultLanguage]
	}
	if title, ok := titles[t]; ok {
		return title
	}
	return string(t)
}
