package layout

import (
	"fmt"
	"regexp"
)

// Language selects the label set used when rendering.
type Language string

const (
	English Language = "en"
	French  Language = "fr"
)

// labelSet holds every fixed string the renderer prints. Using a struct
// rather than a map means a language cannot ship with a key missing.
type labelSet struct {
	Invoice        string
	EmittedAt      string
	DueDate        string
	Company        string
	BillTo         string
	PaymentTerm    string
	PaymentMethods string
	AmountExclTax  string
	VAT            string
	AmountInclTax  string
	BankDetails    string
	Description    string
	Unit           string
	Quantity       string
	UnitPrice      string
	VATCol         string
	Total          string
	TotalInclTax   string
	VATNote        string
	Days           string
	AccountHolder  string
	RoutingNumber  string
	AccountNumber  string
	AccountType    string
	Bank           string
	BankAddress    string
}

var labelSets = map[Language]labelSet{
	English: {
		Invoice:        "Invoice",
		EmittedAt:      "Emitted at",
		DueDate:        "Due date",
		Company:        "Company",
		BillTo:         "Bill to",
		PaymentTerm:    "Payment term:",
		PaymentMethods: "Payment method:",
		AmountExclTax:  "Amount excl. tax:",
		VAT:            "VAT:",
		AmountInclTax:  "Amount incl. tax:",
		BankDetails:    "Bank Account Details",
		Description:    "Description",
		Unit:           "Unit",
		Quantity:       "Quantity",
		UnitPrice:      "Unit price",
		VATCol:         "VAT",
		Total:          "Total",
		TotalInclTax:   "Total incl. tax",
		VATNote:        "VAT not applicable – art. 259-1 of the French Tax Code.",
		Days:           "days",
		AccountHolder:  "Account holder",
		RoutingNumber:  "Routing number (ACH)",
		AccountNumber:  "Account number",
		AccountType:    "Account type",
		Bank:           "Bank",
		BankAddress:    "Bank address",
	},
	French: {
		Invoice:        "Facture",
		EmittedAt:      "Émis le",
		DueDate:        "Date d'échéance",
		Company:        "Société",
		BillTo:         "Client",
		PaymentTerm:    "Délai de paiement :",
		PaymentMethods: "Modes de paiement :",
		AmountExclTax:  "Montant HT :",
		VAT:            "TVA :",
		AmountInclTax:  "Montant TTC :",
		BankDetails:    "Coordonnées bancaires",
		Description:    "Description",
		Unit:           "Unité",
		Quantity:       "Quantité",
		UnitPrice:      "Prix unitaire",
		VATCol:         "TVA",
		Total:          "Total",
		TotalInclTax:   "Total TTC",
		VATNote:        "TVA non applicable – art. 259-1 du Code général des impôts.",
		Days:           "jours",
		AccountHolder:  "Titulaire du compte",
		RoutingNumber:  "Code de routage (ACH)",
		AccountNumber:  "Numéro de compte",
		AccountType:    "Type de compte",
		Bank:           "Banque",
		BankAddress:    "Adresse de la banque",
	},
}

func labelsFor(lang Language) (labelSet, error) {
	labels, ok := labelSets[lang]
	if !ok {
		return labelSet{}, fmt.Errorf("unsupported language %q", lang)
	}
	return labels, nil
}

var rateNotePattern = regexp.MustCompile(`Applied exchange rate: EUR/USD \(([^)]+)\), according to the ECB for (\d{4}-\d{2}-\d{2})`)

// translateRateNote renders the resolver's English note in French. Failure
// notes and unrecognized text pass through untranslated.
func translateRateNote(note string) string {
	m := rateNotePattern.FindStringSubmatch(note)
	if m == nil {
		return note
	}
	return fmt.Sprintf("Taux de change appliqué : EUR/USD (%s), selon la BCE pour le %s", m[1], m[2])
}
