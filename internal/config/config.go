package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

func init() {
	// config.json stores amounts as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Config represents the top-level config.json document. It is the single
// mutable source of truth: read once at startup, updated in memory with the
// resolved exchange rate and incremented invoice number, and written back
// only after a successful run.
type Config struct {
	Company          Company          `json:"company"`
	Receiver         Receiver         `json:"receiver"`
	Services         []Service        `json:"services" validate:"dive"`
	Invoice          Invoice          `json:"invoice"`
	AmountExclTax    decimal.Decimal  `json:"amount_excl_tax"`
	VAT              decimal.Decimal  `json:"vat"`
	AmountInclTax    decimal.Decimal  `json:"amount_incl_tax"`
	VATRate          decimal.Decimal  `json:"vat_rate"`
	VATNote          string           `json:"vat_note"`
	PaymentMethods   string           `json:"payment_methods"`
	BankDetails      BankDetails      `json:"bank_details"`
	OutputName       string           `json:"output_name"`
	ExchangeRate     *decimal.Decimal `json:"exchange_rate"`
	ExchangeRateNote string           `json:"exchange_rate_note"`
}

// Company identifies the issuing business.
type Company struct {
	LegalName    string `json:"legal_name"`
	BusinessName string `json:"business_name"`
	ContactName  string `json:"contact_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	SIRET        string `json:"siret"`
}

// Receiver identifies the billed client.
type Receiver struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Service is one invoice line item.
type Service struct {
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	AmountUSD   decimal.Decimal `json:"amount_usd"`
}

// Invoice holds numbering and payment-term settings.
type Invoice struct {
	DueDays           int `json:"due_days" validate:"gte=0"`
	LastInvoiceNumber int `json:"last_invoice_number" validate:"gte=0"`
}

// BankDetails holds the wire/ACH coordinates printed on the invoice.
type BankDetails struct {
	AccountHolder string `json:"account_holder"`
	RoutingNumber string `json:"routing_number"`
	AccountNumber string `json:"account_number"`
	AccountType   string `json:"account_type"`
	Bank          string `json:"bank"`
	BankAddress   string `json:"bank_address"`
}

// ReconciliationError reports a mismatch between the itemized line totals
// and the stated pre-tax total.
type ReconciliationError struct {
	Computed decimal.Decimal
	Stated   decimal.Decimal
}

func (e ReconciliationError) Error() string {
	return fmt.Sprintf("sum of service amounts ($%s) does not match amount_excl_tax ($%s)",
		e.Computed.StringFixed(2), e.Stated.StringFixed(2))
}

var validate = validator.New()

// Load reads a config.json file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config back to disk, fully replacing the previous document.
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Reconcile recomputes the total of all services and checks it against the
// stated amount_excl_tax, to 2-decimal tolerance. Generation must not start
// when this fails.
func (c *Config) Reconcile() error {
	total := decimal.Zero
	for _, svc := range c.Services {
		total = total.Add(svc.AmountUSD.Mul(decimal.NewFromInt(int64(svc.Quantity))))
	}
	if !total.Round(2).Equal(c.AmountExclTax.Round(2)) {
		return ReconciliationError{Computed: total.Round(2), Stated: c.AmountExclTax.Round(2)}
	}
	return nil
}

// Default returns a starter Config for a new project.
func Default(outputName string) *Config {
	amount := decimal.NewFromInt(1000)
	return &Config{
		Company: Company{
			LegalName: "ACME SASU",
			Email:     "billing@example.com",
		},
		Receiver: Receiver{
			Name: "Client Inc.",
		},
		Services: []Service{
			{Description: "Consulting services", Unit: "Month", Quantity: 1, AmountUSD: amount},
		},
		Invoice: Invoice{
			DueDays:           30,
			LastInvoiceNumber: 0,
		},
		AmountExclTax:  amount,
		VAT:            decimal.Zero,
		AmountInclTax:  amount,
		VATRate:        decimal.Zero,
		VATNote:        "VAT not applicable – art. 259-1 of the French Tax Code.",
		PaymentMethods: "Transfer",
		OutputName:     outputName,
	}
}
