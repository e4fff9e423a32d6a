package layout

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facture-dev/facture/internal/config"
)

func testConfig() *config.Config {
	cfg := config.Default("Nicolas")
	cfg.Company = config.Company{
		LegalName:    "Martin Conseil SASU",
		BusinessName: "Martin Conseil",
		ContactName:  "Nicolas Martin",
		Email:        "nicolas@example.com",
		Phone:        "+33 6 12 34 56 78",
		Address:      "12 rue de la Paix, 75002 Paris, France",
		SIRET:        "123 456 789 00012",
	}
	cfg.Receiver = config.Receiver{
		Name:    "Acme Corp.",
		Address: "548 Market St, San Francisco, CA 94104, USA",
	}
	cfg.BankDetails = config.BankDetails{
		AccountHolder: "Nicolas Martin",
		RoutingNumber: "026073150",
		AccountNumber: "8311234567",
		AccountType:   "Checking",
		Bank:          "Wise",
		BankAddress:   "30 W. 26th Street, New York NY 10010",
	}
	cfg.ExchangeRateNote = "Applied exchange rate: EUR/USD (1.0525), according to the ECB for 2024-12-16"
	return cfg
}

func emissionDate() time.Time {
	return time.Date(2024, 12, 16, 0, 0, 0, 0, time.UTC)
}

func TestRender_SinglePage(t *testing.T) {
	r := NewRenderer(DefaultStyle())
	doc, err := r.build(testConfig(), "N° #16-12-2024-03", emissionDate(), English)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.PageCount())
}

func TestRender_BothLanguages(t *testing.T) {
	r := NewRenderer(DefaultStyle())
	for _, lang := range []Language{English, French} {
		data, err := r.Render(testConfig(), "N° #16-12-2024-03", emissionDate(), lang)
		require.NoError(t, err, "language %s", lang)
		assert.True(t, strings.HasPrefix(string(data), "%PDF"), "language %s: not a PDF", lang)
	}
}

func TestRender_UnsupportedLanguage(t *testing.T) {
	r := NewRenderer(DefaultStyle())
	_, err := r.Render(testConfig(), "N° #16-12-2024-03", emissionDate(), Language("de"))
	require.Error(t, err)
}

func TestRender_TableSplitsAcrossPages(t *testing.T) {
	cfg := testConfig()
	cfg.Services = nil
	total := decimal.Zero
	amount := decimal.NewFromInt(100)
	for i := 0; i < 40; i++ {
		cfg.Services = append(cfg.Services, config.Service{
			Description: "Long-running consulting engagement covering architecture review, implementation support and knowledge transfer",
			Unit:        "Day",
			Quantity:    1,
			AmountUSD:   amount,
		})
		total = total.Add(amount)
	}
	cfg.AmountExclTax = total
	cfg.AmountInclTax = total

	r := NewRenderer(DefaultStyle())
	doc, err := r.build(cfg, "N° #16-12-2024-03", emissionDate(), English)
	require.NoError(t, err)
	assert.Greater(t, doc.PageCount(), 1, "40 multi-line rows must overflow one page")
}

func TestRender_MissingFieldsDegradeSoftly(t *testing.T) {
	// A nearly empty configuration still renders without error.
	cfg := &config.Config{}
	r := NewRenderer(DefaultStyle())
	data, err := r.Render(cfg, "N° #16-12-2024-01", emissionDate(), English)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestRender_RateFailureNoteStillRenders(t *testing.T) {
	cfg := testConfig()
	cfg.ExchangeRate = nil
	cfg.ExchangeRateNote = "Could not fetch exchange rate from ECB. connection refused"
	r := NewRenderer(DefaultStyle())
	for _, lang := range []Language{English, French} {
		_, err := r.Render(cfg, "N° #16-12-2024-03", emissionDate(), lang)
		require.NoError(t, err, "language %s", lang)
	}
}

func TestRender_LongNotesGrowSummaryBox(t *testing.T) {
	cfg := testConfig()
	cfg.VATNote = strings.Repeat("VAT exemption wording that wraps over many lines. ", 20)
	cfg.ExchangeRateNote = strings.Repeat("A very descriptive exchange rate provenance note. ", 20)
	r := NewRenderer(DefaultStyle())
	_, err := r.Render(cfg, "N° #16-12-2024-03", emissionDate(), English)
	require.NoError(t, err)
}

func TestDueDateCrossesMonthBoundary(t *testing.T) {
	emission := time.Date(2025, 1, 28, 0, 0, 0, 0, time.UTC)
	due := emission.AddDate(0, 0, 10)
	assert.Equal(t, "07/02/2025", due.Format(dateLayout))
}
