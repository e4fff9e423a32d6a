package commands

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facture-dev/facture/internal/config"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<gesmes:Envelope xmlns:gesmes="http://www.gesmes.org/xml/2002-08-01" xmlns="http://www.ecb.int/vocabulary/2002-08-01/eurofxref">
	<Cube>
		<Cube time="2024-12-16">
			<Cube currency="USD" rate="1.0525"/>
		</Cube>
		<Cube time="2024-12-13">
			<Cube currency="USD" rate="1.0474"/>
		</Cube>
	</Cube>
</gesmes:Envelope>`

func newTestFeed(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testFeed))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, runInit(dir, "Nicolas"))
	return dir
}

func testEmission() time.Time {
	return time.Date(2024, 12, 16, 0, 0, 0, 0, time.UTC)
}

func TestRunGenerate(t *testing.T) {
	dir := setupProject(t)

	err := runGenerate(dir, generateOptions{
		ConfigName: "config.json",
		Emission:   testEmission(),
		RateURL:    newTestFeed(t),
	})
	require.NoError(t, err)

	for _, name := range []string{"Nicolas - December.pdf", "Nicolas - December fr.pdf"} {
		data, err := os.ReadFile(filepath.Join(dir, "invoices", name))
		require.NoError(t, err, "missing %s", name)
		assert.True(t, strings.HasPrefix(string(data), "%PDF"), "%s is not a PDF", name)
	}

	cfg, err := config.Load(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Invoice.LastInvoiceNumber)
	require.NotNil(t, cfg.ExchangeRate)
	assert.True(t, cfg.ExchangeRate.Equal(decimal.RequireFromString("1.0525")))
	assert.Equal(t, "Applied exchange rate: EUR/USD (1.0525), according to the ECB for 2024-12-16", cfg.ExchangeRateNote)
}

func TestRunGenerate_ReconciliationMismatchAborts(t *testing.T) {
	dir := setupProject(t)

	cfgPath := filepath.Join(dir, "config.json")
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	cfg.AmountExclTax = decimal.RequireFromString("9999.99")
	require.NoError(t, config.Save(cfgPath, cfg))

	err = runGenerate(dir, generateOptions{
		ConfigName: "config.json",
		Emission:   testEmission(),
		RateURL:    newTestFeed(t),
	})
	require.Error(t, err)
	var recErr config.ReconciliationError
	require.ErrorAs(t, err, &recErr)
	assert.Contains(t, err.Error(), "9999.99")

	// Nothing written, nothing persisted.
	entries, err := os.ReadDir(filepath.Join(dir, "invoices"))
	require.NoError(t, err)
	assert.Empty(t, entries)

	got, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Invoice.LastInvoiceNumber)
	assert.Empty(t, got.ExchangeRateNote)
}

func TestRunGenerate_RateFeedDownStillGenerates(t *testing.T) {
	dir := setupProject(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	deadURL := srv.URL
	srv.Close()

	err := runGenerate(dir, generateOptions{
		ConfigName: "config.json",
		Emission:   testEmission(),
		RateURL:    deadURL,
	})
	require.NoError(t, err)

	for _, name := range []string{"Nicolas - December.pdf", "Nicolas - December fr.pdf"} {
		_, err := os.Stat(filepath.Join(dir, "invoices", name))
		require.NoError(t, err, "missing %s", name)
	}

	cfg, err := config.Load(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.Nil(t, cfg.ExchangeRate)
	assert.Contains(t, cfg.ExchangeRateNote, "Could not fetch exchange rate from ECB.")
	assert.Equal(t, 1, cfg.Invoice.LastInvoiceNumber)
}

func TestRunGenerate_MissingConfig(t *testing.T) {
	err := runGenerate(t.TempDir(), generateOptions{
		ConfigName: "config.json",
		Emission:   testEmission(),
		RateURL:    newTestFeed(t),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunGenerate_SequentialRunsIncrement(t *testing.T) {
	dir := setupProject(t)
	feedURL := newTestFeed(t)

	for want := 1; want <= 3; want++ {
		err := runGenerate(dir, generateOptions{
			ConfigName: "config.json",
			Emission:   testEmission(),
			RateURL:    feedURL,
		})
		require.NoError(t, err)

		cfg, err := config.Load(filepath.Join(dir, "config.json"))
		require.NoError(t, err)
		assert.Equal(t, want, cfg.Invoice.LastInvoiceNumber)
	}
}

func TestRunGenerate_StyleOverrides(t *testing.T) {
	dir := setupProject(t)
	stylePath := filepath.Join(dir, "style.yaml")
	require.NoError(t, os.WriteFile(stylePath, []byte("margin: 40\n"), 0o644))

	err := runGenerate(dir, generateOptions{
		ConfigName: "config.json",
		Emission:   testEmission(),
		RateURL:    newTestFeed(t),
		StylePath:  stylePath,
	})
	require.NoError(t, err)
}
