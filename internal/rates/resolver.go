// Package rates resolves the EUR/USD reference rate for an invoice date
// from the ECB's 90-day historical feed.
package rates

import (
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultFeedURL is the ECB 90-day euro reference rate time series.
const DefaultFeedURL = "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-hist-90d.xml"

// Resolution is the outcome of a rate lookup. A failed lookup is not an
// error: OK is false and Note explains why, so invoice emission is never
// blocked by a missing rate.
type Resolution struct {
	Rate decimal.Decimal
	OK   bool
	Note string
}

// Resolver fetches and selects exchange rates.
type Resolver struct {
	URL    string
	Client *http.Client
}

// NewResolver returns a Resolver pointed at the ECB feed.
func NewResolver() *Resolver {
	return &Resolver{URL: DefaultFeedURL, Client: http.DefaultClient}
}

// Feed XML shape: Envelope > Cube > Cube[time] > Cube[currency,rate].
type envelope struct {
	Days []feedDay `xml:"Cube>Cube"`
}

type feedDay struct {
	Time  string     `xml:"time,attr"`
	Rates []feedRate `xml:"Cube"`
}

type feedRate struct {
	Currency string `xml:"currency,attr"`
	Rate     string `xml:"rate,attr"`
}

// Resolve returns the applicable EUR/USD rate for an invoice date.
// Selection order: exact date, latest date strictly before, latest overall.
// Network, parse, and missing-data failures degrade to an explanatory note.
func (r *Resolver) Resolve(invoiceDate time.Time) Resolution {
	series, err := r.fetch()
	if err != nil {
		return Resolution{Note: fmt.Sprintf("Could not fetch exchange rate from ECB. %v", err)}
	}
	return selectRate(series, invoiceDate)
}

// fetch downloads the feed and returns USD rates keyed by ISO date.
// A single attempt, no retry.
func (r *Resolver) fetch() (map[string]decimal.Decimal, error) {
	resp, err := r.Client.Get(r.URL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var env envelope
	if err := xml.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding feed: %w", err)
	}

	series := make(map[string]decimal.Decimal)
	for _, day := range env.Days {
		for _, fr := range day.Rates {
			if fr.Currency != "USD" {
				continue
			}
			rate, err := decimal.NewFromString(fr.Rate)
			if err != nil {
				continue
			}
			series[day.Time] = rate
		}
	}
	if len(series) == 0 {
		return nil, errors.New("no USD rates in feed")
	}
	return series, nil
}

func selectRate(series map[string]decimal.Decimal, invoiceDate time.Time) Resolution {
	want := invoiceDate.Format("2006-01-02")

	if rate, ok := series[want]; ok {
		return Resolution{
			Rate: rate,
			OK:   true,
			Note: fmt.Sprintf("Applied exchange rate: EUR/USD (%s), according to the ECB for %s",
				rate.StringFixed(4), want),
		}
	}

	dates := make([]string, 0, len(series))
	for d := range series {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	// Latest published date strictly before the invoice date.
	fallback := ""
	for _, d := range dates {
		if d < want {
			fallback = d
		}
	}
	if fallback != "" {
		rate := series[fallback]
		return Resolution{
			Rate: rate,
			OK:   true,
			Note: fmt.Sprintf("Applied exchange rate: EUR/USD (%s), according to the ECB for %s (latest available before invoice date %s)",
				rate.StringFixed(4), fallback, want),
		}
	}

	// No rate at or before the invoice date: use the most recent overall.
	latest := dates[len(dates)-1]
	rate := series[latest]
	return Resolution{
		Rate: rate,
		OK:   true,
		Note: fmt.Sprintf("Applied exchange rate: EUR/USD (%s), according to the ECB for %s (no rate available for or before invoice date %s)",
			rate.StringFixed(4), latest, want),
	}
}
