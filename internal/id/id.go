package id

import (
	"fmt"
	"time"
)

// Next derives the invoice identifier for an emission date and the previous
// sequence number, returning the identifier and the incremented number.
// The caller persists the new number only after generation succeeds.
func Next(emission time.Time, lastNumber int) (string, int) {
	number := lastNumber + 1
	return Format(emission, number), number
}

// Format returns an invoice identifier like "N° #16-12-2024-03".
func Format(emission time.Time, number int) string {
	return fmt.Sprintf("N° #%s-%02d", emission.Format("02-01-2006"), number)
}
